package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wrenhall/mailsift/internal/auth"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
	"github.com/wrenhall/mailsift/internal/domain/services"
	"github.com/wrenhall/mailsift/internal/pkg/logger"
)

// classifyRequest is the body of POST /classify
type classifyRequest struct {
	NumEmails int `json:"numEmails"`
}

// Emails returns the authenticated user's full email sequence in stored
// order.
func (h *Handler) Emails(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	emails, err := h.emailService.List(r.Context(), user.UserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		h.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logger.WithUser(h.log, user.UserID).Error("failed to fetch emails",
			slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch emails")
		return
	}

	h.writeJSON(w, http.StatusOK, emails)
}

// Classify applies the keyword rule to the first numEmails emails and
// returns the full updated sequence.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Non-integer counts land here as decode errors.
		h.writeError(w, http.StatusBadRequest, "Invalid number of emails")
		return
	}

	emails, err := h.emailService.Classify(r.Context(), user.UserID, req.NumEmails)
	switch {
	case errors.Is(err, services.ErrInvalidEmailCount):
		h.writeError(w, http.StatusBadRequest, "Invalid number of emails")
		return
	case errors.Is(err, services.ErrNoEmailsToClassify):
		h.writeError(w, http.StatusBadRequest, "No emails to classify")
		return
	case errors.Is(err, repositories.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		logger.WithUser(h.log, user.UserID).Error("failed to classify emails",
			slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Failed to classify emails")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Emails classified successfully",
		"emails":  emails,
	})
}
