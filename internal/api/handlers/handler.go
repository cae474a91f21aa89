package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wrenhall/mailsift/internal/auth"
	"github.com/wrenhall/mailsift/internal/domain/services"
	"github.com/wrenhall/mailsift/internal/session"
)

// Handler holds the dependencies for all HTTP handlers. Everything is
// constructed once at process start and passed down; nothing is reached
// for as ambient global state.
type Handler struct {
	authService    *services.AuthService
	emailService   *services.EmailService
	jwtManager     *auth.JWTManager
	sessions       session.Store
	cookies        *session.CookieManager
	frontendOrigin string
	log            *slog.Logger
}

// New creates the handler set
func New(
	authService *services.AuthService,
	emailService *services.EmailService,
	jwtManager *auth.JWTManager,
	sessions session.Store,
	cookies *session.CookieManager,
	frontendOrigin string,
) *Handler {
	return &Handler{
		authService:    authService,
		emailService:   emailService,
		jwtManager:     jwtManager,
		sessions:       sessions,
		cookies:        cookies,
		frontendOrigin: frontendOrigin,
		log:            slog.Default().With(slog.String("component", "handlers")),
	}
}

// writeJSON writes a JSON response body with the given status
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError writes a structured JSON error body
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
