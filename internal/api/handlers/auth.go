package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
)

// AuthStart initiates the OAuth flow: it parks a CSRF state token in the
// cookie and redirects the user agent to the provider.
func (h *Handler) AuthStart(w http.ResponseWriter, r *http.Request) {
	state := generateState()

	if err := h.cookies.SetState(r, w, state); err != nil {
		h.log.Error("failed to save oauth state", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.Redirect(w, r, h.authService.AuthorizationURL(state), http.StatusFound)
}

// AuthCallback handles the provider redirect. On success the user lands on
// the frontend with a signed bearer token in the query string; on any
// failure they land on the frontend without one, never on an error page.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	entry := h.frontendOrigin + "/"

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.log.Warn("provider returned error",
			slog.String("error", errParam),
			slog.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.log.Warn("callback missing authorization code")
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	savedState, err := h.cookies.ConsumeState(r, w)
	if err != nil || savedState != r.URL.Query().Get("state") {
		h.log.Warn("invalid state parameter, possible CSRF attempt")
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	user, err := h.authService.CompleteExchange(r.Context(), code)
	if err != nil {
		h.log.Error("oauth exchange failed", slog.String("error", err.Error()))
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	// Server session only backs the logout flow; the bearer token is the
	// credential for everything else.
	sessionID, err := h.sessions.Create(user.ID)
	if err != nil {
		h.log.Error("failed to create session", slog.String("error", err.Error()))
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}
	if err := h.cookies.SetSessionID(r, w, sessionID); err != nil {
		h.log.Error("failed to save session cookie", slog.String("error", err.Error()))
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	token, _, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("failed to sign token", slog.String("error", err.Error()))
		http.Redirect(w, r, entry, http.StatusFound)
		return
	}

	http.Redirect(w, r, entry+"?token="+token, http.StatusFound)
}

// Logout terminates the server session. A missing or already-expired
// session is still a clean logout; only a failure to remove an existing
// session surfaces as an error, and the client clears its stored token
// either way.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.cookies.SessionID(r)
	if err != nil {
		// No session to tear down.
		h.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
		return
	}

	if err := h.sessions.Delete(sessionID); err != nil {
		h.log.Error("failed to destroy session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Failed to destroy session")
		return
	}

	if err := h.cookies.Clear(r, w); err != nil {
		h.log.Warn("failed to clear session cookie", slog.String("error", err.Error()))
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
