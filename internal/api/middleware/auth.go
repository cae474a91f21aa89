package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wrenhall/mailsift/internal/auth"
)

// AuthMiddleware is the bearer-token gate guarding the protected routes.
// It is stateless: the token itself proves the authentication, no store
// lookup happens here.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	log        *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		log:        slog.Default().With(slog.String("middleware", "auth")),
	}
}

// RequireToken validates the Authorization header and attaches the resolved
// user to the request context. Missing or invalid credentials end the
// request with a 401; the client must re-authenticate.
func (m *AuthMiddleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "No token provided")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.log.Debug("token rejected",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{UserID: claims.UserID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
