package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover is the top-level fallback: no handler error may crash the
// process. Panics are logged with a stack trace and converted to a
// generic 500.
func Recover(next http.Handler) http.Handler {
	log := slog.Default().With(slog.String("middleware", "recover"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic while handling request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Something went wrong on the server",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
