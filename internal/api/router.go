// Package api wires the HTTP surface: routes, gates, and cross-cutting
// middleware.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wrenhall/mailsift/internal/api/handlers"
	"github.com/wrenhall/mailsift/internal/api/middleware"
)

// NewRouter sets up the HTTP router with all routes and middleware
func NewRouter(h *handlers.Handler, authMw *middleware.AuthMiddleware, frontendOrigin string) http.Handler {
	router := mux.NewRouter()

	// Operational endpoints (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Auth routes (no credential yet)
	router.HandleFunc("/auth/start", h.AuthStart).Methods("GET")
	router.HandleFunc("/auth/callback", h.AuthCallback).Methods("GET")

	// Logout relies on the cookie-bound server session, not the bearer token
	router.HandleFunc("/logout", h.Logout).Methods("GET")

	// Protected routes (bearer token required)
	router.Handle("/emails", authMw.RequireToken(http.HandlerFunc(h.Emails))).Methods("GET")
	router.Handle("/classify", authMw.RequireToken(http.HandlerFunc(h.Classify))).Methods("POST")

	// Cross-cutting middleware, outermost first: recovery, logging, CORS.
	// CORS sits inside logging so preflights are visible in the request log.
	var handler http.Handler = router
	handler = middleware.CORS(frontendOrigin)(handler)
	handler = middleware.LogRequest(handler)
	handler = middleware.Recover(handler)
	return handler
}
