package handlers

import (
	"net/http"
)

type MiddlewareProvider struct {
	AllowedOrigin string
}

func New() *MiddlewareProvider {
	return &MiddlewareProvider{
		AllowedOrigin: "*",
	}
}

// CORSMiddleware answers preflight requests and stamps the CORS headers the
// browser-based editor needs on every response
func (m *MiddlewareProvider) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", m.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
