package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, PATCH"
	corsHeaders = "Content-Type"
)

// CORS admits requests without an Origin header, any localhost origin when
// dev is true, and otherwise only allowedOrigin.
func CORS(dev bool, allowedOrigin string) func(http.Handler) http.Handler {
	allowedOrigin = strings.TrimRight(strings.TrimSpace(allowedOrigin), "/")
	allowed := func(origin string) bool {
		if dev && strings.Contains(origin, "localhost") {
			return true
		}
		return allowedOrigin != "" && origin == allowedOrigin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed(origin) {
				slog.Warn("cors origin rejected", "origin", origin, "path", r.URL.Path)
				writeError(w, http.StatusForbidden, "Not allowed by CORS")
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
