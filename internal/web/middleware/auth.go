package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/LeoAbril98/localizar/internal/config"
)

// APIKeyAuth returns middleware that validates the X-API-Key header against
// the configured keys. If RequireAPIKey is false all requests pass through.
// If RequireAPIKey is true but no keys are configured, all requests are
// rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				denyRequest(w, r, http.StatusUnauthorized,
					`{"error":"missing API key","code":"AUTH_MISSING_KEY"}`)
				return
			}

			if !isValidAPIKey(apiKey, cfg.APIKeys) {
				denyRequest(w, r, http.StatusForbidden,
					`{"error":"invalid API key","code":"AUTH_INVALID_KEY"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// denyRequest logs and writes a JSON auth failure.
func denyRequest(w http.ResponseWriter, r *http.Request, status int, body string) {
	slog.Warn("auth: request denied",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// isValidAPIKey checks if the provided key matches any configured key. It
// compares against every key with constant-time comparison, so the timing
// is the same whichever key matches, or none.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
