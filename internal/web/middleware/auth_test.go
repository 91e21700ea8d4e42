package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LeoAbril98/localizar/internal/config"
)

func authProbe(cfg *config.SecurityConfig, key string) *httptest.ResponseRecorder {
	handler := APIKeyAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: false}

	if rec := authProbe(cfg, ""); rec.Code != http.StatusNoContent {
		t.Errorf("request without key returned %d, want pass-through", rec.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{
		RequireAPIKey: true,
		APIKeys:       []string{"primary", "backup"},
	}

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "intruder", http.StatusForbidden},
		{"primary key", "primary", http.StatusNoContent},
		{"backup key", "backup", http.StatusNoContent},
		{"prefix of valid key", "prim", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := authProbe(cfg, tt.key); rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAPIKeyAuthNoKeysConfigured(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true}

	if rec := authProbe(cfg, "anything"); rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403 when no keys are configured", rec.Code)
	}
	if rec := authProbe(cfg, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401 for missing key", rec.Code)
	}
}
