package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/campus-food-finder/internal/config"
)

func TestAPIKeyAuth(t *testing.T) {
	auth := config.AuthConfig{APIKeys: []string{"apitest", "reload-key"}}

	reload := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("reloaded"))
	})

	tests := []struct {
		name       string
		apiKey     string
		wantStatus int
		wantLogged bool
	}{
		{"default key", "apitest", http.StatusOK, false},
		{"second configured key", "reload-key", http.StatusOK, false},
		{"missing key", "", http.StatusUnauthorized, false},
		{"unknown key", "wrongkey", http.StatusForbidden, true},
		{"prefix of a configured key", "apites", http.StatusForbidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := APIKeyAuth(auth, slog.New(slog.NewJSONHandler(&buf, nil)))(reload)

			req := httptest.NewRequest(http.MethodPost, "/api/catalog/reload", nil)
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != "reloaded" {
				t.Errorf("body = %s, want reloaded", w.Body.String())
			}
			if logged := strings.Contains(buf.String(), "rejected catalog admin request"); logged != tt.wantLogged {
				t.Errorf("logged = %v, want %v", logged, tt.wantLogged)
			}
		})
	}
}
