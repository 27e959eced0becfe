package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	cfg := Config{Enabled: true, Token: "s3cret"}
	h := Middleware(cfg)(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/api/v1/orientation", "", http.StatusUnauthorized},
		{"wrong token", "/api/v1/orientation", "Bearer nope", http.StatusUnauthorized},
		{"missing scheme", "/api/v1/orientation", "s3cret", http.StatusUnauthorized},
		{"basic scheme", "/api/v1/orientation", "Basic s3cret", http.StatusUnauthorized},
		{"valid token", "/api/v1/orientation", "Bearer s3cret", http.StatusOK},
		{"refresh needs token", "/api/v1/eop/refresh", "", http.StatusUnauthorized},
		{"probe exempt", "/healthz", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
		{"viewer exempt", "/", "", http.StatusOK},
		{"static exempt", "/static/app.js", "", http.StatusOK},
		{"stream exempt", "/api/v1/stream/orientation", "", http.StatusOK},
		{"metadata exempt", "/api/v1/eop/metadata", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	h := Middleware(Config{Enabled: false})(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/eop/refresh", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", w.Code)
	}
}
