package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	Healthz(w, httptest.NewRequest("GET", "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ok\n" {
		t.Errorf("body = %q, want %q", w.Body.String(), "ok\n")
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		ready bool
		code  int
		body  string
	}{
		{false, http.StatusServiceUnavailable, "not ready\n"},
		{true, http.StatusOK, "ready\n"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		Readyz(func() bool { return tt.ready })(w, httptest.NewRequest("GET", "/readyz", nil))

		if w.Code != tt.code {
			t.Errorf("ready=%v: status = %d, want %d", tt.ready, w.Code, tt.code)
		}
		if w.Body.String() != tt.body {
			t.Errorf("ready=%v: body = %q, want %q", tt.ready, w.Body.String(), tt.body)
		}
	}
}
