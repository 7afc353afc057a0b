package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestDefaultSecurityConfig verifies default security configuration values.
func TestDefaultSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	if !config.EnableCORS {
		t.Error("EnableCORS should be true by default")
	}
	if len(config.AllowedOrigins) != 1 || config.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [\"*\"]", config.AllowedOrigins)
	}
	if len(config.AllowedMethods) != 2 || config.AllowedMethods[0] != "GET" || config.AllowedMethods[1] != "OPTIONS" {
		t.Errorf("AllowedMethods = %v, want [GET OPTIONS]", config.AllowedMethods)
	}
}

// TestSecurityMiddleware_SecurityHeaders tests that all security headers are set.
func TestSecurityMiddleware_SecurityHeaders(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := rec.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
	if !nextCalled {
		t.Error("next handler was not called")
	}
}

// TestSecurityMiddleware_CORS tests CORS header handling.
func TestSecurityMiddleware_CORS(t *testing.T) {
	tests := []struct {
		name           string
		config         SecurityConfig
		origin         string
		expectedOrigin string
	}{
		{"CORS disabled", SecurityConfig{}, "http://example.com", ""},
		{"wildcard", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "http://example.com", "*"},
		{"wildcard without origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "", "*"},
		{"specific origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com", "http://b.com"}, AllowedMethods: []string{"GET"}}, "http://b.com", "http://b.com"},
		{"disallowed origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com"}, AllowedMethods: []string{"GET"}}, "http://evil.com", ""},
		{"specific origins without origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com"}, AllowedMethods: []string{"GET"}}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityMiddleware(tt.config, func(w http.ResponseWriter, r *http.Request) {})
			req := httptest.NewRequest("GET", "/metrics", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectedOrigin)
			}
			if tt.expectedOrigin != "" && rec.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Error("Access-Control-Allow-Methods should be set")
			}
		})
	}
}

// TestSecurityMiddleware_Preflight tests OPTIONS preflight handling.
func TestSecurityMiddleware_Preflight(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	req := httptest.NewRequest("OPTIONS", "/metrics", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler should not be called for OPTIONS")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS headers should be set for OPTIONS")
	}
}
