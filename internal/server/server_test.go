package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/agbru/montyhall/internal/metrics"
)

func TestServer_StartServeShutdown(t *testing.T) {
	reg := metrics.NewRegistry()
	run := metrics.NewRunMetrics(reg)
	run.TrialsCompleted(1000)

	s := New("127.0.0.1:0", reg, newTestLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	}()

	base := "http://" + s.Addr()

	resp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "montyhall_trials_total 1000") {
		t.Errorf("run metrics missing from /metrics:\n%s", body)
	}

	resp, err = http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Post(base+"/metrics", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("POST /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	s := New("127.0.0.1:99999", nil, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected listen error")
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown of a never-started server should be a no-op, got %v", err)
	}
}
