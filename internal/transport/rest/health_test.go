package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type storeProbeMock struct {
	unconfigured bool
	err          error
	pings        int
}

func (m *storeProbeMock) Configured() bool { return !m.unconfigured }

func (m *storeProbeMock) Ping(_ context.Context) error {
	m.pings++
	return m.err
}

func serveHealth(t *testing.T, fn http.HandlerFunc, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	fn(rec, req)

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec, resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{err: errors.New("down")}, "test-version")
	rec, resp := serveHealth(t, h.Live, "/live")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady_DBUp(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{}, "test-version")
	rec, resp := serveHealth(t, h.Ready, "/ready")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp.Status != "ok" || resp.Mode != ModeLive {
		t.Errorf("expected ok/live, got %q/%q", resp.Status, resp.Mode)
	}
}

func TestReady_DBDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{err: errors.New("connection refused")}, "test-version")
	rec, resp := serveHealth(t, h.Ready, "/ready")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if resp.Status != "down" {
		t.Errorf("expected status 'down', got %q", resp.Status)
	}
}

func TestReady_NotConfiguredServesDemo(t *testing.T) {
	t.Parallel()

	store := &storeProbeMock{unconfigured: true}
	h := NewHealthHandler(store, "test-version")
	rec, resp := serveHealth(t, h.Ready, "/ready")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp.Mode != ModeDemo {
		t.Errorf("expected mode %q, got %q", ModeDemo, resp.Mode)
	}
	if store.pings != 0 {
		t.Errorf("expected no ping for an unconfigured store, got %d", store.pings)
	}
}

func TestHealth_AllOK(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{}, "v1.0.0")
	rec, resp := serveHealth(t, h.Health, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Version != "v1.0.0" {
		t.Errorf("expected version 'v1.0.0', got %q", resp.Version)
	}

	dbComp, ok := resp.Components["database"]
	if !ok {
		t.Fatal("expected 'database' component in response")
	}
	if dbComp.Status != "ok" {
		t.Errorf("expected database status 'ok', got %q", dbComp.Status)
	}
	if dbComp.Latency == "" {
		t.Error("expected non-empty latency for database component")
	}
}

func TestHealth_DBDownDegrades(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{err: errors.New("connection refused")}, "v1.0.0")
	rec, resp := serveHealth(t, h.Health, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp.Status != "degraded" || resp.Mode != ModeDemo {
		t.Errorf("expected degraded/demo, got %q/%q", resp.Status, resp.Mode)
	}
	if got := resp.Components["database"].Status; got != "down" {
		t.Errorf("expected database status 'down', got %q", got)
	}
}

func TestHealth_NotConfigured(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storeProbeMock{unconfigured: true}, "v1.0.0")
	_, resp := serveHealth(t, h.Health, "/health")

	if resp.Status != "ok" || resp.Mode != ModeDemo {
		t.Errorf("expected ok/demo, got %q/%q", resp.Status, resp.Mode)
	}
	if got := resp.Components["database"].Status; got != "not_configured" {
		t.Errorf("expected database status 'not_configured', got %q", got)
	}
}
