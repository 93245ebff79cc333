package rest

import (
	"context"
	"net/http"
	"time"
)

// storeProbe is the live store as seen by health checks.
type storeProbe interface {
	Configured() bool
	Ping(ctx context.Context) error
}

// Serving modes reported by health checks.
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store   storeProbe
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store storeProbe, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Mode       string                `json:"mode,omitempty"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Without a configured store the API serves
// demo data and is ready; otherwise the store must answer a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.store.Configured() {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Mode:      ModeDemo,
			Timestamp: time.Now(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Mode:      ModeLive,
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Mode:      ModeLive,
		Timestamp: time.Now(),
	})
}

// Health is the full health check with database latency and version.
// An unreachable store degrades the API to demo data, so it reports
// "degraded" with 200 rather than failing.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]CompStatus)
	overallStatus := "ok"
	mode := ModeLive

	if !h.store.Configured() {
		components["database"] = CompStatus{Status: "not_configured"}
		mode = ModeDemo
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		err := h.store.Ping(ctx)
		latency := time.Since(start)

		if err != nil {
			components["database"] = CompStatus{Status: "down"}
			overallStatus = "degraded"
			mode = ModeDemo
		} else {
			components["database"] = CompStatus{
				Status:  "ok",
				Latency: latency.String(),
			}
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     overallStatus,
		Mode:       mode,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
