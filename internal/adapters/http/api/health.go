// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/talker/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles liveness requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET / with an empty 200.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NewMetricsHandler serves the service registry in the Prometheus text format.
func NewMetricsHandler() http.Handler {
	// Use our custom metrics registry to serve metrics
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
