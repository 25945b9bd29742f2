package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/internal/service"
	"github.com/noah-isme/offline-learning-api/pkg/jobs"
	"github.com/noah-isme/offline-learning-api/pkg/response"
)

// ReadinessCheck probes one backing dependency.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type queueStats interface {
	Stats() jobs.Stats
}

type modelStatus interface {
	Status() models.ModelStatus
}

// MetricsSummary is the JSON view served by the metrics summary endpoint.
type MetricsSummary struct {
	System  service.SystemMetrics `json:"system"`
	Reports *jobs.Stats           `json:"reports,omitempty"`
	Model   *models.ModelStatus   `json:"model,omitempty"`
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics      *service.MetricsService
	queue        queueStats
	model        modelStatus
	checks       []ReadinessCheck
	checkTimeout time.Duration
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, queue queueStats, model modelStatus, checks ...ReadinessCheck) *MetricsHandler {
	return &MetricsHandler{
		metrics:      metrics,
		queue:        queue,
		model:        model,
		checks:       checks,
		checkTimeout: 2 * time.Second,
	}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary godoc
// @Summary Aggregated runtime metrics
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/summary [get]
func (h *MetricsHandler) Summary(c *gin.Context) {
	summary := MetricsSummary{System: h.metrics.Snapshot()}
	if h.queue != nil {
		stats := h.queue.Stats()
		summary.Reports = &stats
	}
	if h.model != nil {
		status := h.model.Status()
		summary.Model = &status
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings every registered dependency and reports 503 when one fails.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if check.Ping == nil {
			continue
		}
		if err := check.Ping(ctx); err != nil {
			results[check.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}
	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}
