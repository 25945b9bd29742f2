package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
	"github.com/noah-isme/offline-learning-api/pkg/response"
)

type alertService interface {
	StudentAlerts(ctx context.Context, id string) (*models.StudentAlerts, error)
	Summary(ctx context.Context, grade string) (*models.AlertSummary, error)
	Notify(ctx context.Context, grade string) (*models.AlertDigest, error)
}

// AlertHandler exposes early-warning alert endpoints.
type AlertHandler struct {
	alerts alertService
}

// NewAlertHandler constructs the alert handler.
func NewAlertHandler(alerts alertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Student godoc
// @Summary Alerts raised for one student
// @Tags Alerts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alerts/students/{id} [get]
func (h *AlertHandler) Student(c *gin.Context) {
	if h.alerts == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, err := h.alerts.StudentAlerts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, result)
}

// Summary godoc
// @Summary Alert summary for a grade
// @Tags Alerts
// @Produce json
// @Param grade query string false "Grade filter"
// @Success 200 {object} response.Envelope
// @Router /alerts/summary [get]
func (h *AlertHandler) Summary(c *gin.Context) {
	if h.alerts == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, err := h.alerts.Summary(c.Request.Context(), gradeQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, result)
}

// Notify godoc
// @Summary Push the alert digest to the configured chat
// @Tags Alerts
// @Produce json
// @Param grade query string false "Grade filter"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /alerts/notify [post]
func (h *AlertHandler) Notify(c *gin.Context) {
	if h.alerts == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	digest, err := h.alerts.Notify(c.Request.Context(), gradeQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, digest)
}
