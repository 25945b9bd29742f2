package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/offline-learning-api/internal/middleware"
	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
	"github.com/noah-isme/offline-learning-api/pkg/response"
)

type analyticsService interface {
	StudentAnalytics(ctx context.Context, id string) (*models.StudentAnalytics, error)
	CohortAnalytics(ctx context.Context, ids []string, grade string) (*models.CohortAnalytics, error)
	SubjectAnalytics(ctx context.Context, subject string, ids []string, grade string) (*models.SubjectAnalytics, error)
}

// AnalyticsHandler exposes student, cohort and subject analytics.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Student godoc
// @Summary Student learning analytics
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/students/{id} [get]
func (h *AnalyticsHandler) Student(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, err := h.analytics.StudentAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, result)
}

// Cohort godoc
// @Summary Cohort analytics
// @Tags Analytics
// @Produce json
// @Param grade query string false "Grade filter"
// @Param student_ids query string false "Comma separated student IDs"
// @Success 200 {object} response.Envelope
// @Router /analytics/cohort [get]
func (h *AnalyticsHandler) Cohort(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	ids, err := studentIDsQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	result, err := h.analytics.CohortAnalytics(c.Request.Context(), ids, gradeQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "empty_cohort", result.Empty)
	respondOK(c, start, result)
}

// Subject godoc
// @Summary Subject analytics across a cohort
// @Tags Analytics
// @Produce json
// @Param subject path string true "Subject name"
// @Param grade query string false "Grade filter"
// @Param student_ids query string false "Comma separated student IDs"
// @Success 200 {object} response.Envelope
// @Router /analytics/subjects/{subject} [get]
func (h *AnalyticsHandler) Subject(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	subject := strings.TrimSpace(c.Param("subject"))
	if subject == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subject is required"))
		return
	}
	ids, err := studentIDsQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	result, err := h.analytics.SubjectAnalytics(c.Request.Context(), subject, ids, gradeQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "empty_cohort", result.TotalStudents == 0)
	respondOK(c, start, result)
}
