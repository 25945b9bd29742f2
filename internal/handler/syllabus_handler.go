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

type syllabusService interface {
	Catalog(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntry, bool, error)
	Plan(ctx context.Context, studentID string) (*models.SyllabusPlan, error)
}

// SyllabusHandler exposes the syllabus catalog and per-student plans.
type SyllabusHandler struct {
	syllabus syllabusService
}

// NewSyllabusHandler constructs the syllabus handler.
func NewSyllabusHandler(syllabus syllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabus: syllabus}
}

// Catalog godoc
// @Summary Syllabus catalog
// @Tags Syllabus
// @Produce json
// @Param grade query string false "Grade filter"
// @Param subject query string false "Subject filter"
// @Success 200 {object} response.Envelope
// @Router /syllabus [get]
func (h *SyllabusHandler) Catalog(c *gin.Context) {
	if h.syllabus == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := models.SyllabusFilter{
		Grade:   gradeQuery(c),
		Subject: strings.TrimSpace(c.Query("subject")),
	}
	start := time.Now()
	entries, cacheHit, err := h.syllabus.Catalog(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	respondOK(c, start, entries)
}

// Plan godoc
// @Summary Syllabus plan for a student
// @Tags Syllabus
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabus/students/{id} [get]
func (h *SyllabusHandler) Plan(c *gin.Context) {
	if h.syllabus == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	plan, err := h.syllabus.Plan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, plan)
}
