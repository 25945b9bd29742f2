package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/internal/service"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
	"github.com/noah-isme/offline-learning-api/pkg/response"
)

type riskService interface {
	Status() models.ModelStatus
	Classify(input service.FeatureInput) (*models.RiskPrediction, error)
	PredictStudent(ctx context.Context, id string) (*models.RiskPrediction, error)
	PredictAll(ctx context.Context, grade string) (*models.RiskRoster, error)
}

// RiskHandler exposes risk classification endpoints.
type RiskHandler struct {
	risk riskService
}

// NewRiskHandler constructs the risk handler.
func NewRiskHandler(risk riskService) *RiskHandler {
	return &RiskHandler{risk: risk}
}

// Status godoc
// @Summary Trained classifier status
// @Tags Risk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /risk/status [get]
func (h *RiskHandler) Status(c *gin.Context) {
	if h.risk == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.risk.Status(), nil)
}

// Predict godoc
// @Summary Classify an ad-hoc feature vector
// @Tags Risk
// @Accept json
// @Produce json
// @Param payload body service.FeatureInput true "Feature values"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /risk/predict [post]
func (h *RiskHandler) Predict(c *gin.Context) {
	if h.risk == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var input service.FeatureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feature payload"))
		return
	}
	start := time.Now()
	prediction, err := h.risk.Classify(input)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, prediction)
}

// Student godoc
// @Summary Predict risk for a stored student
// @Tags Risk
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /risk/students/{id} [get]
func (h *RiskHandler) Student(c *gin.Context) {
	if h.risk == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	prediction, err := h.risk.PredictStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, prediction)
}

// Roster godoc
// @Summary Risk roster for a grade
// @Tags Risk
// @Produce json
// @Param grade query string false "Grade filter"
// @Success 200 {object} response.Envelope
// @Router /risk/students [get]
func (h *RiskHandler) Roster(c *gin.Context) {
	if h.risk == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	roster, err := h.risk.PredictAll(c.Request.Context(), gradeQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, start, roster)
}
