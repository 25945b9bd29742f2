package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/analytics"
	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
)

const rosterRecommendations = 3

// FeatureInput is a what-if classification request. Supplemental signals
// are optional; omitting one skips the rule and factor that reads it.
type FeatureInput struct {
	AttendanceRate         float64  `json:"attendance_rate" validate:"gte=0,lte=100"`
	AvgScore               float64  `json:"avg_score" validate:"gte=0,lte=100"`
	StudyConsistency       float64  `json:"study_consistency" validate:"gte=0"`
	ActivityCompletionRate float64  `json:"activity_completion_rate" validate:"gte=0,lte=100"`
	AssessmentAverage      *float64 `json:"assessment_average,omitempty" validate:"omitempty,gte=0,lte=100"`
	AssessmentCount        *int     `json:"assessment_count,omitempty" validate:"omitempty,gte=0"`
	WeeklyActivities       *int     `json:"weekly_activities,omitempty" validate:"omitempty,gte=0"`
}

func (in FeatureInput) signals() models.RiskSignals {
	return models.RiskSignals{
		Features: models.FeatureVector{
			AttendanceRate:         in.AttendanceRate,
			AvgScore:               in.AvgScore,
			StudyConsistency:       in.StudyConsistency,
			ActivityCompletionRate: in.ActivityCompletionRate,
		},
		AssessmentAverage: in.AssessmentAverage,
		AssessmentCount:   in.AssessmentCount,
		WeeklyActivities:  in.WeeklyActivities,
	}
}

// ModelStatusReporter reports the trained classifier state.
type ModelStatusReporter interface {
	Status() models.ModelStatus
}

// RiskService exposes standalone and per-student risk predictions.
type RiskService struct {
	classifier RiskClassifier
	status     ModelStatusReporter
	analytics  *AnalyticsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewRiskService constructs a RiskService.
func NewRiskService(classifier RiskClassifier, status ModelStatusReporter, analyticsSvc *AnalyticsService, validate *validator.Validate, logger *zap.Logger) *RiskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{classifier: classifier, status: status, analytics: analyticsSvc, validator: validate, logger: logger}
}

// Status reports whether the trained model is loaded.
func (s *RiskService) Status() models.ModelStatus {
	return s.status.Status()
}

// Classify predicts risk for a raw feature vector.
func (s *RiskService) Classify(input FeatureInput) (*models.RiskPrediction, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feature input")
	}
	signals := input.signals()
	prediction := newPrediction(s.classifier.Classify(signals), signals.Features)
	return &prediction, nil
}

// PredictStudent runs the full pipeline for one student and returns its
// prediction with feature-level recommendations.
func (s *RiskService) PredictStudent(ctx context.Context, id string) (*models.RiskPrediction, error) {
	result, err := s.analytics.StudentAnalytics(ctx, id)
	if err != nil {
		return nil, err
	}
	prediction := newPrediction(result.Risk, result.Features)
	prediction.StudentID = result.StudentID
	return &prediction, nil
}

// PredictAll predicts every student in the grade (or everyone) and orders
// the roster by severity, most at risk first.
func (s *RiskService) PredictAll(ctx context.Context, grade string) (*models.RiskRoster, error) {
	members, err := s.analytics.Snapshots(ctx, nil, grade, s.analytics.now())
	if err != nil {
		return nil, err
	}

	roster := &models.RiskRoster{
		TotalStudents: len(members),
		Students:      make([]models.RiskRosterEntry, 0, len(members)),
	}
	for _, m := range members {
		recs := analytics.FeatureRecommendations(m.Features, m.Risk.RiskLevel)
		if len(recs) > rosterRecommendations {
			recs = recs[:rosterRecommendations]
		}
		roster.Students = append(roster.Students, models.RiskRosterEntry{
			StudentID:       m.StudentID,
			StudentName:     m.StudentName,
			Grade:           m.Grade,
			PredictedRisk:   m.Risk.RiskLevel,
			Confidence:      m.Risk.Confidence,
			Recommendations: recs,
			AttendanceRate:  m.Features.AttendanceRate,
			AvgScore:        m.Features.AvgScore,
		})
		switch m.Risk.RiskLevel {
		case models.RiskHigh:
			roster.HighRiskCount++
		case models.RiskMedium:
			roster.MediumRiskCount++
		default:
			roster.LowRiskCount++
		}
	}
	sort.SliceStable(roster.Students, func(i, j int) bool {
		return roster.Students[i].PredictedRisk.Severity() > roster.Students[j].PredictedRisk.Severity()
	})
	roster.PredictedStudents = len(roster.Students)
	return roster, nil
}

func newPrediction(assessment models.RiskAssessment, features models.FeatureVector) models.RiskPrediction {
	names := make([]string, len(models.FeatureNames))
	copy(names, models.FeatureNames)
	return models.RiskPrediction{
		PredictedRisk:       assessment.RiskLevel,
		Confidence:          assessment.Confidence,
		Probabilities:       assessment.Probabilities,
		Source:              assessment.Source,
		ContributingFactors: assessment.ContributingFactors,
		Recommendations:     analytics.FeatureRecommendations(features, assessment.RiskLevel),
		FeaturesUsed:        names,
		FeatureValues:       features.Map(),
	}
}
