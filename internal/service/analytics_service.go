package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/analytics"
	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
)

// StudentReader resolves student profiles.
type StudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// RecordReader reads the raw per-student record streams.
type RecordReader interface {
	Attendance(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	Activities(ctx context.Context, studentID string) ([]models.ActivityRecord, error)
	Assessments(ctx context.Context, studentID string) ([]models.AssessmentRecord, error)
}

// RiskClassifier classifies signals. Implementations never fail.
type RiskClassifier interface {
	Classify(signals models.RiskSignals) models.RiskAssessment
}

// AnalyticsServiceConfig bounds cohort computations.
type AnalyticsServiceConfig struct {
	CohortMaxStudents int
}

// AnalyticsService runs the record → features → risk → recommendations
// pipeline for single students and cohorts.
type AnalyticsService struct {
	students   StudentReader
	records    RecordReader
	classifier RiskClassifier
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        AnalyticsServiceConfig
	now        func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(students StudentReader, records RecordReader, classifier RiskClassifier, metrics *MetricsService, logger *zap.Logger, cfg AnalyticsServiceConfig) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CohortMaxStudents <= 0 {
		cfg.CohortMaxStudents = 500
	}
	return &AnalyticsService{
		students:   students,
		records:    records,
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StudentAnalytics returns the full analytics record for one student.
func (s *AnalyticsService) StudentAnalytics(ctx context.Context, id string) (*models.StudentAnalytics, error) {
	student, err := s.student(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.build(ctx, *student, s.now())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CohortAnalytics aggregates analytics over the selected students. Both
// filters empty selects every student. An empty selection is not an error.
func (s *AnalyticsService) CohortAnalytics(ctx context.Context, ids []string, grade string) (*models.CohortAnalytics, error) {
	now := s.now()
	members, err := s.Snapshots(ctx, ids, grade, now)
	if err != nil {
		return nil, err
	}
	cohort := analytics.Cohort(members, grade, now)
	return &cohort, nil
}

// SubjectAnalytics rolls one subject's progress up across the selected students.
func (s *AnalyticsService) SubjectAnalytics(ctx context.Context, subject string, ids []string, grade string) (*models.SubjectAnalytics, error) {
	if subject == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is required")
	}
	now := s.now()
	members, err := s.Snapshots(ctx, ids, grade, now)
	if err != nil {
		return nil, err
	}
	rollup := analytics.SubjectRollup(subject, members, grade, now)
	return &rollup, nil
}

// Snapshots computes per-student analytics for a cohort selection in
// student ID order. Selections above the configured bound are rejected.
func (s *AnalyticsService) Snapshots(ctx context.Context, ids []string, grade string, now time.Time) ([]models.StudentAnalytics, error) {
	students, err := s.cohortStudents(ctx, ids, grade)
	if err != nil {
		return nil, err
	}
	members := make([]models.StudentAnalytics, 0, len(students))
	for _, student := range students {
		member, err := s.build(ctx, student, now)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *AnalyticsService) student(ctx context.Context, id string) (*models.Student, error) {
	return findStudent(ctx, s.students, s.metrics, id)
}

// findStudent resolves a student, mapping a missing row to NotFound.
func findStudent(ctx context.Context, reader StudentReader, metrics *MetricsService, id string) (*models.Student, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	start := time.Now()
	student, err := reader.FindByID(ctx, id)
	metrics.ObserveDBQuery("student_by_id", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

func (s *AnalyticsService) cohortStudents(ctx context.Context, ids []string, grade string) ([]models.Student, error) {
	limit := s.cfg.CohortMaxStudents
	start := time.Now()
	students, err := s.students.List(ctx, models.StudentFilter{Grade: grade, IDs: ids, Limit: limit + 1})
	s.metrics.ObserveDBQuery("students_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if len(students) > limit {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cohort exceeds the maximum of %d students", limit))
	}
	return students, nil
}

func (s *AnalyticsService) build(ctx context.Context, student models.Student, now time.Time) (models.StudentAnalytics, error) {
	records, err := loadRecords(ctx, s.records, s.metrics, student.ID)
	if err != nil {
		return models.StudentAnalytics{}, err
	}

	agg := analytics.Aggregate(records, now)
	features := analytics.ExtractFeatures(records)
	assessment := s.classifier.Classify(agg.Signals(features))
	metrics := agg.Metrics()

	return models.StudentAnalytics{
		StudentID:         student.ID,
		StudentName:       student.Name,
		Grade:             student.Grade,
		Village:           student.Village,
		AnalyticsDate:     now,
		Attendance:        agg.Attendance,
		LearningProgress:  agg.LearningProgress,
		Assessments:       agg.Assessments,
		StudyPatterns:     agg.StudyPatterns,
		ProgressBySubject: agg.ProgressBySubject,
		Features:          features,
		Risk:              assessment,
		Recommendations:   analytics.Recommendations(metrics, assessment.RiskLevel),
		RecentActivities:  analytics.RecentActivities(records.Activities),
		Summary:           analytics.Summary(metrics, assessment.RiskLevel),
	}, nil
}

// loadRecords fetches every record stream for a student.
func loadRecords(ctx context.Context, reader RecordReader, metrics *MetricsService, studentID string) (analytics.Records, error) {
	var records analytics.Records
	var err error

	start := time.Now()
	if records.Attendance, err = reader.Attendance(ctx, studentID); err != nil {
		return records, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	metrics.ObserveDBQuery("attendance", time.Since(start))

	start = time.Now()
	if records.Activities, err = reader.Activities(ctx, studentID); err != nil {
		return records, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}
	metrics.ObserveDBQuery("activities", time.Since(start))

	start = time.Now()
	if records.Assessments, err = reader.Assessments(ctx, studentID); err != nil {
		return records, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	metrics.ObserveDBQuery("assessments", time.Since(start))

	return records, nil
}
