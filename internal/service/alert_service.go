package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/analytics"
	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
)

// AlertNotifier pushes alert digests to an outside channel.
type AlertNotifier interface {
	NotifyAlerts(ctx context.Context, digest models.AlertDigest) error
}

// AlertService evaluates per-student alert checks.
type AlertService struct {
	analytics *AnalyticsService
	notifier  AlertNotifier
	logger    *zap.Logger
}

// NewAlertService constructs an AlertService. notifier may be nil when no
// channel is configured.
func NewAlertService(analyticsSvc *AnalyticsService, notifier AlertNotifier, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{analytics: analyticsSvc, notifier: notifier, logger: logger}
}

// StudentAlerts runs the alert checks for one student.
func (s *AlertService) StudentAlerts(ctx context.Context, id string) (*models.StudentAlerts, error) {
	student, err := s.analytics.student(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.analytics.now()
	alerts, err := s.check(ctx, student.ID, now)
	if err != nil {
		return nil, err
	}
	return &models.StudentAlerts{
		StudentID:   student.ID,
		StudentName: student.Name,
		TotalAlerts: len(alerts),
		Alerts:      alerts,
		CheckedAt:   now,
	}, nil
}

// Summary counts alerts across the grade, or every student when grade is empty.
func (s *AlertService) Summary(ctx context.Context, grade string) (*models.AlertSummary, error) {
	students, err := s.analytics.cohortStudents(ctx, nil, grade)
	if err != nil {
		return nil, err
	}
	now := s.analytics.now()
	perStudent := make([][]models.Alert, 0, len(students))
	for _, student := range students {
		alerts, err := s.check(ctx, student.ID, now)
		if err != nil {
			return nil, err
		}
		perStudent = append(perStudent, alerts)
	}
	summary := analytics.SummarizeAlerts(perStudent, now)
	return &summary, nil
}

// Notify sends the grade's alert summary and watch list to the configured channel.
func (s *AlertService) Notify(ctx context.Context, grade string) (*models.AlertDigest, error) {
	if s.notifier == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "no alert notifier configured")
	}
	summary, err := s.Summary(ctx, grade)
	if err != nil {
		return nil, err
	}
	cohort, err := s.analytics.CohortAnalytics(ctx, nil, grade)
	if err != nil {
		return nil, err
	}
	digest := &models.AlertDigest{Grade: grade, Summary: *summary, WatchList: cohort.StudentsNeedingAttention}

	start := time.Now()
	if err := s.notifier.NotifyAlerts(ctx, *digest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to deliver alert digest")
	}
	s.logger.Info("alert digest delivered",
		zap.String("grade", grade),
		zap.Int("students_with_alerts", summary.StudentsWithAlerts),
		zap.Int("watch_list", len(digest.WatchList)),
		zap.Duration("duration", time.Since(start)),
	)
	return digest, nil
}

func (s *AlertService) check(ctx context.Context, studentID string, now time.Time) ([]models.Alert, error) {
	records, err := loadRecords(ctx, s.analytics.records, s.analytics.metrics, studentID)
	if err != nil {
		return nil, err
	}
	return analytics.Alerts(records, now), nil
}
