package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/models"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
)

const (
	maxRecommendedTopics = 5
	syllabusCachePrefix  = "syllabus"
)

// SyllabusCatalog lists syllabus entries.
type SyllabusCatalog interface {
	Catalog(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntry, error)
}

// CompletionReader resolves completed syllabus items for a student.
type CompletionReader interface {
	CompletedSyllabusIDs(ctx context.Context, studentID string) ([]string, error)
}

// SyllabusService serves the cached syllabus catalog and per-student plans.
type SyllabusService struct {
	catalog     SyllabusCatalog
	completions CompletionReader
	students    StudentReader
	cache       *CacheService
	metrics     *MetricsService
	ttl         time.Duration
	logger      *zap.Logger
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(catalog SyllabusCatalog, completions CompletionReader, students StudentReader, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *SyllabusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{
		catalog:     catalog,
		completions: completions,
		students:    students,
		cache:       cache,
		metrics:     metrics,
		ttl:         ttl,
		logger:      logger,
	}
}

// Catalog returns the syllabus for the filter. The boolean reports a cache hit.
func (s *SyllabusService) Catalog(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntry, bool, error) {
	key := makeCacheKey(syllabusCachePrefix, filter.Grade, filter.Subject)
	var cached []models.SyllabusEntry
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	entries, err := s.catalog.Catalog(ctx, filter)
	s.metrics.ObserveDBQuery("syllabus_catalog", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}
	if entries == nil {
		entries = []models.SyllabusEntry{}
	}
	if err := s.cache.Set(ctx, key, entries, s.ttl); err != nil {
		s.logger.Warn("cache syllabus", zap.Error(err))
	}
	return entries, false, nil
}

// InvalidateCatalog drops every cached catalog listing. The catalog is edited
// outside this service, so callers flush it when the store may have changed.
func (s *SyllabusService) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Invalidate(ctx, syllabusCachePrefix)
}

// Plan splits the student's grade syllabus into completed, recommended and
// in-progress items. Easy uncompleted items are recommended first.
func (s *SyllabusService) Plan(ctx context.Context, studentID string) (*models.SyllabusPlan, error) {
	student, err := findStudent(ctx, s.students, s.metrics, studentID)
	if err != nil {
		return nil, err
	}
	entries, _, err := s.Catalog(ctx, models.SyllabusFilter{Grade: student.Grade})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completedIDs, err := s.completions.CompletedSyllabusIDs(ctx, student.ID)
	s.metrics.ObserveDBQuery("syllabus_completed", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus progress")
	}
	done := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = struct{}{}
	}

	plan := &models.SyllabusPlan{
		StudentID:   student.ID,
		Grade:       student.Grade,
		Recommended: []models.SyllabusEntry{},
		InProgress:  []models.SyllabusEntry{},
		Completed:   []models.SyllabusEntry{},
	}
	for _, entry := range entries {
		switch {
		case isDone(done, entry.ID):
			plan.Completed = append(plan.Completed, entry)
		case isEasy(entry) && len(plan.Recommended) < maxRecommendedTopics:
			plan.Recommended = append(plan.Recommended, entry)
		default:
			plan.InProgress = append(plan.InProgress, entry)
		}
	}
	return plan, nil
}

func isDone(done map[string]struct{}, id string) bool {
	_, ok := done[id]
	return ok
}

func isEasy(entry models.SyllabusEntry) bool {
	return entry.DifficultyLevel != nil && *entry.DifficultyLevel == models.DifficultyEasy
}
