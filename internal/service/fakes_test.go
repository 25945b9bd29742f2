package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/internal/risk"
	appErrors "github.com/noah-isme/offline-learning-api/pkg/errors"
)

var refNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeStudents struct {
	students  map[string]models.Student
	listErr   error
	lastLimit int
}

func (f *fakeStudents) FindByID(_ context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStudents) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.lastLimit = filter.Limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	wanted := map[string]bool{}
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	out := []models.Student{}
	for _, s := range f.students {
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if len(wanted) > 0 && !wanted[s.ID] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type fakeRecords struct {
	attendance  map[string][]models.AttendanceRecord
	activities  map[string][]models.ActivityRecord
	assessments map[string][]models.AssessmentRecord
	err         error
	calls       int
}

func (f *fakeRecords) Attendance(_ context.Context, id string) ([]models.AttendanceRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.attendance[id], nil
}

func (f *fakeRecords) Activities(_ context.Context, id string) ([]models.ActivityRecord, error) {
	f.calls++
	return f.activities[id], nil
}

func (f *fakeRecords) Assessments(_ context.Context, id string) ([]models.AssessmentRecord, error) {
	f.calls++
	return f.assessments[id], nil
}

type stubCacheRepo struct {
	store    map[string][]byte
	sets     int
	patterns []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.sets++
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	s.store = nil
	return nil
}

func day(offsetDays, hour int) *time.Time {
	t := refNow.AddDate(0, 0, -offsetDays).Truncate(24 * time.Hour).Add(time.Duration(hour) * time.Hour)
	return &t
}

func ptr[T any](v T) *T { return &v }

// seedStudent registers a student whose records yield the given headline rates.
func seedStudent(students *fakeStudents, records *fakeRecords, id, grade string, present, completed, total int, score, assessmentPct float64) {
	if students.students == nil {
		students.students = map[string]models.Student{}
	}
	if records.attendance == nil {
		records.attendance = map[string][]models.AttendanceRecord{}
		records.activities = map[string][]models.ActivityRecord{}
		records.assessments = map[string][]models.AssessmentRecord{}
	}
	students.students[id] = models.Student{ID: id, Name: "Student " + id, Grade: grade, Village: "Rampur"}

	for i := 0; i < 10; i++ {
		records.attendance[id] = append(records.attendance[id], models.AttendanceRecord{
			ID: fmt.Sprintf("%s-att-%d", id, i), StudentID: id, Date: day(i, 9), Present: i < present, Subject: ptr("Math"),
		})
	}
	for i := 0; i < total; i++ {
		records.activities[id] = append(records.activities[id], models.ActivityRecord{
			ID: fmt.Sprintf("%s-act-%d", id, i), StudentID: id, Subject: ptr("Math"),
			StartTime: day(i, 10), Duration: ptr(30), Completed: i < completed, Score: ptr(score),
		})
	}
	records.assessments[id] = append(records.assessments[id], models.AssessmentRecord{
		ID: id + "-as-1", StudentID: id, Subject: ptr("Math"), Score: assessmentPct / 5, MaxScore: 20, Date: day(1, 11),
	})
}

func newTestAnalytics(students *fakeStudents, records *fakeRecords, max int) *AnalyticsService {
	svc := NewAnalyticsService(students, records, risk.NewProvider(risk.ProviderConfig{}), nil, nil, AnalyticsServiceConfig{CohortMaxStudents: max})
	svc.now = func() time.Time { return refNow }
	return svc
}
