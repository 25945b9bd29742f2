// Package analytics turns a student's raw attendance, activity and assessment
// records into statistics, classifier features, recommendations and cohort
// rollups. Every function here is pure: callers fetch the records and pass a
// reference time, nothing in this package performs I/O.
package analytics

import (
	"math"
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// RecentWindow is the trailing window used for "this week" statistics.
const RecentWindow = 7 * 24 * time.Hour

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Records bundles the raw record streams of a single student.
type Records struct {
	Attendance  []models.AttendanceRecord
	Activities  []models.ActivityRecord
	Assessments []models.AssessmentRecord
}

// Aggregates holds the five independent sub-aggregations for a student.
type Aggregates struct {
	Attendance        models.AttendanceStats
	LearningProgress  models.LearningProgress
	Assessments       models.AssessmentStats
	StudyPatterns     models.StudyPatterns
	ProgressBySubject []models.SubjectProgress
}

// Aggregate runs every sub-aggregation over the records.
func Aggregate(records Records, now time.Time) Aggregates {
	return Aggregates{
		Attendance:        AttendanceStats(records.Attendance, now),
		LearningProgress:  LearningProgress(records.Activities, now),
		Assessments:       AssessmentStats(records.Assessments),
		StudyPatterns:     StudyPatterns(records.Activities),
		ProgressBySubject: ProgressBySubject(records.Activities),
	}
}

// Signals derives classifier signals from the features and aggregates.
func (a Aggregates) Signals(features models.FeatureVector) models.RiskSignals {
	assessmentAvg := a.Assessments.AverageScore
	assessmentCount := a.Assessments.TotalAssessments
	weekly := a.LearningProgress.WeeklyActivities
	return models.RiskSignals{
		Features:          features,
		AssessmentAverage: &assessmentAvg,
		AssessmentCount:   &assessmentCount,
		WeeklyActivities:  &weekly,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns part/total*100, or 0 when total is zero.
func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func withinWindow(t *time.Time, now time.Time) bool {
	return t != nil && !t.Before(now.Add(-RecentWindow))
}

func parseDay(raw string) (time.Time, error) {
	return time.Parse(dayLayout, raw)
}
