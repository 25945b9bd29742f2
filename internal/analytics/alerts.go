package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

const (
	alertAttendanceThreshold  = 70
	alertMinWeeklyActivities  = 3
	alertPerformanceThreshold = 50
	alertRecentAssessments    = 5
)

// Alerts runs the attendance, study activity and performance checks in that order.
func Alerts(records Records, now time.Time) []models.Alert {
	alerts := make([]models.Alert, 0, 3)

	var recent tally
	for _, r := range records.Attendance {
		if withinWindow(r.Date, now) {
			recent.add(r.Present)
		}
	}
	if recent.total > 0 {
		rate := percent(recent.present, recent.total)
		if rate < alertAttendanceThreshold {
			alerts = append(alerts, models.Alert{
				Type:           models.AlertAttendanceLow,
				Message:        fmt.Sprintf("Low attendance rate: %.1f%% in last 7 days", rate),
				Severity:       models.AlertSeverityWarning,
				Recommendation: "Try to attend more regularly",
			})
		}
	}

	sessions := 0
	for _, a := range records.Activities {
		if withinWindow(a.StartTime, now) {
			sessions++
		}
	}
	if sessions < alertMinWeeklyActivities {
		alerts = append(alerts, models.Alert{
			Type:           models.AlertLowStudyActivity,
			Message:        fmt.Sprintf("Low study activity: only %d sessions in last 7 days", sessions),
			Severity:       models.AlertSeverityWarning,
			Recommendation: "Try to study at least 30 minutes daily",
		})
	}

	if avg, ok := recentAssessmentAverage(records.Assessments); ok && avg < alertPerformanceThreshold {
		alerts = append(alerts, models.Alert{
			Type:           models.AlertLowPerformance,
			Message:        fmt.Sprintf("Average score is low: %.1f%%", avg),
			Severity:       models.AlertSeverityWarning,
			Recommendation: "Review difficult topics and practice more",
		})
	}

	return alerts
}

// recentAssessmentAverage averages the newest assessments with a usable max score.
func recentAssessmentAverage(assessments []models.AssessmentRecord) (float64, bool) {
	dated := make([]models.AssessmentRecord, 0, len(assessments))
	for _, a := range assessments {
		if _, ok := a.Percentage(); ok {
			dated = append(dated, a)
		}
	}
	if len(dated) == 0 {
		return 0, false
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return newer(dated[i].Date, dated[j].Date)
	})
	if len(dated) > alertRecentAssessments {
		dated = dated[:alertRecentAssessments]
	}
	scores := make([]float64, 0, len(dated))
	for _, a := range dated {
		pct, _ := a.Percentage()
		scores = append(scores, pct)
	}
	return mean(scores), true
}

// SummarizeAlerts counts alerts by type and severity across students.
func SummarizeAlerts(perStudent [][]models.Alert, now time.Time) models.AlertSummary {
	summary := models.AlertSummary{
		TotalStudents: len(perStudent),
		AlertTypes: map[models.AlertType]int{
			models.AlertAttendanceLow:    0,
			models.AlertLowStudyActivity: 0,
			models.AlertLowPerformance:   0,
		},
		BySeverity: map[models.AlertSeverity]int{
			models.AlertSeverityWarning:  0,
			models.AlertSeverityCritical: 0,
		},
		CheckedAt: now,
	}
	for _, alerts := range perStudent {
		if len(alerts) > 0 {
			summary.StudentsWithAlerts++
		}
		for _, a := range alerts {
			summary.AlertTypes[a.Type]++
			summary.BySeverity[a.Severity]++
		}
	}
	return summary
}

// newer orders dated values before undated ones, newest first.
func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
