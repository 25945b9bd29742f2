package analytics

import (
	"strings"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Performance labels for the composite score.
const (
	PerformanceExcellent        = "Excellent"
	PerformanceGood             = "Good"
	PerformanceAverage          = "Average"
	PerformanceNeedsImprovement = "Needs Improvement"
)

// PerformanceScore weights the headline metrics into one composite.
func PerformanceScore(m Metrics) float64 {
	return m.AttendanceRate*0.2 + m.CompletionRate*0.3 + m.AverageScore*0.25 + m.AssessmentAverage*0.25
}

// PerformanceLabel buckets a composite score.
func PerformanceLabel(score float64) string {
	switch {
	case score >= 80:
		return PerformanceExcellent
	case score >= 65:
		return PerformanceGood
	case score >= 50:
		return PerformanceAverage
	default:
		return PerformanceNeedsImprovement
	}
}

// Summary renders the one-paragraph performance summary.
func Summary(m Metrics, level models.RiskLevel) string {
	var b strings.Builder
	b.WriteString("Student shows ")
	b.WriteString(strings.ToLower(PerformanceLabel(PerformanceScore(m))))
	b.WriteString(" performance. ")

	switch {
	case m.AttendanceRate >= 85:
		b.WriteString("Excellent attendance. ")
	case m.AttendanceRate >= 70:
		b.WriteString("Good attendance. ")
	default:
		b.WriteString("Needs to improve attendance. ")
	}

	switch {
	case m.CompletionRate >= 75:
		b.WriteString("Completes most learning activities. ")
	case m.CompletionRate >= 50:
		b.WriteString("Moderate activity completion. ")
	default:
		b.WriteString("Low activity completion rate. ")
	}

	switch {
	case m.AssessmentAverage >= 75:
		b.WriteString("Strong assessment performance. ")
	case m.AssessmentAverage >= 60:
		b.WriteString("Average assessment scores. ")
	default:
		b.WriteString("Assessment scores need improvement. ")
	}

	b.WriteString("Overall risk level: ")
	b.WriteString(strings.ToUpper(string(level)))
	b.WriteString(".")
	return b.String()
}
