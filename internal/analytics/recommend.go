package analytics

import (
	"github.com/noah-isme/offline-learning-api/internal/models"
)

// MaxRecommendations caps the synthesized recommendation list.
const MaxRecommendations = 8

// Metrics are the headline numbers recommendations and summaries read.
type Metrics struct {
	AttendanceRate    float64
	CompletionRate    float64
	AverageScore      float64
	AssessmentAverage float64
	WeeklyActivities  int
}

// Metrics extracts the headline numbers from the aggregates.
func (a Aggregates) Metrics() Metrics {
	return Metrics{
		AttendanceRate:    a.Attendance.AttendanceRate,
		CompletionRate:    a.LearningProgress.CompletionRate,
		AverageScore:      a.LearningProgress.AverageScore,
		AssessmentAverage: a.Assessments.AverageScore,
		WeeklyActivities:  a.LearningProgress.WeeklyActivities,
	}
}

var riskLevelAdvice = map[models.RiskLevel][]string{
	models.RiskHigh: {
		"Schedule one-on-one sessions with teacher for extra support",
		"Start with easier topics and gradually increase difficulty",
		"Set smaller, achievable daily learning goals",
	},
	models.RiskMedium: {
		"Join study groups for collaborative learning",
		"Review foundational concepts before moving to advanced topics",
		"Use visual aids and examples for better understanding",
	},
	models.RiskLow: {
		"Continue current study patterns",
		"Help other students to reinforce your own understanding",
		"Explore advanced topics and challenges",
	},
}

var generalAdvice = []string{
	"Take regular breaks during study sessions (5 minutes every 25 minutes)",
	"Review previous topics weekly to reinforce learning",
	"Use different learning methods (visual, auditory, practical)",
}

// Recommendations evaluates the rule list in its fixed order and keeps the
// first MaxRecommendations entries. Order decides what survives truncation.
func Recommendations(m Metrics, level models.RiskLevel) []string {
	recs := make([]string, 0, 11)
	if m.AttendanceRate < 80 {
		recs = append(recs, "Try to maintain at least 80% attendance for better learning outcomes")
	}
	if m.CompletionRate < 60 {
		recs = append(recs, "Focus on completing more learning activities to improve understanding")
	}
	if m.AverageScore < 70 {
		recs = append(recs, "Review completed activities and retake quizzes to improve scores")
	}
	if m.WeeklyActivities < 5 {
		recs = append(recs, "Aim for at least 5 learning activities per week for consistent progress")
	}
	if m.AssessmentAverage < 70 {
		recs = append(recs, "Practice more assessment questions to improve test performance")
	}

	advice, ok := riskLevelAdvice[level]
	if !ok {
		advice = riskLevelAdvice[models.RiskLow]
	}
	recs = append(recs, advice...)
	recs = append(recs, generalAdvice...)

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// FeatureRecommendations advises on a bare feature vector, used for what-if
// classifications that have no record history behind them.
func FeatureRecommendations(f models.FeatureVector, level models.RiskLevel) []string {
	recs := make([]string, 0, 6)
	switch level {
	case models.RiskHigh:
		recs = append(recs, "HIGH RISK: Immediate intervention needed")
		if f.AttendanceRate < 60 {
			recs = append(recs, "Improve attendance to at least 75%")
		}
		if f.AvgScore < 50 {
			recs = append(recs, "Focus on foundational concepts")
		}
		recs = append(recs, "Schedule regular teacher meetings", "Allocate 2+ hours daily for focused study")
	case models.RiskMedium:
		recs = append(recs, "MEDIUM RISK: Needs attention")
		if f.AttendanceRate < 75 {
			recs = append(recs, "Aim for 80%+ attendance")
		}
		if f.AvgScore < 65 {
			recs = append(recs, "Practice more exercises daily")
		}
		recs = append(recs, "Review completed topics weekly", "Set specific learning goals")
	default:
		recs = append(recs,
			"LOW RISK: Good performance",
			"Continue current study pattern",
			"Help other students learn",
			"Explore advanced topics",
		)
	}

	if f.StudyConsistency < 2 {
		recs = append(recs, "Increase study sessions to 3+ per week")
	}
	if f.ActivityCompletionRate < 80 {
		recs = append(recs, "Complete all assigned activities")
	}
	return recs
}
