package risk

import (
	"fmt"
	"math"
	"strconv"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Factors explains the signals in a fixed order, independent of which
// classifier made the decision. Nil optional signals produce no factor.
func Factors(signals models.RiskSignals) []string {
	f := signals.Features
	factors := make([]string, 0, 6)

	if f.AttendanceRate < 75 {
		factors = append(factors, fmt.Sprintf("Attendance rate is %s%% (below 75%%)", formatRate(f.AttendanceRate)))
	}
	if f.ActivityCompletionRate < 50 {
		factors = append(factors, fmt.Sprintf("Activity completion rate is %s%% (below 50%%)", formatRate(f.ActivityCompletionRate)))
	}
	if f.AvgScore < 60 {
		factors = append(factors, fmt.Sprintf("Average activity score is %s%% (below 60%%)", formatRate(f.AvgScore)))
	}
	if signals.WeeklyActivities != nil && *signals.WeeklyActivities < 3 {
		factors = append(factors, fmt.Sprintf("Only %d activities this week (below 3)", *signals.WeeklyActivities))
	}
	if signals.AssessmentAverage != nil && *signals.AssessmentAverage < 60 {
		factors = append(factors, fmt.Sprintf("Average assessment score is %s%% (below 60%%)", formatRate(*signals.AssessmentAverage)))
	}
	if signals.AssessmentCount != nil && *signals.AssessmentCount == 0 {
		factors = append(factors, "No assessment records found")
	}
	return factors
}

func formatRate(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
