package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestScoreThresholds(t *testing.T) {
	cases := []struct {
		name    string
		signals models.RiskSignals
		score   int
		level   models.RiskLevel
	}{
		{
			name: "strong student",
			signals: models.RiskSignals{
				Features:          models.FeatureVector{AttendanceRate: 90, AvgScore: 85, ActivityCompletionRate: 88},
				AssessmentAverage: floatPtr(91),
			},
			score: 0,
			level: models.RiskLow,
		},
		{
			name: "struggling student",
			signals: models.RiskSignals{
				Features:          models.FeatureVector{AttendanceRate: 40, AvgScore: 45, ActivityCompletionRate: 30},
				AssessmentAverage: floatPtr(40),
			},
			score: 12,
			level: models.RiskHigh,
		},
		{
			name: "borderline medium",
			signals: models.RiskSignals{
				Features:          models.FeatureVector{AttendanceRate: 75, AvgScore: 60, ActivityCompletionRate: 70},
				AssessmentAverage: floatPtr(70),
			},
			score: 3,
			level: models.RiskMedium,
		},
		{
			name: "missing assessment signal is skipped",
			signals: models.RiskSignals{
				Features: models.FeatureVector{AttendanceRate: 85, AvgScore: 70, ActivityCompletionRate: 65},
			},
			score: 0,
			level: models.RiskLow,
		},
		{
			name:    "empty record pipeline",
			signals: models.RiskSignals{AssessmentAverage: floatPtr(0)},
			score:   12,
			level:   models.RiskHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.score, Score(tc.signals))
			assert.Equal(t, tc.level, LevelForScore(Score(tc.signals)))
		})
	}
}

func TestLevelForScoreBoundaries(t *testing.T) {
	assert.Equal(t, models.RiskLow, LevelForScore(2))
	assert.Equal(t, models.RiskMedium, LevelForScore(3))
	assert.Equal(t, models.RiskMedium, LevelForScore(5))
	assert.Equal(t, models.RiskHigh, LevelForScore(6))
}

func TestScoreIsMonotonic(t *testing.T) {
	base := models.RiskSignals{
		Features:          models.FeatureVector{AttendanceRate: 72, AvgScore: 62, ActivityCompletionRate: 55},
		AssessmentAverage: floatPtr(58),
	}
	worse := base
	worse.Features.AttendanceRate = 45
	assert.GreaterOrEqual(t, Score(worse), Score(base))

	worse = base
	worse.Features.ActivityCompletionRate = 20
	assert.GreaterOrEqual(t, Score(worse), Score(base))

	worse = base
	worse.AssessmentAverage = floatPtr(10)
	assert.GreaterOrEqual(t, Score(worse), Score(base))
}

func TestRuleBasedProbabilities(t *testing.T) {
	var rules RuleBased
	for _, attendance := range []float64{95, 72, 30} {
		result, err := rules.Classify(models.RiskSignals{
			Features:          models.FeatureVector{AttendanceRate: attendance, AvgScore: attendance, ActivityCompletionRate: attendance},
			AssessmentAverage: floatPtr(attendance),
		})
		require.NoError(t, err)

		sum := 0.0
		for _, p := range result.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Len(t, result.Probabilities, 3)
		assert.Equal(t, result.Probabilities[result.RiskLevel], result.Confidence)
		assert.Equal(t, models.RiskSourceRules, result.Source)
	}
}

func TestFactorsOrderAndFormatting(t *testing.T) {
	signals := models.RiskSignals{
		Features:          models.FeatureVector{AttendanceRate: 40, AvgScore: 45, ActivityCompletionRate: 30},
		AssessmentAverage: floatPtr(40),
		AssessmentCount:   intPtr(0),
		WeeklyActivities:  intPtr(1),
	}
	assert.Equal(t, []string{
		"Attendance rate is 40% (below 75%)",
		"Activity completion rate is 30% (below 50%)",
		"Average activity score is 45% (below 60%)",
		"Only 1 activities this week (below 3)",
		"Average assessment score is 40% (below 60%)",
		"No assessment records found",
	}, Factors(signals))
}

func TestFactorsSkipNilSignals(t *testing.T) {
	signals := models.RiskSignals{
		Features: models.FeatureVector{AttendanceRate: 66.666, AvgScore: 80, ActivityCompletionRate: 90},
	}
	assert.Equal(t, []string{"Attendance rate is 66.67% (below 75%)"}, Factors(signals))
}

func TestFactorsEmptyForHealthyStudent(t *testing.T) {
	signals := models.RiskSignals{
		Features:          models.FeatureVector{AttendanceRate: 90, AvgScore: 85, ActivityCompletionRate: 88},
		AssessmentAverage: floatPtr(91),
		AssessmentCount:   intPtr(4),
		WeeklyActivities:  intPtr(5),
	}
	assert.Empty(t, Factors(signals))
}
