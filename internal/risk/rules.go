package risk

import (
	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Score thresholds for rule-based levels.
const (
	HighRiskScore   = 6
	MediumRiskScore = 3
)

var ruleProbabilities = map[models.RiskLevel]map[models.RiskLevel]float64{
	models.RiskHigh:   {models.RiskHigh: 0.7, models.RiskMedium: 0.2, models.RiskLow: 0.1},
	models.RiskMedium: {models.RiskHigh: 0.2, models.RiskMedium: 0.6, models.RiskLow: 0.2},
	models.RiskLow:    {models.RiskHigh: 0.1, models.RiskMedium: 0.2, models.RiskLow: 0.7},
}

// Score accumulates the integer rule score. A nil assessment average skips
// the assessment threshold.
func Score(signals models.RiskSignals) int {
	f := signals.Features
	score := 0

	switch {
	case f.AttendanceRate < 50:
		score += 3
	case f.AttendanceRate < 70:
		score += 2
	case f.AttendanceRate < 80:
		score++
	}

	switch {
	case f.ActivityCompletionRate < 40:
		score += 3
	case f.ActivityCompletionRate < 60:
		score += 2
	}

	score += lowScorePoints(f.AvgScore)
	if signals.AssessmentAverage != nil {
		score += lowScorePoints(*signals.AssessmentAverage)
	}
	return score
}

func lowScorePoints(v float64) int {
	switch {
	case v < 50:
		return 3
	case v < 65:
		return 2
	default:
		return 0
	}
}

// LevelForScore buckets a rule score.
func LevelForScore(score int) models.RiskLevel {
	switch {
	case score >= HighRiskScore:
		return models.RiskHigh
	case score >= MediumRiskScore:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// RuleBased is the dependency-free fallback classifier.
type RuleBased struct{}

// Name identifies the classifier.
func (RuleBased) Name() string { return "rule_based" }

// Classify never fails. Probabilities are a fixed presentation triple per level.
func (RuleBased) Classify(signals models.RiskSignals) (models.RiskAssessment, error) {
	level := LevelForScore(Score(signals))
	probs := make(map[models.RiskLevel]float64, len(models.RiskLevels))
	for k, v := range ruleProbabilities[level] {
		probs[k] = v
	}
	return models.RiskAssessment{
		RiskLevel:     level,
		Probabilities: probs,
		Confidence:    probs[level],
		Source:        models.RiskSourceRules,
	}, nil
}
