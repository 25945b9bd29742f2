// Package risk classifies students into low, medium or high risk. A trained
// model artifact is preferred when one can be loaded; the rule-based scorer
// is always available and takes over silently whenever the model cannot
// produce an answer.
package risk

import (
	"errors"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

var (
	// ErrClassifierUnavailable is returned when no trained model is loaded.
	ErrClassifierUnavailable = errors.New("risk classifier unavailable")
	// ErrInvalidFeature marks feature values or names the model cannot use.
	ErrInvalidFeature = errors.New("invalid feature")
	// ErrInvalidArtifact marks a malformed model artifact.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Classifier maps risk signals to an assessment.
type Classifier interface {
	Name() string
	Classify(signals models.RiskSignals) (models.RiskAssessment, error)
}

func argmax(probs map[models.RiskLevel]float64) (models.RiskLevel, float64) {
	best := models.RiskLow
	bestProb := -1.0
	// iterate in severity order so ties resolve deterministically toward the lower level
	for _, level := range models.RiskLevels {
		if p := probs[level]; p > bestProb {
			best, bestProb = level, p
		}
	}
	return best, bestProb
}
