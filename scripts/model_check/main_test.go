package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/internal/risk"
)

type fixedClassifier struct {
	level models.RiskLevel
	err   error
}

func (f fixedClassifier) Classify(models.RiskSignals) (models.RiskAssessment, error) {
	return models.RiskAssessment{RiskLevel: f.level, Confidence: 0.9}, f.err
}

func TestCompareSampleAgainstRules(t *testing.T) {
	s := sample{
		Name:     "disengaged",
		Features: models.FeatureVector{AttendanceRate: 35, AvgScore: 42, StudyConsistency: 4.2, ActivityCompletionRate: 20},
		Expected: models.RiskHigh,
	}

	comp := compareSample(fixedClassifier{level: models.RiskHigh}, risk.RuleBased{}, s)
	require.NoError(t, comp.Error)
	assert.True(t, comp.ExpectMatch)
	assert.True(t, comp.Agree)

	comp = compareSample(fixedClassifier{level: models.RiskLow}, risk.RuleBased{}, s)
	assert.False(t, comp.ExpectMatch)
	assert.False(t, comp.Agree)
}

func TestCompareSampleModelError(t *testing.T) {
	comp := compareSample(fixedClassifier{err: errors.New("feature count mismatch")}, risk.RuleBased{}, sample{Name: "broken"})
	assert.Error(t, comp.Error)
}

func TestLoadCases(t *testing.T) {
	cases, err := loadCases("cases.json")
	require.NoError(t, err)
	assert.Len(t, cases, 3)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"cases": []}`), 0o600))
	_, err = loadCases(empty)
	assert.Error(t, err)
}
