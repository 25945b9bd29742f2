package risk

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

type recorderStub struct {
	mu        sync.Mutex
	sources   map[string]int
	fallbacks int
}

func (r *recorderStub) ObserveRiskClassification(source string, fallback bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sources == nil {
		r.sources = make(map[string]int)
	}
	r.sources[source]++
	if fallback {
		r.fallbacks++
	}
}

var weakStudent = models.RiskSignals{
	Features:          models.FeatureVector{AttendanceRate: 40, AvgScore: 45, StudyConsistency: 1, ActivityCompletionRate: 30},
	AssessmentAverage: floatPtr(40),
	AssessmentCount:   intPtr(3),
	WeeklyActivities:  intPtr(1),
}

func TestProviderFallsBackWithoutArtifact(t *testing.T) {
	recorder := &recorderStub{}
	provider := NewProvider(ProviderConfig{
		ModelPath: filepath.Join(t.TempDir(), "missing.json"),
		Logger:    zap.NewNop(),
		Recorder:  recorder,
	})

	result := provider.Classify(weakStudent)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.Equal(t, models.RiskSourceRules, result.Source)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Contains(t, result.ContributingFactors, "Attendance rate is 40% (below 75%)")

	status := provider.Status()
	assert.False(t, status.Loaded)
	assert.Equal(t, StatusFallback, status.Status)
	assert.Equal(t, 1, recorder.sources["rules"])
	assert.Zero(t, recorder.fallbacks)
}

func TestProviderUsesSearchPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeArtifact(t, dir, "risk_model.json", forestArtifact())

	provider := NewProvider(ProviderConfig{
		ModelPath:   filepath.Join(dir, "absent.json"),
		SearchPaths: []string{path},
	})

	status := provider.Status()
	require.True(t, status.Loaded)
	assert.Equal(t, StatusLoaded, status.Status)
	assert.Equal(t, path, status.Path)
	assert.Equal(t, ModelTypeForest, status.ModelType)
	assert.Equal(t, []string{"low", "medium", "high"}, status.Classes)

	result := provider.Classify(weakStudent)
	assert.Equal(t, models.RiskSourceModel, result.Source)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.NotEmpty(t, result.ContributingFactors)
}

func TestProviderRejectsInvalidArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := forestArtifact()
	artifact.Features = []string{"attendance_rate", "screen_time"}
	path := writeArtifact(t, dir, "model.json", artifact)

	provider := NewProvider(ProviderConfig{ModelPath: path})
	status := provider.Status()
	assert.False(t, status.Loaded)
	assert.Contains(t, status.Message, "rejected")
	assert.Equal(t, models.RiskSourceRules, provider.Classify(weakStudent).Source)
}

func TestProviderFallsBackOnPredictionError(t *testing.T) {
	dir := t.TempDir()
	path := writeArtifact(t, dir, "model.json", logisticArtifact())
	recorder := &recorderStub{}
	provider := NewProvider(ProviderConfig{ModelPath: path, Recorder: recorder})

	signals := weakStudent
	signals.Features.AttendanceRate = math.Inf(1)
	result := provider.Classify(signals)
	assert.Equal(t, models.RiskSourceRules, result.Source)
	assert.Equal(t, 1, recorder.fallbacks)
}

func TestProviderConcurrentFirstUse(t *testing.T) {
	dir := t.TempDir()
	path := writeArtifact(t, dir, "model.json", forestArtifact())
	provider := NewProvider(ProviderConfig{ModelPath: path})

	var wg sync.WaitGroup
	results := make([]models.RiskAssessment, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = provider.Classify(weakStudent)
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, models.RiskSourceModel, result.Source)
		assert.Equal(t, results[0].Probabilities, result.Probabilities)
	}
}
