package risk

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Model status values reported by Provider.Status.
const (
	StatusLoaded   = "loaded"
	StatusFallback = "fallback"
)

// Recorder receives classification outcomes for metrics.
type Recorder interface {
	ObserveRiskClassification(source string, fallback bool)
}

// ProviderConfig configures artifact discovery.
type ProviderConfig struct {
	ModelPath   string
	SearchPaths []string
	Logger      *zap.Logger
	Recorder    Recorder
}

// Provider loads the trained model lazily and exactly once, then classifies
// with it, falling back to the rule-based classifier whenever the model is
// missing or fails. Provider is safe for concurrent use.
type Provider struct {
	candidates []string
	logger     *zap.Logger
	recorder   Recorder
	rules      RuleBased

	once    sync.Once
	model   *TrainedModel
	path    string
	loadErr error
}

// NewProvider builds a provider. No file is touched until first use.
func NewProvider(cfg ProviderConfig) *Provider {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	candidates := make([]string, 0, len(cfg.SearchPaths)+1)
	if cfg.ModelPath != "" {
		candidates = append(candidates, cfg.ModelPath)
	}
	for _, p := range cfg.SearchPaths {
		if p != "" && p != cfg.ModelPath {
			candidates = append(candidates, p)
		}
	}
	return &Provider{candidates: candidates, logger: logger, recorder: cfg.Recorder}
}

func (p *Provider) load() {
	p.once.Do(func() {
		if len(p.candidates) == 0 {
			p.loadErr = ErrClassifierUnavailable
			p.logger.Info("no risk model path configured, using rule-based classifier")
			return
		}
		var lastErr error = ErrClassifierUnavailable
		for _, candidate := range p.candidates {
			path := filepath.Clean(candidate)
			model, err := LoadModel(path)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					p.logger.Warn("risk model artifact rejected", zap.String("path", path), zap.Error(err))
					lastErr = err
				}
				continue
			}
			p.model = model
			p.path = path
			p.logger.Info("risk model loaded",
				zap.String("path", path),
				zap.String("model_type", model.ModelType()),
			)
			return
		}
		p.loadErr = lastErr
		p.logger.Info("risk model unavailable, using rule-based classifier", zap.Error(lastErr))
	})
}

// Classify never fails: model errors degrade to the rule-based result.
// Contributing factors are attached regardless of the deciding classifier.
func (p *Provider) Classify(signals models.RiskSignals) models.RiskAssessment {
	p.load()

	var (
		result   models.RiskAssessment
		err      error
		fallback bool
	)
	if p.model != nil {
		result, err = p.model.Classify(signals)
		if err != nil {
			p.logger.Warn("risk model prediction failed, falling back to rules", zap.Error(err))
			fallback = true
		}
	}
	if p.model == nil || err != nil {
		result, _ = p.rules.Classify(signals)
	}
	if p.recorder != nil {
		p.recorder.ObserveRiskClassification(string(result.Source), fallback)
	}
	result.ContributingFactors = Factors(signals)
	return result
}

// Status reports the artifact state, loading it if needed.
func (p *Provider) Status() models.ModelStatus {
	p.load()
	if p.model == nil {
		msg := "Trained model not available; using rule-based classification"
		if p.loadErr != nil && !errors.Is(p.loadErr, ErrClassifierUnavailable) {
			msg = "Trained model rejected; using rule-based classification"
		}
		return models.ModelStatus{Status: StatusFallback, Loaded: false, Message: msg}
	}
	return models.ModelStatus{
		Status:    StatusLoaded,
		Loaded:    true,
		ModelType: p.model.ModelType(),
		Path:      p.path,
		Features:  p.model.Features(),
		Classes:   p.model.Classes(),
		Message:   "Trained model loaded and ready for predictions",
	}
}
