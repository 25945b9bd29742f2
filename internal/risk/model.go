package risk

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Supported artifact model types.
const (
	ModelTypeLogistic = "logistic"
	ModelTypeForest   = "forest"
)

// Scaler standardizes inputs as (x - mean) / scale. A zero scale is treated as 1.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// TreeNode is one node of a decision tree. Leaves have Left == -1 and carry
// per-class weights in Value, ordered like Artifact.Classes.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a flat decision tree rooted at node 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Artifact is the on-disk JSON form of a trained classifier.
type Artifact struct {
	ModelType    string      `json:"model_type"`
	Features     []string    `json:"features"`
	Classes      []string    `json:"classes"`
	Scaler       *Scaler     `json:"scaler,omitempty"`
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`
	Trees        []Tree      `json:"trees,omitempty"`
}

// TrainedModel evaluates a validated artifact.
type TrainedModel struct {
	artifact Artifact
	classes  []models.RiskLevel
}

// LoadModel reads and validates an artifact file.
func LoadModel(path string) (*TrainedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return NewTrainedModel(artifact)
}

// NewTrainedModel validates the artifact shape against the known features and levels.
func NewTrainedModel(artifact Artifact) (*TrainedModel, error) {
	if len(artifact.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrInvalidArtifact)
	}
	seen := make(map[string]struct{}, len(artifact.Features))
	var probe models.FeatureVector
	for _, name := range artifact.Features {
		if _, ok := probe.Get(name); !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrInvalidFeature, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, name)
		}
		seen[name] = struct{}{}
	}

	if len(artifact.Classes) == 0 {
		return nil, fmt.Errorf("%w: no classes", ErrInvalidArtifact)
	}
	classes := make([]models.RiskLevel, 0, len(artifact.Classes))
	seenClass := make(map[models.RiskLevel]struct{}, len(artifact.Classes))
	for _, c := range artifact.Classes {
		level := models.RiskLevel(c)
		if !level.Valid() {
			return nil, fmt.Errorf("%w: unknown class %q", ErrInvalidArtifact, c)
		}
		if _, dup := seenClass[level]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrInvalidArtifact, c)
		}
		seenClass[level] = struct{}{}
		classes = append(classes, level)
	}

	nf, nc := len(artifact.Features), len(classes)
	if s := artifact.Scaler; s != nil {
		if len(s.Mean) != nf || len(s.Scale) != nf {
			return nil, fmt.Errorf("%w: scaler expects %d features", ErrInvalidArtifact, nf)
		}
	}

	switch artifact.ModelType {
	case ModelTypeLogistic:
		if len(artifact.Coefficients) != nc || len(artifact.Intercepts) != nc {
			return nil, fmt.Errorf("%w: logistic model needs %d coefficient rows and intercepts", ErrInvalidArtifact, nc)
		}
		for _, row := range artifact.Coefficients {
			if len(row) != nf {
				return nil, fmt.Errorf("%w: coefficient row length must be %d", ErrInvalidArtifact, nf)
			}
		}
	case ModelTypeForest:
		if len(artifact.Trees) == 0 {
			return nil, fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
		}
		for i, tree := range artifact.Trees {
			if err := validateTree(tree, nf, nc); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrInvalidArtifact, artifact.ModelType)
	}

	return &TrainedModel{artifact: artifact, classes: classes}, nil
}

func validateTree(tree Tree, nf, nc int) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for j, node := range tree.Nodes {
		if node.Left == -1 {
			if len(node.Value) != nc {
				return fmt.Errorf("leaf %d has %d values, want %d", j, len(node.Value), nc)
			}
			continue
		}
		if node.Feature < 0 || node.Feature >= nf {
			return fmt.Errorf("node %d feature index %d out of range", j, node.Feature)
		}
		if node.Left <= j || node.Left >= len(tree.Nodes) || node.Right <= j || node.Right >= len(tree.Nodes) {
			return fmt.Errorf("node %d has invalid children", j)
		}
	}
	return nil
}

// Name identifies the classifier.
func (m *TrainedModel) Name() string { return "trained_" + m.artifact.ModelType }

// ModelType returns the artifact model type.
func (m *TrainedModel) ModelType() string { return m.artifact.ModelType }

// Features returns the artifact feature order.
func (m *TrainedModel) Features() []string {
	return append([]string(nil), m.artifact.Features...)
}

// Classes returns the artifact class labels.
func (m *TrainedModel) Classes() []string {
	return append([]string(nil), m.artifact.Classes...)
}

// Classify evaluates the model. Supplemental signals are ignored; only the
// feature vector feeds the model.
func (m *TrainedModel) Classify(signals models.RiskSignals) (models.RiskAssessment, error) {
	x, err := m.inputs(signals.Features)
	if err != nil {
		return models.RiskAssessment{}, err
	}

	var raw []float64
	switch m.artifact.ModelType {
	case ModelTypeLogistic:
		raw = m.logistic(x)
	default:
		raw = m.forest(x)
	}

	probs := make(map[models.RiskLevel]float64, len(models.RiskLevels))
	for _, level := range models.RiskLevels {
		probs[level] = 0
	}
	total := 0.0
	for i, level := range m.classes {
		p := raw[i]
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return models.RiskAssessment{}, fmt.Errorf("%w: model produced invalid probability", ErrInvalidFeature)
		}
		probs[level] = p
		total += p
	}
	if total <= 0 {
		return models.RiskAssessment{}, fmt.Errorf("%w: model produced no probability mass", ErrInvalidFeature)
	}
	for level := range probs {
		probs[level] /= total
	}

	level, confidence := argmax(probs)
	return models.RiskAssessment{
		RiskLevel:     level,
		Probabilities: probs,
		Confidence:    confidence,
		Source:        models.RiskSourceModel,
	}, nil
}

func (m *TrainedModel) inputs(fv models.FeatureVector) ([]float64, error) {
	x := make([]float64, len(m.artifact.Features))
	for i, name := range m.artifact.Features {
		v, _ := fv.Get(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s is not finite", ErrInvalidFeature, name)
		}
		if s := m.artifact.Scaler; s != nil {
			scale := s.Scale[i]
			if scale == 0 {
				scale = 1
			}
			v = (v - s.Mean[i]) / scale
		}
		x[i] = v
	}
	return x, nil
}

func (m *TrainedModel) logistic(x []float64) []float64 {
	z := make([]float64, len(m.classes))
	maxZ := math.Inf(-1)
	for k, row := range m.artifact.Coefficients {
		sum := m.artifact.Intercepts[k]
		for i, w := range row {
			sum += w * x[i]
		}
		z[k] = sum
		if sum > maxZ {
			maxZ = sum
		}
	}
	denom := 0.0
	for k := range z {
		z[k] = math.Exp(z[k] - maxZ)
		denom += z[k]
	}
	for k := range z {
		z[k] /= denom
	}
	return z
}

func (m *TrainedModel) forest(x []float64) []float64 {
	acc := make([]float64, len(m.classes))
	for _, tree := range m.artifact.Trees {
		leaf := walk(tree, x)
		sum := 0.0
		for _, v := range leaf {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for k, v := range leaf {
			acc[k] += v / sum
		}
	}
	n := float64(len(m.artifact.Trees))
	for k := range acc {
		acc[k] /= n
	}
	return acc
}

// walk descends to a leaf. Children always have higher indices than their
// parent, so the loop terminates.
func walk(tree Tree, x []float64) []float64 {
	idx := 0
	for {
		node := tree.Nodes[idx]
		if node.Left == -1 {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
