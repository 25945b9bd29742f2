package models

// RiskLevel is the coarse categorical risk outcome.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists every level in ascending severity.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether the level is one of the known levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Severity orders levels for sorting: high=3, medium=2, low=1.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Feature names in canonical classifier order.
const (
	FeatureAttendanceRate         = "attendance_rate"
	FeatureAvgScore               = "avg_score"
	FeatureStudyConsistency       = "study_consistency"
	FeatureActivityCompletionRate = "activity_completion_rate"
)

// FeatureNames is the canonical feature order.
var FeatureNames = []string{
	FeatureAttendanceRate,
	FeatureAvgScore,
	FeatureStudyConsistency,
	FeatureActivityCompletionRate,
}

// FeatureVector is the fixed-order classifier input.
type FeatureVector struct {
	AttendanceRate         float64 `json:"attendance_rate"`
	AvgScore               float64 `json:"avg_score"`
	StudyConsistency       float64 `json:"study_consistency"`
	ActivityCompletionRate float64 `json:"activity_completion_rate"`
}

// Values returns the features in canonical order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.AttendanceRate, f.AvgScore, f.StudyConsistency, f.ActivityCompletionRate}
}

// Get returns a feature by name. ok is false for unknown names.
func (f FeatureVector) Get(name string) (float64, bool) {
	switch name {
	case FeatureAttendanceRate:
		return f.AttendanceRate, true
	case FeatureAvgScore:
		return f.AvgScore, true
	case FeatureStudyConsistency:
		return f.StudyConsistency, true
	case FeatureActivityCompletionRate:
		return f.ActivityCompletionRate, true
	default:
		return 0, false
	}
}

// Map returns the vector keyed by feature name.
func (f FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		FeatureAttendanceRate:         f.AttendanceRate,
		FeatureAvgScore:               f.AvgScore,
		FeatureStudyConsistency:       f.StudyConsistency,
		FeatureActivityCompletionRate: f.ActivityCompletionRate,
	}
}

// RiskSignals carries the feature vector plus optional supplemental signals.
// A nil signal disables the rule or factor that depends on it.
type RiskSignals struct {
	Features          FeatureVector
	AssessmentAverage *float64
	AssessmentCount   *int
	WeeklyActivities  *int
}

// RiskSource identifies which classifier produced an assessment.
type RiskSource string

const (
	RiskSourceModel RiskSource = "model"
	RiskSourceRules RiskSource = "rules"
)

// RiskAssessment is the classifier output for one feature vector.
type RiskAssessment struct {
	RiskLevel           RiskLevel             `json:"risk_level"`
	Probabilities       map[RiskLevel]float64 `json:"probabilities"`
	Confidence          float64               `json:"confidence"`
	Source              RiskSource            `json:"source"`
	ContributingFactors []string              `json:"contributing_factors"`
}

// ModelStatus reports the state of the trained classifier artifact.
type ModelStatus struct {
	Status    string   `json:"status"`
	Loaded    bool     `json:"loaded"`
	ModelType string   `json:"model_type,omitempty"`
	Path      string   `json:"path,omitempty"`
	Features  []string `json:"features,omitempty"`
	Classes   []string `json:"classes,omitempty"`
	Message   string   `json:"message"`
}

// RiskPrediction is the response for a single what-if or per-student prediction.
type RiskPrediction struct {
	StudentID           string                `json:"student_id,omitempty"`
	PredictedRisk       RiskLevel             `json:"predicted_risk"`
	Confidence          float64               `json:"confidence"`
	Probabilities       map[RiskLevel]float64 `json:"probabilities"`
	Source              RiskSource            `json:"source"`
	ContributingFactors []string              `json:"contributing_factors"`
	Recommendations     []string              `json:"recommendations"`
	FeaturesUsed        []string              `json:"features_used"`
	FeatureValues       map[string]float64    `json:"feature_values"`
}

// RiskRosterEntry is one student's row in the all-students prediction list.
type RiskRosterEntry struct {
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name"`
	Grade           string    `json:"grade"`
	PredictedRisk   RiskLevel `json:"predicted_risk"`
	Confidence      float64   `json:"confidence"`
	Recommendations []string  `json:"recommendations"`
	AttendanceRate  float64   `json:"attendance_rate"`
	AvgScore        float64   `json:"avg_score"`
}

// RiskRoster lists predictions for every student, most severe first.
type RiskRoster struct {
	TotalStudents     int               `json:"total_students"`
	PredictedStudents int               `json:"predicted_students"`
	HighRiskCount     int               `json:"high_risk_count"`
	MediumRiskCount   int               `json:"medium_risk_count"`
	LowRiskCount      int               `json:"low_risk_count"`
	Students          []RiskRosterEntry `json:"students"`
}
