package models

import "time"

// StudentAnalytics is the composite analytics record for one student.
type StudentAnalytics struct {
	StudentID         string            `json:"student_id"`
	StudentName       string            `json:"student_name"`
	Grade             string            `json:"grade"`
	Village           string            `json:"village"`
	AnalyticsDate     time.Time         `json:"analytics_date"`
	Attendance        AttendanceStats   `json:"attendance"`
	LearningProgress  LearningProgress  `json:"learning_progress"`
	Assessments       AssessmentStats   `json:"assessment_scores"`
	StudyPatterns     StudyPatterns     `json:"study_patterns"`
	ProgressBySubject []SubjectProgress `json:"progress_by_subject"`
	Features          FeatureVector     `json:"features"`
	Risk              RiskAssessment    `json:"risk"`
	Recommendations   []string          `json:"recommendations"`
	RecentActivities  []RecentActivity  `json:"recent_activities"`
	Summary           string            `json:"summary"`
}

// SubjectProgressFor returns the per-subject progress entry when present.
func (a StudentAnalytics) SubjectProgressFor(subject string) (SubjectProgress, bool) {
	for _, p := range a.ProgressBySubject {
		if p.Subject == subject {
			return p, true
		}
	}
	return SubjectProgress{}, false
}

// CohortMember is a trimmed per-student row used in cohort rollups.
type CohortMember struct {
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name"`
	Grade           string    `json:"grade"`
	AttendanceRate  float64   `json:"attendance_rate"`
	CompletionRate  float64   `json:"completion_rate"`
	AverageScore    float64   `json:"average_score"`
	AssessmentScore float64   `json:"assessment_score"`
	CompositeScore  float64   `json:"composite_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

// CohortAnalytics aggregates analytics across a set of students.
type CohortAnalytics struct {
	Grade                    string            `json:"grade"`
	TotalStudents            int               `json:"total_students"`
	AverageAttendanceRate    float64           `json:"average_attendance_rate"`
	AverageCompletionRate    float64           `json:"average_completion_rate"`
	AverageScore             float64           `json:"average_score"`
	AverageAssessmentScore   float64           `json:"average_assessment_score"`
	RiskDistribution         map[RiskLevel]int `json:"risk_distribution"`
	TopPerformers            []CohortMember    `json:"top_performers"`
	StudentsNeedingAttention []CohortMember    `json:"students_needing_attention"`
	Empty                    bool              `json:"empty"`
	AnalyticsDate            time.Time         `json:"analytics_date"`
}

// SubjectStudentPerformance is one student's progress in a subject.
type SubjectStudentPerformance struct {
	StudentID           string  `json:"student_id"`
	StudentName         string  `json:"student_name"`
	Grade               string  `json:"grade"`
	CompletionRate      float64 `json:"completion_rate"`
	AverageScore        float64 `json:"average_score"`
	TotalActivities     int     `json:"total_activities"`
	CompletedActivities int     `json:"completed_activities"`
}

// SubjectAnalytics aggregates one subject's progress across students.
type SubjectAnalytics struct {
	Subject            string                      `json:"subject"`
	Grade              string                      `json:"grade"`
	TotalStudents      int                         `json:"total_students"`
	AverageScore       float64                     `json:"average_score"`
	StudentPerformance []SubjectStudentPerformance `json:"student_performance"`
	AnalyticsDate      time.Time                   `json:"analytics_date"`
}

// AllGradesLabel names cohorts without a grade filter.
const AllGradesLabel = "All Grades"
