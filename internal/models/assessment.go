package models

import "time"

// AssessmentRecord is a graded assessment attempt.
type AssessmentRecord struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	Subject   *string    `db:"subject" json:"subject,omitempty"`
	Chapter   *string    `db:"chapter" json:"chapter,omitempty"`
	Score     float64    `db:"score" json:"score"`
	MaxScore  float64    `db:"max_score" json:"max_score"`
	Date      *time.Time `db:"date" json:"date,omitempty"`
	TimeTaken *int       `db:"time_taken" json:"time_taken,omitempty"`
}

// Percentage returns score/max_score*100. ok is false when max_score is not positive.
func (a AssessmentRecord) Percentage() (float64, bool) {
	if a.MaxScore <= 0 {
		return 0, false
	}
	return a.Score / a.MaxScore * 100, true
}

// SubjectName returns the subject or DefaultSubject when unset.
func (a AssessmentRecord) SubjectName() string {
	if a.Subject == nil || *a.Subject == "" {
		return DefaultSubject
	}
	return *a.Subject
}

// AssessmentTrendPoint is one dated assessment percentage.
type AssessmentTrendPoint struct {
	Date    string  `json:"date"`
	Score   float64 `json:"score"`
	Subject string  `json:"subject"`
}

// AssessmentSubjectStats rolls up assessments for one subject.
type AssessmentSubjectStats struct {
	Subject          string  `json:"subject"`
	AverageScore     float64 `json:"average_score"`
	TotalAssessments int     `json:"total_assessments"`
	BestScore        float64 `json:"best_score"`
	WorstScore       float64 `json:"worst_score"`
}

// AssessmentStats summarises a student's assessments.
type AssessmentStats struct {
	TotalAssessments int                      `json:"total_assessments"`
	AverageScore     float64                  `json:"average_score"`
	BestScore        float64                  `json:"best_score"`
	WorstScore       float64                  `json:"worst_score"`
	ImprovementTrend []AssessmentTrendPoint   `json:"improvement_trend"`
	BySubject        []AssessmentSubjectStats `json:"by_subject"`
}
