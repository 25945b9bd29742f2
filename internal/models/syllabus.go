package models

// SyllabusEntry is a catalog row describing a chapter/topic of a subject.
type SyllabusEntry struct {
	ID               string  `db:"id" json:"id"`
	Subject          string  `db:"subject" json:"subject"`
	Grade            string  `db:"grade" json:"grade"`
	Chapter          string  `db:"chapter" json:"chapter"`
	Topic            *string `db:"topic" json:"topic,omitempty"`
	DifficultyLevel  *string `db:"difficulty_level" json:"difficulty_level,omitempty"`
	EstimatedTime    *int    `db:"estimated_time" json:"estimated_time,omitempty"`
	LearningOutcomes *string `db:"learning_outcomes" json:"learning_outcomes,omitempty"`
}

// Syllabus difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SyllabusFilter scopes catalog listings.
type SyllabusFilter struct {
	Grade   string
	Subject string
}

// SyllabusPlan splits a student's grade catalog by completion state.
type SyllabusPlan struct {
	StudentID   string          `json:"student_id"`
	Grade       string          `json:"grade"`
	Recommended []SyllabusEntry `json:"recommended"`
	InProgress  []SyllabusEntry `json:"in_progress"`
	Completed   []SyllabusEntry `json:"completed"`
}
