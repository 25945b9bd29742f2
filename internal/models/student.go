package models

import "time"

// Student represents a learner enrolled in a village school.
type Student struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Age           *int       `db:"age" json:"age,omitempty"`
	Grade         string     `db:"grade" json:"grade"`
	Village       string     `db:"village" json:"village"`
	School        string     `db:"school" json:"school"`
	Contact       string     `db:"contact" json:"contact"`
	LearningStyle string     `db:"learning_style" json:"learning_style"`
	LastSync      *time.Time `db:"last_sync" json:"last_sync,omitempty"`
}

// StudentFilter scopes student listings used by cohort views.
type StudentFilter struct {
	Grade string
	IDs   []string
	// Limit caps the rows returned; 0 means no cap.
	Limit int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
