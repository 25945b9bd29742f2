package models

import "time"

// AlertType enumerates the supported student alert checks.
type AlertType string

const (
	AlertAttendanceLow    AlertType = "attendance_low"
	AlertLowStudyActivity AlertType = "low_study_activity"
	AlertLowPerformance   AlertType = "low_performance"
)

// AlertSeverity grades alerts.
type AlertSeverity string

const (
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Alert is a single triggered check for a student.
type Alert struct {
	Type           AlertType     `json:"type"`
	Message        string        `json:"message"`
	Severity       AlertSeverity `json:"severity"`
	Recommendation string        `json:"recommendation"`
}

// StudentAlerts lists alerts raised for one student.
type StudentAlerts struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	TotalAlerts int       `json:"total_alerts"`
	Alerts      []Alert   `json:"alerts"`
	CheckedAt   time.Time `json:"checked_at"`
}

// AlertSummary counts alerts across a set of students.
type AlertSummary struct {
	TotalStudents      int                   `json:"total_students"`
	StudentsWithAlerts int                   `json:"students_with_alerts"`
	AlertTypes         map[AlertType]int     `json:"alert_types"`
	BySeverity         map[AlertSeverity]int `json:"by_severity"`
	CheckedAt          time.Time             `json:"checked_at"`
}

// AlertDigest is the payload pushed to notification channels.
type AlertDigest struct {
	Grade     string         `json:"grade"`
	Summary   AlertSummary   `json:"summary"`
	WatchList []CohortMember `json:"watch_list"`
}
