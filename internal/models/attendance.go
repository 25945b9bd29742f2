package models

import "time"

// DefaultSubject labels attendance and assessment rows recorded without a subject.
const DefaultSubject = "General"

// AttendanceRecord is a single attendance mark for a student.
type AttendanceRecord struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	Date      *time.Time `db:"date" json:"date,omitempty"`
	Present   bool       `db:"present" json:"present"`
	Subject   *string    `db:"subject" json:"subject,omitempty"`
}

// SubjectName returns the subject or DefaultSubject when unset.
func (r AttendanceRecord) SubjectName() string {
	if r.Subject == nil || *r.Subject == "" {
		return DefaultSubject
	}
	return *r.Subject
}

// AttendanceSubjectRate captures attendance for one subject.
type AttendanceSubjectRate struct {
	Subject string  `json:"subject"`
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Rate    float64 `json:"rate"`
}

// AttendanceDayRate captures attendance on a single calendar day.
type AttendanceDayRate struct {
	Date    string  `json:"date"`
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Rate    float64 `json:"rate"`
}

// AttendanceMonthRate captures attendance for a year-month bucket.
type AttendanceMonthRate struct {
	Month   string  `json:"month"`
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Rate    float64 `json:"rate"`
}

// AttendanceStats summarises a student's attendance history.
type AttendanceStats struct {
	TotalDays      int                     `json:"total_days"`
	DaysPresent    int                     `json:"days_present"`
	AttendanceRate float64                 `json:"attendance_rate"`
	BySubject      []AttendanceSubjectRate `json:"by_subject"`
	RecentTrend    []AttendanceDayRate     `json:"recent_trend"`
	MonthlyTrend   []AttendanceMonthRate   `json:"monthly_trend"`
}
