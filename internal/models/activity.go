package models

import "time"

// ActivityRecord is a timed learning activity joined to its syllabus subject.
type ActivityRecord struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"student_id"`
	SyllabusID *string    `db:"syllabus_id" json:"syllabus_id,omitempty"`
	Subject    *string    `db:"subject" json:"subject,omitempty"`
	StartTime  *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime    *time.Time `db:"end_time" json:"end_time,omitempty"`
	Duration   *int       `db:"duration" json:"duration,omitempty"`
	Completed  bool       `db:"completed" json:"completed"`
	Score      *float64   `db:"score" json:"score,omitempty"`
}

// DurationMinutes resolves the session length in minutes. An explicit duration
// wins; otherwise it is derived from the timestamps. Negative values clamp to 0.
func (a ActivityRecord) DurationMinutes() (int, bool) {
	if a.Duration != nil {
		if *a.Duration < 0 {
			return 0, true
		}
		return *a.Duration, true
	}
	if a.StartTime != nil && a.EndTime != nil {
		minutes := int(a.EndTime.Sub(*a.StartTime) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
		return minutes, true
	}
	return 0, false
}

// ScoreDistribution buckets activities by score band.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
	NoScore   int `json:"no_score"`
}

// Total returns the number of activities across all buckets.
func (d ScoreDistribution) Total() int {
	return d.Excellent + d.Good + d.Average + d.Poor + d.NoScore
}

// LearningProgress summarises a student's learning activities.
type LearningProgress struct {
	TotalActivities     int               `json:"total_activities"`
	CompletedActivities int               `json:"completed_activities"`
	CompletionRate      float64           `json:"completion_rate"`
	AverageScore        float64           `json:"average_score"`
	TotalStudyTime      float64           `json:"total_study_time"`
	AverageDuration     float64           `json:"average_duration"`
	WeeklyActivities    int               `json:"weekly_activities"`
	ScoreDistribution   ScoreDistribution `json:"score_distribution"`
}

// PeakHour is one of the busiest study hours.
type PeakHour struct {
	Hour       string  `json:"hour"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// WeekdayCount counts activities started on a weekday.
type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// StudyPatterns describes when and how regularly a student studies.
type StudyPatterns struct {
	PreferredTime        string         `json:"preferred_time"`
	AverageSessionLength float64        `json:"average_session_length"`
	ConsistencyScore     float64        `json:"consistency_score"`
	HourDistribution     [24]int        `json:"hour_distribution"`
	WeeklyPattern        []WeekdayCount `json:"weekly_pattern"`
	PeakHours            []PeakHour     `json:"peak_hours"`
}

// SubjectProgress aggregates activities for a single syllabus subject.
type SubjectProgress struct {
	Subject             string  `json:"subject"`
	TotalActivities     int     `json:"total_activities"`
	CompletedActivities int     `json:"completed_activities"`
	CompletionRate      float64 `json:"completion_rate"`
	AverageScore        float64 `json:"average_score"`
	AverageDuration     float64 `json:"average_duration"`
}

// RecentActivity is a trimmed activity row for analytics responses.
type RecentActivity struct {
	ID         string     `json:"id"`
	SyllabusID *string    `json:"syllabus_id,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	Duration   *int       `json:"duration,omitempty"`
	Completed  bool       `json:"completed"`
	Score      *float64   `json:"score,omitempty"`
}
