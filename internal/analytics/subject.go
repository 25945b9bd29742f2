package analytics

import (
	"github.com/noah-isme/offline-learning-api/internal/models"
)

// ProgressBySubject joins activities to their syllabus subject. Activities
// without a syllabus subject are skipped, like an inner join would.
func ProgressBySubject(activities []models.ActivityRecord) []models.SubjectProgress {
	type acc struct {
		total, completed, scoreCount, minutes int
		scoreSum                              float64
	}
	subjects := make(map[string]*acc)
	order := make([]string, 0)

	for _, a := range activities {
		if a.Subject == nil || *a.Subject == "" {
			continue
		}
		subject := *a.Subject
		s, ok := subjects[subject]
		if !ok {
			s = &acc{}
			subjects[subject] = s
			order = append(order, subject)
		}
		s.total++
		if a.Completed {
			s.completed++
		}
		if a.Score != nil {
			s.scoreSum += clampScore(*a.Score)
			s.scoreCount++
		}
		if minutes, ok := a.DurationMinutes(); ok {
			s.minutes += minutes
		}
	}

	progress := make([]models.SubjectProgress, 0, len(order))
	for _, subject := range order {
		s := subjects[subject]
		p := models.SubjectProgress{
			Subject:             subject,
			TotalActivities:     s.total,
			CompletedActivities: s.completed,
			CompletionRate:      round2(percent(s.completed, s.total)),
			AverageDuration:     round2(float64(s.minutes) / float64(s.total)),
		}
		if s.scoreCount > 0 {
			p.AverageScore = round2(s.scoreSum / float64(s.scoreCount))
		}
		progress = append(progress, p)
	}
	return progress
}
