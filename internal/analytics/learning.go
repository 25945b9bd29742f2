package analytics

import (
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Score band lower bounds.
const (
	excellentScore = 90
	goodScore      = 75
	averageScore   = 60
)

// LearningProgress summarises learning activities.
func LearningProgress(activities []models.ActivityRecord, now time.Time) models.LearningProgress {
	progress := models.LearningProgress{}
	if len(activities) == 0 {
		return progress
	}

	scores := make([]float64, 0, len(activities))
	totalMinutes := 0
	for _, a := range activities {
		if a.Completed {
			progress.CompletedActivities++
		}
		if minutes, ok := a.DurationMinutes(); ok {
			totalMinutes += minutes
		}
		if withinWindow(a.StartTime, now) {
			progress.WeeklyActivities++
		}
		if a.Score == nil {
			progress.ScoreDistribution.NoScore++
			continue
		}
		score := clampScore(*a.Score)
		scores = append(scores, score)
		switch {
		case score >= excellentScore:
			progress.ScoreDistribution.Excellent++
		case score >= goodScore:
			progress.ScoreDistribution.Good++
		case score >= averageScore:
			progress.ScoreDistribution.Average++
		default:
			progress.ScoreDistribution.Poor++
		}
	}

	progress.TotalActivities = len(activities)
	progress.CompletionRate = round2(percent(progress.CompletedActivities, progress.TotalActivities))
	progress.AverageScore = round2(mean(scores))
	progress.TotalStudyTime = float64(totalMinutes)
	progress.AverageDuration = round2(float64(totalMinutes) / float64(progress.TotalActivities))
	return progress
}
