package analytics

import (
	"sort"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

const recentActivityLimit = 5

// RecentActivities returns the newest activities by start time.
func RecentActivities(activities []models.ActivityRecord) []models.RecentActivity {
	sorted := make([]models.ActivityRecord, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return newer(sorted[i].StartTime, sorted[j].StartTime)
	})
	if len(sorted) > recentActivityLimit {
		sorted = sorted[:recentActivityLimit]
	}

	recent := make([]models.RecentActivity, 0, len(sorted))
	for _, a := range sorted {
		recent = append(recent, models.RecentActivity{
			ID:         a.ID,
			SyllabusID: a.SyllabusID,
			StartTime:  a.StartTime,
			Duration:   a.Duration,
			Completed:  a.Completed,
			Score:      a.Score,
		})
	}
	return recent
}
