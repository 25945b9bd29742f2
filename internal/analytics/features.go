package analytics

import (
	"github.com/noah-isme/offline-learning-api/internal/models"
)

// ExtractFeatures converts raw records into the classifier feature vector.
// A student without any records yields the zero vector.
func ExtractFeatures(records Records) models.FeatureVector {
	present := 0
	for _, r := range records.Attendance {
		if r.Present {
			present++
		}
	}

	completed := 0
	scores := make([]float64, 0, len(records.Activities))
	for _, a := range records.Activities {
		if a.Completed {
			completed++
		}
		if a.Score != nil {
			scores = append(scores, clampScore(*a.Score))
		}
	}

	return models.FeatureVector{
		AttendanceRate:         percent(present, len(records.Attendance)),
		AvgScore:               mean(scores),
		StudyConsistency:       sessionsPerWeek(records.Activities),
		ActivityCompletionRate: percent(completed, len(records.Activities)),
	}
}

// sessionsPerWeek is distinct study days divided by the span in weeks
// (at least one). The value is left unclamped.
func sessionsPerWeek(activities []models.ActivityRecord) float64 {
	days, spanDays := studyDays(activities)
	if days == 0 {
		return 0
	}
	weeks := float64(spanDays) / 7
	if weeks < 1 {
		weeks = 1
	}
	return float64(days) / weeks
}

// studyDays returns the number of distinct calendar days with an activity
// and the number of days between the first and last of them.
func studyDays(activities []models.ActivityRecord) (int, int) {
	seen := make(map[string]struct{})
	var first, last string
	for _, a := range activities {
		if a.StartTime == nil {
			continue
		}
		key := a.StartTime.Format(dayLayout)
		seen[key] = struct{}{}
		if first == "" || key < first {
			first = key
		}
		if last == "" || key > last {
			last = key
		}
	}
	if len(seen) == 0 {
		return 0, 0
	}
	return len(seen), daysBetween(first, last)
}

func daysBetween(from, to string) int {
	start, err := parseDay(from)
	if err != nil {
		return 0
	}
	end, err := parseDay(to)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
