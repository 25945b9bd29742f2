package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// Preferred time-of-day labels.
const (
	TimeMorning       = "Morning"
	TimeAfternoon     = "Afternoon"
	TimeEvening       = "Evening"
	TimeNight         = "Night"
	TimeNotEnoughData = "Not enough data"
)

const peakHourCount = 3

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// StudyPatterns analyses when and how regularly a student studies. Only
// activities with a start time take part.
func StudyPatterns(activities []models.ActivityRecord) models.StudyPatterns {
	patterns := models.StudyPatterns{
		PreferredTime: TimeNotEnoughData,
		WeeklyPattern: emptyWeek(),
		PeakHours:     []models.PeakHour{},
	}

	started := make([]models.ActivityRecord, 0, len(activities))
	for _, a := range activities {
		if a.StartTime != nil {
			started = append(started, a)
		}
	}
	if len(started) == 0 {
		return patterns
	}

	durations := make([]float64, 0, len(started))
	for _, a := range started {
		hour := a.StartTime.Hour()
		patterns.HourDistribution[hour]++
		patterns.WeeklyPattern[mondayIndex(a)].Count++
		if minutes, ok := a.DurationMinutes(); ok && minutes > 0 {
			durations = append(durations, float64(minutes))
		}
	}

	patterns.PreferredTime = timeOfDay(modalHour(patterns.HourDistribution))
	patterns.AverageSessionLength = round2(mean(durations))
	patterns.ConsistencyScore = round2(consistencyScore(started))
	patterns.PeakHours = peakHours(patterns.HourDistribution, len(started))
	return patterns
}

// consistencyScore is distinct study days over the calendar days spanned
// (at least one week), as a percentage capped at 100.
func consistencyScore(activities []models.ActivityRecord) float64 {
	days, spanDays := studyDays(activities)
	if days == 0 {
		return 0
	}
	weeks := math.Max(1, float64(spanDays)/7)
	return math.Min(100, float64(days)/(weeks*7)*100)
}

// modalHour returns the first hour holding the maximum count.
func modalHour(hist [24]int) int {
	best := 0
	for hour := 1; hour < len(hist); hour++ {
		if hist[hour] > hist[best] {
			best = hour
		}
	}
	return best
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return TimeMorning
	case hour >= 12 && hour < 17:
		return TimeAfternoon
	case hour >= 17 && hour < 22:
		return TimeEvening
	default:
		return TimeNight
	}
}

func peakHours(hist [24]int, total int) []models.PeakHour {
	type hourCount struct {
		hour  int
		count int
	}
	counts := make([]hourCount, 0, len(hist))
	for hour, count := range hist {
		if count > 0 {
			counts = append(counts, hourCount{hour: hour, count: count})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > peakHourCount {
		counts = counts[:peakHourCount]
	}

	peaks := make([]models.PeakHour, 0, len(counts))
	for _, c := range counts {
		peaks = append(peaks, models.PeakHour{
			Hour:       fmt.Sprintf("%02d:00", c.hour),
			Count:      c.count,
			Percentage: round2(percent(c.count, total)),
		})
	}
	return peaks
}

func mondayIndex(a models.ActivityRecord) int {
	return (int(a.StartTime.Weekday()) + 6) % 7
}

func emptyWeek() []models.WeekdayCount {
	week := make([]models.WeekdayCount, len(weekdayNames))
	for i, name := range weekdayNames {
		week[i] = models.WeekdayCount{Day: name}
	}
	return week
}
