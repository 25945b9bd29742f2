package analytics

import (
	"sort"
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

type tally struct {
	total   int
	present int
}

func (t *tally) add(present bool) {
	t.total++
	if present {
		t.present++
	}
}

func (t tally) rate() float64 {
	return round2(percent(t.present, t.total))
}

// AttendanceStats summarises attendance records. Records without a date are
// counted in the totals but not in the daily or monthly trends.
func AttendanceStats(records []models.AttendanceRecord, now time.Time) models.AttendanceStats {
	stats := models.AttendanceStats{
		BySubject:    []models.AttendanceSubjectRate{},
		RecentTrend:  []models.AttendanceDayRate{},
		MonthlyTrend: []models.AttendanceMonthRate{},
	}
	if len(records) == 0 {
		return stats
	}

	var overall tally
	subjects := make(map[string]*tally)
	subjectOrder := make([]string, 0)
	days := make(map[string]*tally)
	months := make(map[string]*tally)

	for _, r := range records {
		overall.add(r.Present)

		subject := r.SubjectName()
		if _, ok := subjects[subject]; !ok {
			subjects[subject] = &tally{}
			subjectOrder = append(subjectOrder, subject)
		}
		subjects[subject].add(r.Present)

		if r.Date == nil {
			continue
		}
		month := r.Date.Format(monthLayout)
		if _, ok := months[month]; !ok {
			months[month] = &tally{}
		}
		months[month].add(r.Present)

		if withinWindow(r.Date, now) {
			day := r.Date.Format(dayLayout)
			if _, ok := days[day]; !ok {
				days[day] = &tally{}
			}
			days[day].add(r.Present)
		}
	}

	stats.TotalDays = overall.total
	stats.DaysPresent = overall.present
	stats.AttendanceRate = overall.rate()

	for _, subject := range subjectOrder {
		t := subjects[subject]
		stats.BySubject = append(stats.BySubject, models.AttendanceSubjectRate{
			Subject: subject,
			Total:   t.total,
			Present: t.present,
			Rate:    t.rate(),
		})
	}

	for _, day := range sortedKeys(days) {
		t := days[day]
		stats.RecentTrend = append(stats.RecentTrend, models.AttendanceDayRate{
			Date:    day,
			Total:   t.total,
			Present: t.present,
			Rate:    t.rate(),
		})
	}

	for _, month := range sortedKeys(months) {
		t := months[month]
		stats.MonthlyTrend = append(stats.MonthlyTrend, models.AttendanceMonthRate{
			Month:   month,
			Total:   t.total,
			Present: t.present,
			Rate:    t.rate(),
		})
	}

	return stats
}

func sortedKeys(m map[string]*tally) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
