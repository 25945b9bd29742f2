package analytics

import (
	"math"
	"sort"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// AssessmentStats summarises assessments. Rows with a non-positive max score
// are counted but excluded from every percentage aggregate.
func AssessmentStats(assessments []models.AssessmentRecord) models.AssessmentStats {
	stats := models.AssessmentStats{
		ImprovementTrend: []models.AssessmentTrendPoint{},
		BySubject:        []models.AssessmentSubjectStats{},
	}
	if len(assessments) == 0 {
		return stats
	}
	stats.TotalAssessments = len(assessments)

	type subjectScores struct {
		count  int
		scores []float64
	}
	subjects := make(map[string]*subjectScores)
	order := make([]string, 0)
	all := make([]float64, 0, len(assessments))
	dated := make([]models.AssessmentRecord, 0, len(assessments))

	for _, a := range assessments {
		subject := a.SubjectName()
		if _, ok := subjects[subject]; !ok {
			subjects[subject] = &subjectScores{}
			order = append(order, subject)
		}
		subjects[subject].count++

		pct, ok := a.Percentage()
		if !ok {
			continue
		}
		all = append(all, pct)
		subjects[subject].scores = append(subjects[subject].scores, pct)
		if a.Date != nil {
			dated = append(dated, a)
		}
	}

	stats.AverageScore = round2(mean(all))
	stats.BestScore, stats.WorstScore = bounds(all)

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(*dated[j].Date)
	})
	for _, a := range dated {
		pct, _ := a.Percentage()
		stats.ImprovementTrend = append(stats.ImprovementTrend, models.AssessmentTrendPoint{
			Date:    a.Date.Format(dayLayout),
			Score:   round2(pct),
			Subject: a.SubjectName(),
		})
	}

	for _, subject := range order {
		s := subjects[subject]
		best, worst := bounds(s.scores)
		stats.BySubject = append(stats.BySubject, models.AssessmentSubjectStats{
			Subject:          subject,
			AverageScore:     round2(mean(s.scores)),
			TotalAssessments: s.count,
			BestScore:        best,
			WorstScore:       worst,
		})
	}

	return stats
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	best, worst := math.Inf(-1), math.Inf(1)
	for _, v := range values {
		best = math.Max(best, v)
		worst = math.Min(worst, v)
	}
	return round2(best), round2(worst)
}
