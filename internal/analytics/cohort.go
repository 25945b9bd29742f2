package analytics

import (
	"sort"
	"time"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

const (
	topPerformerLimit = 5
	watchListLimit    = 10
)

// CompositeScore ranks students for the top performer list.
func CompositeScore(a models.StudentAnalytics) float64 {
	return a.LearningProgress.AverageScore*0.4 +
		a.Assessments.AverageScore*0.3 +
		a.Attendance.AttendanceRate*0.3
}

func cohortMember(a models.StudentAnalytics) models.CohortMember {
	return models.CohortMember{
		StudentID:       a.StudentID,
		StudentName:     a.StudentName,
		Grade:           a.Grade,
		AttendanceRate:  a.Attendance.AttendanceRate,
		CompletionRate:  a.LearningProgress.CompletionRate,
		AverageScore:    a.LearningProgress.AverageScore,
		AssessmentScore: a.Assessments.AverageScore,
		CompositeScore:  round2(CompositeScore(a)),
		RiskLevel:       a.Risk.RiskLevel,
	}
}

// Cohort rolls per-student analytics up into class or grade level views.
// An empty set yields a zeroed result flagged Empty.
func Cohort(students []models.StudentAnalytics, grade string, now time.Time) models.CohortAnalytics {
	if grade == "" {
		grade = models.AllGradesLabel
	}
	cohort := models.CohortAnalytics{
		Grade:                    grade,
		TotalStudents:            len(students),
		RiskDistribution:         map[models.RiskLevel]int{models.RiskLow: 0, models.RiskMedium: 0, models.RiskHigh: 0},
		TopPerformers:            []models.CohortMember{},
		StudentsNeedingAttention: []models.CohortMember{},
		Empty:                    len(students) == 0,
		AnalyticsDate:            now,
	}
	if cohort.Empty {
		return cohort
	}

	type rankedMember struct {
		member    models.CohortMember
		composite float64
	}
	var attendance, completion, score, assessment float64
	members := make([]rankedMember, 0, len(students))
	for _, s := range students {
		attendance += s.Attendance.AttendanceRate
		completion += s.LearningProgress.CompletionRate
		score += s.LearningProgress.AverageScore
		assessment += s.Assessments.AverageScore
		cohort.RiskDistribution[s.Risk.RiskLevel]++

		member := cohortMember(s)
		members = append(members, rankedMember{member: member, composite: CompositeScore(s)})
		if (s.Risk.RiskLevel == models.RiskHigh || s.Risk.RiskLevel == models.RiskMedium) &&
			len(cohort.StudentsNeedingAttention) < watchListLimit {
			cohort.StudentsNeedingAttention = append(cohort.StudentsNeedingAttention, member)
		}
	}

	n := float64(len(students))
	cohort.AverageAttendanceRate = round2(attendance / n)
	cohort.AverageCompletionRate = round2(completion / n)
	cohort.AverageScore = round2(score / n)
	cohort.AverageAssessmentScore = round2(assessment / n)

	// rank on the unrounded composite; the member carries the rounded one
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].composite != members[j].composite {
			return members[i].composite > members[j].composite
		}
		return members[i].member.StudentID < members[j].member.StudentID
	})
	for i := 0; i < len(members) && i < topPerformerLimit; i++ {
		cohort.TopPerformers = append(cohort.TopPerformers, members[i].member)
	}
	return cohort
}

// SubjectRollup aggregates one subject's progress across students. Students
// without activity in the subject are left out; only students with a
// positive subject average count toward the mean.
func SubjectRollup(subject string, students []models.StudentAnalytics, grade string, now time.Time) models.SubjectAnalytics {
	if grade == "" {
		grade = models.AllGradesLabel
	}
	result := models.SubjectAnalytics{
		Subject:            subject,
		Grade:              grade,
		StudentPerformance: []models.SubjectStudentPerformance{},
		AnalyticsDate:      now,
	}

	var total float64
	scored := 0
	for _, s := range students {
		progress, ok := s.SubjectProgressFor(subject)
		if !ok {
			continue
		}
		result.StudentPerformance = append(result.StudentPerformance, models.SubjectStudentPerformance{
			StudentID:           s.StudentID,
			StudentName:         s.StudentName,
			Grade:               s.Grade,
			CompletionRate:      progress.CompletionRate,
			AverageScore:        progress.AverageScore,
			TotalActivities:     progress.TotalActivities,
			CompletedActivities: progress.CompletedActivities,
		})
		if progress.AverageScore > 0 {
			total += progress.AverageScore
			scored++
		}
	}

	result.TotalStudents = len(result.StudentPerformance)
	if scored > 0 {
		result.AverageScore = round2(total / float64(scored))
	}
	sort.SliceStable(result.StudentPerformance, func(i, j int) bool {
		a, b := result.StudentPerformance[i], result.StudentPerformance[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.StudentID < b.StudentID
	})
	return result
}
