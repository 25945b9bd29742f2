package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

var refNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func at(month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(2024, month, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func str(v string) *string   { return &v }
func num(v float64) *float64 { return &v }
func minutes(v int) *int     { return &v }

func attendanceFixture() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		{ID: "att-1", StudentID: "s-1", Date: at(time.March, 14, 8, 0), Present: true, Subject: str("Math")},
		{ID: "att-2", StudentID: "s-1", Date: at(time.March, 14, 10, 0), Present: false, Subject: str("Science")},
		{ID: "att-3", StudentID: "s-1", Date: at(time.February, 1, 8, 0), Present: true, Subject: str("Math")},
		{ID: "att-4", StudentID: "s-1", Present: true},
	}
}

func activityFixture() []models.ActivityRecord {
	return []models.ActivityRecord{
		{ID: "act-1", StartTime: at(time.March, 14, 9, 0), Duration: minutes(30), Completed: true, Score: num(95), Subject: str("Math")},
		{ID: "act-2", StartTime: at(time.March, 13, 9, 30), EndTime: at(time.March, 13, 10, 15), Completed: true, Score: num(80), Subject: str("Math")},
		{ID: "act-3", StartTime: at(time.March, 12, 14, 0), Duration: minutes(20), Completed: true, Score: num(65), Subject: str("Science")},
		{ID: "act-4", StartTime: at(time.March, 1, 19, 0), Score: num(0)},
		{ID: "act-5", Subject: str("Science")},
	}
}

func assessmentFixture() []models.AssessmentRecord {
	return []models.AssessmentRecord{
		{ID: "as-1", Subject: str("Math"), Score: 45, MaxScore: 50, Date: at(time.March, 10, 9, 0)},
		{ID: "as-2", Subject: str("Math"), Score: 30, MaxScore: 50, Date: at(time.March, 1, 9, 0)},
		{ID: "as-3", Subject: str("Science"), Score: 7, MaxScore: 10},
		{ID: "as-4", Score: 5, MaxScore: 0, Date: at(time.March, 11, 9, 0)},
	}
}

func fixtureRecords() Records {
	return Records{
		Attendance:  attendanceFixture(),
		Activities:  activityFixture(),
		Assessments: assessmentFixture(),
	}
}

func TestAttendanceStats(t *testing.T) {
	stats := AttendanceStats(attendanceFixture(), refNow)

	assert.Equal(t, 4, stats.TotalDays)
	assert.Equal(t, 3, stats.DaysPresent)
	assert.Equal(t, 75.0, stats.AttendanceRate)
	assert.Equal(t, []models.AttendanceSubjectRate{
		{Subject: "Math", Total: 2, Present: 2, Rate: 100},
		{Subject: "Science", Total: 1, Present: 0, Rate: 0},
		{Subject: models.DefaultSubject, Total: 1, Present: 1, Rate: 100},
	}, stats.BySubject)
	assert.Equal(t, []models.AttendanceDayRate{
		{Date: "2024-03-14", Total: 2, Present: 1, Rate: 50},
	}, stats.RecentTrend)
	assert.Equal(t, []models.AttendanceMonthRate{
		{Month: "2024-02", Total: 1, Present: 1, Rate: 100},
		{Month: "2024-03", Total: 2, Present: 1, Rate: 50},
	}, stats.MonthlyTrend)
}

func TestLearningProgress(t *testing.T) {
	progress := LearningProgress(activityFixture(), refNow)

	assert.Equal(t, 5, progress.TotalActivities)
	assert.Equal(t, 3, progress.CompletedActivities)
	assert.Equal(t, 60.0, progress.CompletionRate)
	assert.Equal(t, 60.0, progress.AverageScore)
	assert.Equal(t, 95.0, progress.TotalStudyTime)
	assert.Equal(t, 19.0, progress.AverageDuration)
	assert.Equal(t, 3, progress.WeeklyActivities)
	assert.Equal(t, models.ScoreDistribution{Excellent: 1, Good: 1, Average: 1, Poor: 1, NoScore: 1}, progress.ScoreDistribution)
	assert.Equal(t, progress.TotalActivities, progress.ScoreDistribution.Total())
}

func TestAssessmentStatsSkipsInvalidMaxScore(t *testing.T) {
	stats := AssessmentStats(assessmentFixture())

	assert.Equal(t, 4, stats.TotalAssessments)
	assert.Equal(t, 73.33, stats.AverageScore)
	assert.Equal(t, 90.0, stats.BestScore)
	assert.Equal(t, 60.0, stats.WorstScore)
	assert.Equal(t, []models.AssessmentTrendPoint{
		{Date: "2024-03-01", Score: 60, Subject: "Math"},
		{Date: "2024-03-10", Score: 90, Subject: "Math"},
	}, stats.ImprovementTrend)
	require.Len(t, stats.BySubject, 3)
	assert.Equal(t, models.AssessmentSubjectStats{Subject: "Math", AverageScore: 75, TotalAssessments: 2, BestScore: 90, WorstScore: 60}, stats.BySubject[0])
	assert.Equal(t, models.AssessmentSubjectStats{Subject: "Science", AverageScore: 70, TotalAssessments: 1, BestScore: 70, WorstScore: 70}, stats.BySubject[1])
	assert.Equal(t, models.AssessmentSubjectStats{Subject: models.DefaultSubject, TotalAssessments: 1}, stats.BySubject[2])
}

func TestStudyPatterns(t *testing.T) {
	patterns := StudyPatterns(activityFixture())

	assert.Equal(t, TimeMorning, patterns.PreferredTime)
	assert.Equal(t, 31.67, patterns.AverageSessionLength)
	assert.Equal(t, 30.77, patterns.ConsistencyScore)
	assert.Equal(t, []models.PeakHour{
		{Hour: "09:00", Count: 2, Percentage: 50},
		{Hour: "14:00", Count: 1, Percentage: 25},
		{Hour: "19:00", Count: 1, Percentage: 25},
	}, patterns.PeakHours)

	hourTotal := 0
	for _, c := range patterns.HourDistribution {
		hourTotal += c
	}
	weekTotal := 0
	for _, d := range patterns.WeeklyPattern {
		weekTotal += d.Count
	}
	assert.Equal(t, 4, hourTotal)
	assert.Equal(t, 4, weekTotal)
	assert.Equal(t, "Monday", patterns.WeeklyPattern[0].Day)
	assert.Equal(t, 1, patterns.WeeklyPattern[1].Count)
	assert.Equal(t, 1, patterns.WeeklyPattern[4].Count)
}

func TestStudyPatternsWithoutStartTimes(t *testing.T) {
	patterns := StudyPatterns([]models.ActivityRecord{{ID: "a"}})
	assert.Equal(t, TimeNotEnoughData, patterns.PreferredTime)
	assert.Empty(t, patterns.PeakHours)
	assert.Len(t, patterns.WeeklyPattern, 7)
	assert.Zero(t, patterns.ConsistencyScore)
}

func TestStudyPatternsTiedModalHour(t *testing.T) {
	activities := []models.ActivityRecord{
		{ID: "n-1", StartTime: at(time.March, 11, 4, 0)},
		{ID: "n-2", StartTime: at(time.March, 12, 4, 30)},
		{ID: "e-1", StartTime: at(time.March, 11, 19, 0)},
		{ID: "e-2", StartTime: at(time.March, 12, 19, 15)},
	}
	patterns := StudyPatterns(activities)

	assert.Equal(t, TimeNight, patterns.PreferredTime)
	assert.Equal(t, 4, modalHour(patterns.HourDistribution))
}

func TestTimeOfDayBoundaries(t *testing.T) {
	assert.Equal(t, TimeNight, timeOfDay(4))
	assert.Equal(t, TimeMorning, timeOfDay(5))
	assert.Equal(t, TimeAfternoon, timeOfDay(12))
	assert.Equal(t, TimeEvening, timeOfDay(17))
	assert.Equal(t, TimeNight, timeOfDay(22))
}

func TestProgressBySubjectSkipsUnassigned(t *testing.T) {
	progress := ProgressBySubject(activityFixture())
	assert.Equal(t, []models.SubjectProgress{
		{Subject: "Math", TotalActivities: 2, CompletedActivities: 2, CompletionRate: 100, AverageScore: 87.5, AverageDuration: 37.5},
		{Subject: "Science", TotalActivities: 2, CompletedActivities: 1, CompletionRate: 50, AverageScore: 65, AverageDuration: 10},
	}, progress)
}

func TestExtractFeatures(t *testing.T) {
	features := ExtractFeatures(fixtureRecords())

	assert.Equal(t, 75.0, features.AttendanceRate)
	assert.Equal(t, 60.0, features.AvgScore)
	assert.InDelta(t, 4/(13.0/7), features.StudyConsistency, 1e-9)
	assert.Equal(t, 60.0, features.ActivityCompletionRate)
}

func TestEmptyRecords(t *testing.T) {
	records := Records{}
	features := ExtractFeatures(records)
	assert.Equal(t, models.FeatureVector{}, features)

	agg := Aggregate(records, refNow)
	assert.Zero(t, agg.Attendance.AttendanceRate)
	assert.Zero(t, agg.LearningProgress.TotalActivities)
	assert.Zero(t, agg.Assessments.AverageScore)
	assert.Empty(t, agg.ProgressBySubject)
	assert.NotNil(t, agg.Attendance.BySubject)

	signals := agg.Signals(features)
	require.NotNil(t, signals.AssessmentAverage)
	require.NotNil(t, signals.AssessmentCount)
	assert.Zero(t, *signals.AssessmentCount)
	assert.Zero(t, *signals.WeeklyActivities)
	assert.Empty(t, RecentActivities(nil))
}

func TestRecommendationsForStrugglingStudent(t *testing.T) {
	m := Metrics{AttendanceRate: 40, CompletionRate: 30, AverageScore: 45, AssessmentAverage: 40, WeeklyActivities: 1}
	recs := Recommendations(m, models.RiskHigh)

	assert.Equal(t, []string{
		"Try to maintain at least 80% attendance for better learning outcomes",
		"Focus on completing more learning activities to improve understanding",
		"Review completed activities and retake quizzes to improve scores",
		"Aim for at least 5 learning activities per week for consistent progress",
		"Practice more assessment questions to improve test performance",
		"Schedule one-on-one sessions with teacher for extra support",
		"Start with easier topics and gradually increase difficulty",
		"Set smaller, achievable daily learning goals",
	}, recs)
	assert.Equal(t,
		"Student shows needs improvement performance. Needs to improve attendance. Low activity completion rate. Assessment scores need improvement. Overall risk level: HIGH.",
		Summary(m, models.RiskHigh))
}

func TestRecommendationsForStrongStudent(t *testing.T) {
	m := Metrics{AttendanceRate: 90, CompletionRate: 85, AverageScore: 88, AssessmentAverage: 91, WeeklyActivities: 6}
	recs := Recommendations(m, models.RiskLow)

	require.Len(t, recs, 6)
	assert.Equal(t, "Continue current study patterns", recs[0])
	assert.Equal(t, "Take regular breaks during study sessions (5 minutes every 25 minutes)", recs[3])
	assert.Equal(t,
		"Student shows excellent performance. Excellent attendance. Completes most learning activities. Strong assessment performance. Overall risk level: LOW.",
		Summary(m, models.RiskLow))
}

func TestPerformanceLabel(t *testing.T) {
	assert.Equal(t, PerformanceExcellent, PerformanceLabel(80))
	assert.Equal(t, PerformanceGood, PerformanceLabel(65))
	assert.Equal(t, PerformanceAverage, PerformanceLabel(50))
	assert.Equal(t, PerformanceNeedsImprovement, PerformanceLabel(49.99))
}

func TestFeatureRecommendations(t *testing.T) {
	recs := FeatureRecommendations(models.FeatureVector{AttendanceRate: 50, AvgScore: 40, StudyConsistency: 1, ActivityCompletionRate: 30}, models.RiskHigh)
	assert.Equal(t, []string{
		"HIGH RISK: Immediate intervention needed",
		"Improve attendance to at least 75%",
		"Focus on foundational concepts",
		"Schedule regular teacher meetings",
		"Allocate 2+ hours daily for focused study",
		"Increase study sessions to 3+ per week",
		"Complete all assigned activities",
	}, recs)

	low := FeatureRecommendations(models.FeatureVector{AttendanceRate: 95, AvgScore: 90, StudyConsistency: 4, ActivityCompletionRate: 95}, models.RiskLow)
	assert.Equal(t, "LOW RISK: Good performance", low[0])
	assert.Len(t, low, 4)
}

func TestRecentActivitiesNewestFirst(t *testing.T) {
	recent := RecentActivities(activityFixture())
	require.Len(t, recent, 5)
	assert.Equal(t, "act-1", recent[0].ID)
	assert.Equal(t, "act-4", recent[3].ID)
	assert.Equal(t, "act-5", recent[4].ID)
}
