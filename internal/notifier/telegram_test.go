package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

type fakeSender struct {
	failures int
	calls    int
	last     tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	f.last = c
	if f.calls <= f.failures {
		return tgbotapi.Message{}, errors.New("Too Many Requests")
	}
	return tgbotapi.Message{MessageID: f.calls}, nil
}

func sampleDigest() models.AlertDigest {
	return models.AlertDigest{
		Grade: "5",
		Summary: models.AlertSummary{
			TotalStudents:      12,
			StudentsWithAlerts: 2,
			AlertTypes: map[models.AlertType]int{
				models.AlertAttendanceLow:    1,
				models.AlertLowStudyActivity: 2,
			},
			CheckedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		},
		WatchList: []models.CohortMember{
			{StudentID: "s-3", StudentName: "Ravi K.", RiskLevel: models.RiskHigh, AttendanceRate: 42.5},
		},
	}
}

func TestFormatDigestEscapesMarkdown(t *testing.T) {
	text := FormatDigest(sampleDigest())

	assert.Contains(t, text, "*Student alert digest: 5*")
	assert.Contains(t, text, "2024\\-03\\-15 09:00 UTC")
	assert.Contains(t, text, "Students checked: 12")
	assert.Contains(t, text, "Low attendance: 1")
	assert.Contains(t, text, "Low performance: 0")
	assert.Contains(t, text, "1\\. Ravi K\\. \\(high risk, attendance 42\\.5%\\)")
}

func TestFormatDigestWithoutWatchList(t *testing.T) {
	digest := sampleDigest()
	digest.Grade = ""
	digest.WatchList = nil

	text := FormatDigest(digest)
	assert.Contains(t, text, "All Grades")
	assert.Contains(t, text, "No students need attention\\.")
}

func TestFormatDigestListsEveryWatchedStudent(t *testing.T) {
	digest := sampleDigest()
	digest.WatchList = nil
	for i := 1; i <= 10; i++ {
		digest.WatchList = append(digest.WatchList, models.CohortMember{
			StudentID:   fmt.Sprintf("s-%d", i),
			StudentName: fmt.Sprintf("Student %d", i),
			RiskLevel:   models.RiskMedium,
		})
	}

	text := FormatDigest(digest)
	assert.Contains(t, text, "1\\. Student 1 ")
	assert.Contains(t, text, "10\\. Student 10 ")
	assert.NotContains(t, text, "more")
}

func TestNotifyAlertsRetries(t *testing.T) {
	sender := &fakeSender{failures: 2}
	n := NewTelegramWithSender(sender, 42, 3, time.Millisecond, nil)

	require.NoError(t, n.NotifyAlerts(context.Background(), sampleDigest()))
	assert.Equal(t, 3, sender.calls)

	msg, ok := sender.last.(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
}

func TestNotifyAlertsGivesUp(t *testing.T) {
	sender := &fakeSender{failures: 5}
	n := NewTelegramWithSender(sender, 42, 2, time.Millisecond, nil)

	err := n.NotifyAlerts(context.Background(), sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, sender.calls)
}

func TestNotifyAlertsStopsOnCancel(t *testing.T) {
	sender := &fakeSender{failures: 5}
	n := NewTelegramWithSender(sender, 42, 3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.NotifyAlerts(ctx, sampleDigest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sender.calls)
}
