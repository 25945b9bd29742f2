// Package notifier delivers alert digests to teachers over Telegram.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/pkg/config"
)

// Sender is the subset of the bot API used for delivery.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts alert digests to a single chat.
type Telegram struct {
	bot        Sender
	chatID     int64
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewTelegram authenticates the bot and builds a notifier.
func NewTelegram(cfg config.TelegramConfig, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewTelegramWithSender(bot, cfg.ChatID, cfg.MaxRetries, cfg.RetryDelay, logger), nil
}

// NewTelegramWithSender builds a notifier over an existing sender.
func NewTelegramWithSender(bot Sender, chatID int64, maxRetries int, retryDelay time.Duration, logger *zap.Logger) *Telegram {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{bot: bot, chatID: chatID, maxRetries: maxRetries, retryDelay: retryDelay, logger: logger}
}

// NotifyAlerts sends the digest, retrying with a linear backoff.
func (t *Telegram) NotifyAlerts(ctx context.Context, digest models.AlertDigest) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatDigest(digest))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		t.logger.Warn("telegram send failed", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt == t.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.retryDelay * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("send telegram digest after %d attempts: %w", t.maxRetries, lastErr)
}

// FormatDigest renders the digest as MarkdownV2.
func FormatDigest(d models.AlertDigest) string {
	grade := d.Grade
	if grade == "" {
		grade = models.AllGradesLabel
	}
	s := d.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "*Student alert digest: %s*\n", escape(grade))
	fmt.Fprintf(&b, "%s\n\n", escape(s.CheckedAt.UTC().Format("2006-01-02 15:04 MST")))
	fmt.Fprintf(&b, "Students checked: %d\n", s.TotalStudents)
	fmt.Fprintf(&b, "Students with alerts: %d\n", s.StudentsWithAlerts)
	fmt.Fprintf(&b, "%s: %d\n", escape("Low attendance"), s.AlertTypes[models.AlertAttendanceLow])
	fmt.Fprintf(&b, "%s: %d\n", escape("Low study activity"), s.AlertTypes[models.AlertLowStudyActivity])
	fmt.Fprintf(&b, "%s: %d\n", escape("Low performance"), s.AlertTypes[models.AlertLowPerformance])

	if len(d.WatchList) == 0 {
		b.WriteString("\nNo students need attention\\.")
		return b.String()
	}

	b.WriteString("\n*Needs attention*\n")
	for i, m := range d.WatchList {
		line := fmt.Sprintf("%d. %s (%s risk, attendance %.1f%%)", i+1, m.StudentName, m.RiskLevel, m.AttendanceRate)
		b.WriteString(escape(line))
		b.WriteByte('\n')
	}
	return b.String()
}

var markdownV2Escaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

func escape(text string) string {
	return markdownV2Escaper.Replace(text)
}
