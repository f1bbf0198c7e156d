// Package notify pushes best-effort notifications to a Telegram channel
// when grades land. It is optional: without a bot token the service simply
// has no notifier installed.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/observability"
)

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.SugaredLogger
}

// NewTelegram connects the bot and targets the given announcement chat.
func NewTelegram(token string, chatID int64, log *zap.SugaredLogger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	log.Infow("telegram notifier up", "bot", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID, log: log}, nil
}

// ScorePosted announces a freshly posted grade. Failures are logged and
// never propagate into the write path.
func (t *Telegram) ScorePosted(_ context.Context, student models.EnrollmentWithStudent, course models.Course) {
	score := "—"
	if student.Score != nil {
		score = fmt.Sprintf("%.2f", *student.Score)
	}
	text := fmt.Sprintf("📋 %s %s — %s: %s", student.LastName, student.FirstName, course.Name, score)

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		if isSystemErr(err) {
			observability.CaptureErr(err)
		}
		t.log.Warnw("telegram send failed", "err", err)
	}
}

// System errors are 5xx, 429 and timeouts; Telegram-side validation noise
// stays out of Sentry.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "502") ||
		strings.Contains(s, "503") || strings.Contains(s, "timeout")
}
