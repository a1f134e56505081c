// Package notify reports provisioning results to an operator.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/botdb-provisioner/internal/provisioner"
)

// Notifier receives the result of a provisioning run. err is nil on success.
type Notifier interface {
	Notify(ctx context.Context, spec provisioner.AccountSpec, outcome provisioner.Outcome, err error)
}

// Nop discards notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, provisioner.AccountSpec, provisioner.Outcome, error) {}

// MessageSender is the part of the Telegram client used to deliver messages.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram sends results to a single admin chat.
type Telegram struct {
	sender MessageSender
	chatID int64
	logger *slog.Logger
}

// NewTelegram creates a Telegram notifier for chatID. The bot token is not
// verified with getMe so that a Telegram outage cannot delay provisioning.
func NewTelegram(token string, chatID int64, logger *slog.Logger, opts ...bot.Option) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	opts = append(opts, bot.WithSkipGetMe())
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return newTelegram(b, chatID, logger), nil
}

func newTelegram(sender MessageSender, chatID int64, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Telegram{
		sender: sender,
		chatID: chatID,
		logger: logger.With("component", "telegram_notifier"),
	}
}

// Notify sends a one-line summary. Delivery failures are only logged.
func (t *Telegram) Notify(ctx context.Context, spec provisioner.AccountSpec, outcome provisioner.Outcome, err error) {
	text := Message(spec, outcome, err)
	if _, sendErr := t.sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: t.chatID, Text: text}); sendErr != nil {
		t.logger.WarnContext(ctx, "Failed to send provisioning notification", "error", sendErr, "chat_id", t.chatID)
		return
	}
	t.logger.DebugContext(ctx, "Sent provisioning notification", "chat_id", t.chatID)
}

// Message renders the notification text. The password is never included.
func Message(spec provisioner.AccountSpec, outcome provisioner.Outcome, err error) string {
	if err != nil {
		step := provisioner.FailedStep(err)
		return fmt.Sprintf("❌ Provisioning user %s on db %s failed at %s: %v", spec.Username, spec.Database, step, err)
	}
	switch outcome {
	case provisioner.Created:
		return fmt.Sprintf("✅ Created user %s on db %s", spec.Username, spec.Database)
	case provisioner.AlreadyExists:
		return fmt.Sprintf("ℹ️ User %s already exists on db %s", spec.Username, spec.Database)
	default:
		return fmt.Sprintf("Provisioning user %s on db %s finished: %s", spec.Username, spec.Database, outcome)
	}
}
