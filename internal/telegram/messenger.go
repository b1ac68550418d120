package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/autoreply"
)

// messageSender is the part of *bot.Bot used to deliver replies.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Messenger delivers autoreply texts through the Bot API. Replies to business
// chats are sent on behalf of the connected account.
type Messenger struct {
	sender messageSender
	log    *slog.Logger
}

// NewMessenger returns a Messenger sending through sender, usually a *bot.Bot.
func NewMessenger(sender messageSender, logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messenger{sender: sender, log: logger.With("component", "messenger")}
}

// SendText sends one plain text message to target.
func (m *Messenger) SendText(ctx context.Context, target autoreply.ReplyTarget, text string) error {
	if target.ChatID == 0 {
		return errors.New("reply target has no chat id")
	}
	_, err := m.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:               target.ChatID,
		BusinessConnectionID: target.BusinessConnectionID,
		Text:                 text,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", target.ChatID, err)
	}
	m.log.DebugContext(ctx, "Message sent", "chat_id", target.ChatID, "business", target.BusinessConnectionID != "")
	return nil
}
