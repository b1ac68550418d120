package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/autoreply"
)

// NewAutoreplyHandler returns the handler that feeds direct and business
// messages to the dispatcher. It is the bot's default handler, so it also sees
// every update no command handler took.
func NewAutoreplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return autoreplyHandler{deps}.Handle
}

type autoreplyHandler struct {
	deps HandlerDeps
}

func (h autoreplyHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if c := update.BusinessConnection; c != nil {
		h.deps.Logger.InfoContext(ctx, "Business connection updated",
			"connection_id", c.ID, "user_id", c.User.ID, "enabled", c.IsEnabled)
		return
	}
	msg := ToMessage(update)
	if msg == nil {
		h.deps.Logger.DebugContext(ctx, "Ignoring update without a message", "update_id", update.ID)
		return
	}
	if err := h.deps.Dispatcher.Submit(ctx, msg); err != nil {
		h.deps.Logger.WarnContext(ctx, "Dropping message", "sender_id", msg.SenderID, "error", err)
	}
}

// ToMessage converts a message or business message update. It returns nil
// for any other update.
func ToMessage(update *models.Update) *autoreply.Message {
	if update == nil {
		return nil
	}
	m := update.Message
	if m == nil {
		m = update.BusinessMessage
	}
	if m == nil {
		return nil
	}

	msg := &autoreply.Message{
		Text:    m.Text,
		Private: m.Chat.Type == models.ChatTypePrivate,
		// In a private chat the peer's id equals the chat id; anything else
		// was written by this side of the conversation.
		Outgoing: m.From == nil || m.From.ID != m.Chat.ID,
		Target: autoreply.ReplyTarget{
			ChatID:               m.Chat.ID,
			BusinessConnectionID: m.BusinessConnectionID,
		},
	}
	if msg.Text == "" {
		msg.Text = m.Caption
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.SenderName = displayName(m.From)
	}
	return msg
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
