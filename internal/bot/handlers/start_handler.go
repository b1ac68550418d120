package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")
	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update without message", "update_id", update.ID)
		return
	}
	log.InfoContext(ctx, "Handling /start command", "chat_id", update.Message.Chat.ID)
	sendReply(ctx, b, log, update, withBotName(h.deps, h.deps.Config.Messages.Welcome))
}

// withBotName substitutes @botname with the running bot's username.
func withBotName(deps HandlerDeps, text string) string {
	info := deps.Config.Telegram.BotInfo
	if info == nil || info.Username == "" {
		return text
	}
	return strings.ReplaceAll(text, "@botname", "@"+info.Username)
}
