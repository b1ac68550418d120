package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")
	if update.Message == nil {
		log.WarnContext(ctx, "Help handler received update without message", "update_id", update.ID)
		return
	}
	log.InfoContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID)
	sendReply(ctx, b, log, update, withBotName(h.deps, h.deps.Config.Messages.Help))
}
