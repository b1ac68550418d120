// Package handlers contains the Telegram update handlers, their registration
// and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly lets only the configured owner reach the wrapped command. Anyone
// else is handed to fallback as an ordinary message, so strangers never learn
// that commands exist. A nil fallback drops the update.
func AdminOnly(deps HandlerDeps, fallback tgbot.HandlerFunc) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if isAdmin(deps, update) {
				next(ctx, bot, update)
				return
			}
			if fallback != nil {
				fallback(ctx, bot, update)
			}
		}
	}
}

func isAdmin(deps HandlerDeps, update *models.Update) bool {
	adminID := deps.Config.Telegram.AdminUserID
	if adminID == 0 || update.Message == nil || update.Message.From == nil {
		return false
	}
	return update.Message.From.ID == adminID
}
