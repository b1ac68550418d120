package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var errInvalidUserID = errors.New("invalid user id")

// sendReply answers the chat update came from.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Reply sent", "chat_id", chatID)
}

// commandArgs returns the whitespace separated arguments after the command.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidUserID, raw)
	}
	return id, nil
}
