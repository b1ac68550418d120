package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/autoreply/internal/database"
)

// NewTrustHandler returns a handler for /trust <user_id> [note].
func NewTrustHandler(deps HandlerDeps) bot.HandlerFunc {
	return trustHandler{deps}.Handle
}

type trustHandler struct {
	deps HandlerDeps
}

func (h trustHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "trust")
	sendReply(ctx, b, log, update, h.reply(ctx, update.Message.Text))
}

func (h trustHandler) reply(ctx context.Context, text string) string {
	msgs := h.deps.Config.Messages
	args := commandArgs(text)
	if len(args) == 0 {
		return msgs.TrustUsage
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		return msgs.InvalidUserID
	}

	contact := &database.Contact{UserID: userID, Note: strings.Join(args[1:], " ")}
	if err := h.deps.Store.AddContact(ctx, contact); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to add contact", "user_id", userID, "error", err)
		return msgs.GeneralError
	}
	h.deps.Logger.InfoContext(ctx, "Contact added", "user_id", userID)
	return fmt.Sprintf(msgs.TrustDoneFmt, userID)
}

// NewUntrustHandler returns a handler for /untrust <user_id>.
func NewUntrustHandler(deps HandlerDeps) bot.HandlerFunc {
	return untrustHandler{deps}.Handle
}

type untrustHandler struct {
	deps HandlerDeps
}

func (h untrustHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "untrust")
	sendReply(ctx, b, log, update, h.reply(ctx, update.Message.Text))
}

func (h untrustHandler) reply(ctx context.Context, text string) string {
	msgs := h.deps.Config.Messages
	args := commandArgs(text)
	if len(args) != 1 {
		return msgs.UntrustUsage
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		return msgs.InvalidUserID
	}

	removed, err := h.deps.Store.RemoveContact(ctx, userID)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to remove contact", "user_id", userID, "error", err)
		return msgs.GeneralError
	}
	if !removed {
		return msgs.UntrustNotFound
	}
	h.deps.Logger.InfoContext(ctx, "Contact removed", "user_id", userID)
	return fmt.Sprintf(msgs.UntrustDoneFmt, userID)
}

// NewTrustedHandler returns a handler for /trusted.
func NewTrustedHandler(deps HandlerDeps) bot.HandlerFunc {
	return trustedHandler{deps}.Handle
}

type trustedHandler struct {
	deps HandlerDeps
}

func (h trustedHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "trusted")
	sendReply(ctx, b, log, update, h.reply(ctx))
}

func (h trustedHandler) reply(ctx context.Context) string {
	msgs := h.deps.Config.Messages
	contacts, err := h.deps.Store.ListContacts(ctx)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to list contacts", "error", err)
		return msgs.GeneralError
	}
	if len(contacts) == 0 {
		return msgs.NoContacts
	}

	var sb strings.Builder
	sb.WriteString(msgs.ContactsHeader)
	for _, c := range contacts {
		fmt.Fprintf(&sb, "%d", c.UserID)
		if c.Note != "" {
			fmt.Fprintf(&sb, " (%s)", c.Note)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
