package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewInflightHandler returns a handler for /inflight.
func NewInflightHandler(deps HandlerDeps) bot.HandlerFunc {
	return inflightHandler{deps: deps, now: time.Now}.Handle
}

type inflightHandler struct {
	deps HandlerDeps
	now  func() time.Time
}

func (h inflightHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "inflight")
	sendReply(ctx, b, log, update, h.reply())
}

func (h inflightHandler) reply() string {
	msgs := h.deps.Config.Messages
	entries := h.deps.Dispatcher.Guard().Snapshot()
	if len(entries) == 0 {
		return msgs.InflightEmpty
	}

	now := h.now()
	var sb strings.Builder
	sb.WriteString(msgs.InflightHeader)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d %s for %s\n", e.SenderID, e.State, now.Sub(e.Since).Round(time.Second))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NewReleaseHandler returns a handler for /release <user_id>.
func NewReleaseHandler(deps HandlerDeps) bot.HandlerFunc {
	return releaseHandler{deps}.Handle
}

type releaseHandler struct {
	deps HandlerDeps
}

func (h releaseHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "release")
	sendReply(ctx, b, log, update, h.reply(ctx, update.Message.Text))
}

func (h releaseHandler) reply(ctx context.Context, text string) string {
	msgs := h.deps.Config.Messages
	args := commandArgs(text)
	if len(args) != 1 {
		return msgs.ReleaseUsage
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		return msgs.InvalidUserID
	}
	if !h.deps.Dispatcher.Guard().ForceRelease(userID) {
		return msgs.ReleaseNotFound
	}
	h.deps.Logger.InfoContext(ctx, "Reply guard force released", "sender_id", userID)
	return fmt.Sprintf(msgs.ReleaseDoneFmt, userID)
}
