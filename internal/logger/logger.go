// Package logger configures slog for the bot and provides the update logging
// middleware.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// TelegramAttr forces a record to the Telegram sink regardless of level.
const TelegramAttr = "telegram"

// Options selects the log level, the output format and the optional Telegram
// sink that receives errors.
type Options struct {
	Level  string
	Format string

	TelegramToken  string
	TelegramChatID string

	// Output defaults to os.Stdout.
	Output io.Writer
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the logger described by opts and installs it as the slog
// default.
func NewLogger(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if opts.Format == "text" {
		handler = console.NewHandler(out, &console.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	if opts.TelegramToken != "" && opts.TelegramChatID != "" {
		handler = slogmulti.Router().
			Add(handler).
			Add(
				slogtelegram.Option{
					Level:     slog.LevelWarn,
					Token:     opts.TelegramToken,
					Username:  opts.TelegramChatID,
					AddSource: true,
				}.NewTelegramHandler(),
				forwardToTelegram,
			).
			Handler()
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// forwardToTelegram passes errors and records tagged with TelegramAttr.
func forwardToTelegram(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}
	tagged := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == TelegramAttr {
			tagged = true
			return false
		}
		return true
	})
	return tagged
}

// Middleware logs every update before and after it is handled.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			logEntry := log.With("update_id", update.ID)

			updateType := "other"
			msg := update.Message
			switch {
			case update.Message != nil:
				updateType = "message"
			case update.BusinessMessage != nil:
				updateType = "business_message"
				msg = update.BusinessMessage
			case update.BusinessConnection != nil:
				updateType = "business_connection"
				logEntry = logEntry.With(
					"connection_id", update.BusinessConnection.ID,
					"user_id", update.BusinessConnection.User.ID,
					"enabled", update.BusinessConnection.IsEnabled,
				)
			}

			if msg != nil {
				var userID int64
				if msg.From != nil {
					userID = msg.From.ID
				}
				logEntry = logEntry.With(
					"message_id", msg.ID,
					"chat_id", msg.Chat.ID,
					"user_id", userID,
					"text_preview", Truncate(msg.Text, 50),
				)
			}
			logEntry = logEntry.With("update_type", updateType)

			logEntry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// Truncate shortens s to at most maxLen runes, ending it with "..." when cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
