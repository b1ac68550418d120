// Package telegram creates the Bot API client, registers handlers on it and
// adapts it to the autoreply Messenger.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/edgard/autoreply/internal/bot/handlers"
	"github.com/edgard/autoreply/internal/logger"
)

// AllowedUpdates are the update kinds the bot subscribes to.
var AllowedUpdates = bot.AllowedUpdates{
	"message",
	"business_connection",
	"business_message",
}

// BotOptions returns the options the bot runs with. defaultHandler receives
// every update no registered handler matches. Handlers run on the polling
// worker, so Start returns only after the last update was handled.
func BotOptions(log *slog.Logger, defaultHandler bot.HandlerFunc) []bot.Option {
	return []bot.Option{
		bot.WithMiddlewares(logger.Middleware(log)),
		bot.WithDefaultHandler(defaultHandler),
		bot.WithAllowedUpdates(AllowedUpdates),
		bot.WithNotAsyncHandlers(),
		bot.WithErrorsHandler(func(err error) {
			log.Warn("Telegram polling error", "error", err)
		}),
	}
}

// NewTelegramBot creates a go-telegram/bot instance.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// applyMiddleware wraps handler so that mw[0] is the outermost middleware.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// handlerRegistrar is the part of *bot.Bot used for registration.
type handlerRegistrar interface {
	RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, f bot.HandlerFunc, m ...bot.Middleware) string
}

// RegisterHandlers registers every handler in registeredHandlers on b.
func RegisterHandlers(b handlerRegistrar, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration")
		return nil
	}

	registered := 0
	for name, regHandler := range registeredHandlers {
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}

		finalHandler := applyMiddleware(regHandler.Handler, regHandler.Middleware)
		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, finalHandler)
		registered++
		log.Debug("Registered handler", "name", name, "pattern", regHandler.Pattern, "middleware_count", len(regHandler.Middleware))
	}

	log.Info("Registered Telegram handlers", "count", registered)
	return nil
}
