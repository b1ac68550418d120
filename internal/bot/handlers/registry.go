package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler describes how one handler is registered on the bot.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the owner commands. Commands are owner-only;
// from anyone else they go to the autoreply handler as ordinary messages.
// Everything else reaches the autoreply handler as the bot's default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	ownerOnly := []tgbot.Middleware{AdminOnly(deps, NewAutoreplyHandler(deps))}

	commands := map[string]tgbot.HandlerFunc{
		"start":    NewStartHandler(deps),
		"help":     NewHelpHandler(deps),
		"trust":    NewTrustHandler(deps),
		"untrust":  NewUntrustHandler(deps),
		"trusted":  NewTrustedHandler(deps),
		"inflight": NewInflightHandler(deps),
		"release":  NewReleaseHandler(deps),
	}

	handlers := make(map[string]RegisteredHandler, len(commands))
	for name, h := range commands {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  ownerOnly,
		}
	}
	return handlers
}
