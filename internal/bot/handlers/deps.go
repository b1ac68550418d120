package handlers

import (
	"log/slog"

	"github.com/edgard/autoreply/internal/autoreply"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/database"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Dispatcher *autoreply.Dispatcher
}
