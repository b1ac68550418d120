// Package tasks implements the scheduled maintenance tasks.
package tasks

import (
	"log/slog"

	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/guard"
)

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Guard  *guard.Store
	Config *config.Config
}
