package main

import (
	"context"
	"log/slog"
	"slices"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/edgard/autoreply/internal/autoreply"
	"github.com/edgard/autoreply/internal/bot"
	"github.com/edgard/autoreply/internal/bot/handlers"
	"github.com/edgard/autoreply/internal/bot/tasks"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/gemini"
	"github.com/edgard/autoreply/internal/guard"
	"github.com/edgard/autoreply/internal/logger"
	"github.com/edgard/autoreply/internal/responses"
	"github.com/edgard/autoreply/internal/telegram"
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and reply until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), *configPath)
		},
	}
}

// setup loads configuration and builds the logger, the reply pool and the
// decision engine shared by every subcommand.
func setup(ctx context.Context, configPath string) (*config.Config, *slog.Logger, *autoreply.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return nil, nil, nil, err
	}

	log := logger.NewLogger(logger.Options{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		TelegramToken:  cfg.Telegram.Token,
		TelegramChatID: cfg.Logger.TelegramChatID,
	})

	classifier, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		return nil, nil, nil, oops.In("startup").Wrapf(err, "failed to initialize Gemini client")
	}

	excluded := slices.Clone(cfg.Autoreply.ExcludeUserIDs)
	if cfg.Telegram.AdminUserID != 0 {
		excluded = append(excluded, cfg.Telegram.AdminUserID)
	}
	engine := autoreply.NewEngine(autoreply.NewRules(cfg.Autoreply.TriggerKeywords, excluded), classifier, log)

	return cfg, log, engine, nil
}

func runBot(ctx context.Context, configPath string) error {
	cfg, log, engine, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	errb := oops.In("startup")

	pool, err := responses.Load(cfg.Responses.File, cfg.Responses.Messages)
	if err != nil {
		log.Error("Failed to load responses", "file", cfg.Responses.File, "error", err)
		return errb.With("file", cfg.Responses.File).Wrap(err)
	}
	log.Info("Responses loaded", "count", pool.Len())

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return errb.With("path", cfg.Database.Path).Wrap(err)
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// The bot takes its default handler at construction while the dispatcher
	// needs the bot to send; the handler is bound before polling starts.
	var autoreplyHandler tgbot.HandlerFunc
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, telegram.BotOptions(log,
		func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			autoreplyHandler(ctx, b, update)
		})...)
	if err != nil {
		return errb.Wrap(err)
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return errb.Wrapf(err, "getMe")
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	dispatcher := autoreply.NewDispatcher(autoreply.DispatcherDeps{
		Logger:    log,
		Engine:    engine,
		Guard:     guard.New(),
		Pool:      pool,
		Messenger: telegram.NewMessenger(tg, log),
		Contacts:  store,
	}, autoreply.DispatcherOptions{
		MaxConcurrent:         int64(cfg.Dispatch.MaxConcurrent),
		ReleaseGuardOnFailure: cfg.Dispatch.ReleaseGuardOnFailure,
	})

	hDeps := handlers.HandlerDeps{Logger: log, Config: cfg, Store: store, Dispatcher: dispatcher}
	autoreplyHandler = handlers.NewAutoreplyHandler(hDeps)
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		return errb.Wrap(err)
	}

	tDeps := tasks.TaskDeps{Logger: log, Store: store, Guard: dispatcher.Guard(), Config: cfg}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		return errb.Wrap(err)
	}

	log.Info("Starting autoreply",
		"keywords", len(cfg.Autoreply.TriggerKeywords),
		"excluded_users", len(cfg.Autoreply.ExcludeUserIDs),
		"responses", pool.Len())

	if err := bot.NewBot(log, tg, sched, dispatcher).Run(ctx); err != nil {
		return err
	}

	if cfg.Logger.TelegramChatID != "" {
		// slog-telegram sends asynchronously; give the last records a moment.
		time.Sleep(time.Second)
	}
	return nil
}
