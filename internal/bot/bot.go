// Package bot runs the Telegram listener, the scheduler and the reply
// dispatcher together and shuts them down in order.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/autoreply/internal/autoreply"
)

// Listener receives updates until ctx is cancelled. *bot.Bot implements it.
type Listener interface {
	Start(ctx context.Context)
}

// Bot owns the running components.
type Bot struct {
	logger     *slog.Logger
	listener   Listener
	scheduler  *Scheduler
	dispatcher *autoreply.Dispatcher
}

// NewBot wires the orchestrator.
func NewBot(logger *slog.Logger, listener Listener, scheduler *Scheduler, dispatcher *autoreply.Dispatcher) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:     logger.With("component", "bot_orchestrator"),
		listener:   listener,
		scheduler:  scheduler,
		dispatcher: dispatcher,
	}
}

// Run blocks until ctx is cancelled or a component fails. Before returning
// it waits for reply sequences already in progress.
func (b *Bot) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram listener")
		b.listener.Start(gCtx)
		b.logger.Info("Telegram listener stopped")

		if gCtx.Err() == nil {
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()

	b.logger.Info("Waiting for in-flight reply sequences")
	b.dispatcher.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot stopped due to error", "error", err)
		return err
	}
	b.logger.Info("Bot stopped gracefully")
	return nil
}
