package autoreply

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/edgard/autoreply/internal/guard"
	"github.com/edgard/autoreply/internal/logger"
	"github.com/edgard/autoreply/internal/responses"
)

const previewLength = 100

// DispatcherDeps holds the collaborators of a Dispatcher.
type DispatcherDeps struct {
	Logger    *slog.Logger
	Engine    *Engine
	Guard     *guard.Store
	Pool      *responses.Pool
	Messenger Messenger
	// Contacts is optional.
	Contacts ContactChecker
}

// DispatcherOptions tunes a Dispatcher.
type DispatcherOptions struct {
	// MaxConcurrent bounds the number of messages handled at once by Submit.
	MaxConcurrent int64
	// ReleaseGuardOnFailure releases a sender's guard when a send fails. When
	// false the sender stays in flight until the guard is force released.
	ReleaseGuardOnFailure bool
	// Rand seeds the reply shuffle. Nil uses the global source.
	Rand *rand.Rand
}

// Dispatcher handles inbound messages: filtering, guarding, deciding and
// sending the shuffled reply sequence.
type Dispatcher struct {
	log              *slog.Logger
	engine           *Engine
	guard            *guard.Store
	pool             *responses.Pool
	messenger        Messenger
	contacts         ContactChecker
	releaseOnFailure bool

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	randMu sync.Mutex
	rng    *rand.Rand
}

// NewDispatcher wires a dispatcher from deps and opts.
func NewDispatcher(deps DispatcherDeps, opts DispatcherOptions) *Dispatcher {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	return &Dispatcher{
		log:              log.With("component", "dispatcher"),
		engine:           deps.Engine,
		guard:            deps.Guard,
		pool:             deps.Pool,
		messenger:        deps.Messenger,
		contacts:         deps.Contacts,
		releaseOnFailure: opts.ReleaseGuardOnFailure,
		sem:              semaphore.NewWeighted(opts.MaxConcurrent),
		rng:              opts.Rand,
	}
}

// Guard returns the guard store shared with admin commands and tasks.
func (d *Dispatcher) Guard() *guard.Store {
	return d.guard
}

// Submit handles msg on its own goroutine once a concurrency slot is free.
// It blocks while all slots are taken and fails only when ctx is done first.
// A submitted message is handled to the end even if ctx is cancelled later.
func (d *Dispatcher) Submit(ctx context.Context, msg *Message) error {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("no dispatch slot available: %w", err)
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)
		d.Handle(context.WithoutCancel(ctx), msg)
	}()
	return nil
}

// Wait blocks until every submitted message has been handled. Submit must not
// be called concurrently with Wait.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Handle processes one inbound message synchronously. Errors are logged here;
// the sender is never told about them.
func (d *Dispatcher) Handle(ctx context.Context, msg *Message) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.ErrorContext(ctx, "Error processing message", "panic", r)
			outcome = OutcomeFailed
		}
	}()

	if msg == nil || !msg.Private || msg.Outgoing || msg.SenderID == 0 {
		return OutcomeIgnored
	}

	log := d.log.With("sender_id", msg.SenderID, "sender_name", msg.DisplayName())

	if msg.KnownContact {
		log.InfoContext(ctx, "Message is from a known contact, skipping")
		return OutcomeKnownContact
	}
	if d.contacts != nil {
		known, err := d.contacts.IsContact(ctx, msg.SenderID)
		if err != nil {
			log.ErrorContext(ctx, "Error processing message", "error", fmt.Errorf("contact lookup: %w", err))
			return OutcomeFailed
		}
		if known {
			log.InfoContext(ctx, "Message is from a known contact, skipping")
			return OutcomeKnownContact
		}
	}

	log.InfoContext(ctx, "New DM", "text_preview", logger.Truncate(msg.Text, previewLength))

	lease, ok := d.guard.TryAcquire(msg.SenderID)
	if !ok {
		log.InfoContext(ctx, "Already replying to user, skipping")
		return OutcomeBusy
	}
	keepGuard := false
	defer func() {
		if !keepGuard {
			lease.Release()
		}
	}()

	trigger, err := d.engine.ShouldAutoreply(ctx, msg.SenderID, msg.Text, d.guard)
	if err != nil {
		log.ErrorContext(ctx, "Error processing message", "error", err)
		return OutcomeFailed
	}
	if !trigger {
		return OutcomeNotTriggered
	}

	lease.MarkSending()
	replies := d.shuffledReplies()
	log.InfoContext(ctx, "Sending autoreply", "count", len(replies))

	for i, text := range replies {
		if err := d.messenger.SendText(ctx, msg.Target, text); err != nil {
			sendErr := &SendError{Index: i, Total: len(replies), Err: err}
			log.ErrorContext(ctx, "Error sending autoreply", "error", sendErr)
			if !d.releaseOnFailure {
				keepGuard = true
				log.WarnContext(ctx, "Reply guard kept after send failure; sender stays in flight until released")
			}
			return OutcomeSendFailed
		}
	}

	log.InfoContext(ctx, "Finished sending autoreplies", "count", len(replies))
	return OutcomeReplied
}

func (d *Dispatcher) shuffledReplies() []string {
	if d.rng == nil {
		return d.pool.Shuffled(nil)
	}
	d.randMu.Lock()
	defer d.randMu.Unlock()
	return d.pool.Shuffled(d.rng)
}
