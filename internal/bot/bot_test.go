package bot

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/autoreply/internal/autoreply"
	"github.com/edgard/autoreply/internal/bot/tasks"
	"github.com/edgard/autoreply/internal/config"
	"github.com/edgard/autoreply/internal/guard"
	"github.com/edgard/autoreply/internal/responses"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingListener struct {
	started chan struct{}
}

func (l blockingListener) Start(ctx context.Context) {
	close(l.started)
	<-ctx.Done()
}

type returningListener struct{}

func (returningListener) Start(context.Context) {}

func newTestScheduler(t *testing.T, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) *Scheduler {
	t.Helper()
	s, err := NewScheduler(discardLogger(), cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

func newTestDispatcher() *autoreply.Dispatcher {
	return autoreply.NewDispatcher(autoreply.DispatcherDeps{Logger: discardLogger(), Guard: guard.New()}, autoreply.DispatcherOptions{})
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	listener := blockingListener{started: make(chan struct{})}
	b := NewBot(discardLogger(), listener, newTestScheduler(t, &config.SchedulerConfig{}, nil), newTestDispatcher())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-listener.started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRunFailsWhenListenerStops(t *testing.T) {
	t.Parallel()

	b := NewBot(discardLogger(), returningListener{}, newTestScheduler(t, &config.SchedulerConfig{}, nil), newTestDispatcher())
	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want listener error")
	}
}

// submittingListener hands a message to the dispatcher while shutting down,
// the way an inline handler does for the last polled update.
type submittingListener struct {
	started    chan struct{}
	dispatcher *autoreply.Dispatcher
	msg        *autoreply.Message
}

func (l submittingListener) Start(ctx context.Context) {
	close(l.started)
	<-ctx.Done()
	_ = l.dispatcher.Submit(context.Background(), l.msg)
}

type slowMessenger struct {
	sent atomic.Int32
}

func (m *slowMessenger) SendText(context.Context, autoreply.ReplyTarget, string) error {
	time.Sleep(20 * time.Millisecond)
	m.sent.Add(1)
	return nil
}

func TestRunWaitsForLastMessage(t *testing.T) {
	t.Parallel()

	pool, err := responses.New([]string{"one", "two"})
	if err != nil {
		t.Fatalf("responses.New() error = %v", err)
	}
	messenger := &slowMessenger{}
	dispatcher := autoreply.NewDispatcher(autoreply.DispatcherDeps{
		Logger:    discardLogger(),
		Engine:    autoreply.NewEngine(autoreply.NewRules([]string{"job"}, nil), nil, discardLogger()),
		Guard:     guard.New(),
		Pool:      pool,
		Messenger: messenger,
	}, autoreply.DispatcherOptions{ReleaseGuardOnFailure: true})

	listener := submittingListener{
		started:    make(chan struct{}),
		dispatcher: dispatcher,
		msg: &autoreply.Message{
			SenderID: 5, Text: "job", Private: true,
			Target: autoreply.ReplyTarget{ChatID: 5},
		},
	}
	b := NewBot(discardLogger(), listener, newTestScheduler(t, &config.SchedulerConfig{}, nil), dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-listener.started
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := messenger.sent.Load(); n != 2 {
		t.Errorf("sent %d replies when Run returned, want 2", n)
	}
}

func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"every_second": func(context.Context) error { runs.Add(1); return nil },
		"disabled":     func(context.Context) error { return nil },
		"no_schedule":  func(context.Context) error { return nil },
		"bad_schedule": func(context.Context) error { return nil },
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"every_second": {Enabled: true, Schedule: "* * * * * *"},
		"disabled":     {Enabled: false, Schedule: "* * * * * *"},
		"no_schedule":  {Enabled: true},
		"bad_schedule": {Enabled: true, Schedule: "not a cron"},
		"unregistered": {Enabled: true, Schedule: "* * * * * *"},
	}}

	s := newTestScheduler(t, cfg, taskMap)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() error = nil")
	}

	if jobs := s.Jobs(); !slices.Equal(jobs, []string{"every_second"}) {
		t.Errorf("Jobs() = %v, want [every_second]", jobs)
	}

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Error("scheduled task never ran")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
