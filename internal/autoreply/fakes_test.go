package autoreply

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClassifier struct {
	mu      sync.Mutex
	verdict bool
	err     error
	calls   int
	texts   []string
	// block, when set, is waited on before returning.
	block chan struct{}
	// entered is signalled when Classify starts.
	entered chan struct{}
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.texts = append(f.texts, text)
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return f.verdict, f.err
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type sentMessage struct {
	target ReplyTarget
	text   string
}

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []sentMessage
	attempts int
	// failAt makes the attempt with this zero-based index fail; -1 never fails.
	failAt int
	// panicAt makes the attempt with this index panic; -1 never panics.
	panicAt int
	// onSend runs at the start of every attempt.
	onSend func(index int, text string)
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failAt: -1, panicAt: -1}
}

var errSendFailed = errors.New("telegram: flood wait")

func (f *fakeMessenger) SendText(ctx context.Context, target ReplyTarget, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	index := f.attempts
	f.attempts++
	onSend, failAt, panicAt := f.onSend, f.failAt, f.panicAt
	f.mu.Unlock()

	if onSend != nil {
		onSend(index, text)
	}
	if index == panicAt {
		panic("messenger exploded")
	}
	if index == failAt {
		return errSendFailed
	}

	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{target: target, text: text})
	f.mu.Unlock()
	return nil
}

func (f *fakeMessenger) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeContacts struct {
	known map[int64]bool
	err   error
}

func (f fakeContacts) IsContact(_ context.Context, userID int64) (bool, error) {
	return f.known[userID], f.err
}

type setInFlight map[int64]bool

func (s setInFlight) Contains(id int64) bool { return s[id] }
