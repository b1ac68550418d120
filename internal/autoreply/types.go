// Package autoreply decides whether an inbound private message gets the
// canned reply sequence and sends it.
package autoreply

import (
	"context"
	"errors"
	"fmt"
)

// Message is the platform independent view of an inbound message.
type Message struct {
	SenderID   int64
	SenderName string
	Text       string

	// Private is true for one-to-one chats.
	Private bool
	// Outgoing is true when the message was sent by the account itself.
	Outgoing bool
	// KnownContact is set when the platform already knows the sender.
	KnownContact bool

	Target ReplyTarget
}

// DisplayName returns the sender name or "Unknown".
func (m *Message) DisplayName() string {
	if m.SenderName == "" {
		return "Unknown"
	}
	return m.SenderName
}

// ReplyTarget tells the messenger where replies go.
type ReplyTarget struct {
	ChatID int64
	// BusinessConnectionID routes the reply through a business connection so it
	// is sent on behalf of the connected account. Empty for direct chats.
	BusinessConnectionID string
}

// Messenger sends a single text message.
type Messenger interface {
	SendText(ctx context.Context, target ReplyTarget, text string) error
}

// Classifier returns the remote scam verdict for a message text.
type Classifier interface {
	Classify(ctx context.Context, text string) (bool, error)
}

// InFlight reports senders that currently receive a reply sequence.
type InFlight interface {
	Contains(senderID int64) bool
}

// ContactChecker reports senders the owner marked as known contacts.
type ContactChecker interface {
	IsContact(ctx context.Context, userID int64) (bool, error)
}

// ErrSend is matched by every *SendError.
var ErrSend = errors.New("send failed")

// SendError reports which reply of a sequence could not be sent.
type SendError struct {
	Index int
	Total int
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %d of %d failed: %v", e.Index+1, e.Total, e.Err)
}

// Unwrap exposes ErrSend and the messenger error.
func (e *SendError) Unwrap() []error {
	return []error{ErrSend, e.Err}
}

// Outcome is the result of handling one message.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeKnownContact
	OutcomeBusy
	OutcomeNotTriggered
	OutcomeReplied
	OutcomeSendFailed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeKnownContact:
		return "known_contact"
	case OutcomeBusy:
		return "busy"
	case OutcomeNotTriggered:
		return "not_triggered"
	case OutcomeReplied:
		return "replied"
	case OutcomeSendFailed:
		return "send_failed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}
