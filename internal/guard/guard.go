// Package guard tracks which senders currently have a reply sequence in
// progress. Every trigger path goes through TryAcquire, so at most one reply
// sequence per sender can exist at any time.
package guard

import (
	"sort"
	"sync"
	"time"
)

// State describes what a held guard is doing.
type State int

const (
	// StateReserved means the sender's message is being evaluated.
	StateReserved State = iota + 1
	// StateSending means replies are being sent to the sender.
	StateSending
)

func (s State) String() string {
	switch s {
	case StateReserved:
		return "reserved"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Entry is a point-in-time view of one held guard.
type Entry struct {
	SenderID int64
	State    State
	Since    time.Time
}

type entry struct {
	token uint64
	state State
	since time.Time
}

// Store is a mutex protected map of sender id to guard entry. The zero value
// is not usable; use New.
type Store struct {
	mu      sync.Mutex
	entries map[int64]entry
	next    uint64
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		entries: make(map[int64]entry),
		now:     time.Now,
	}
}

// TryAcquire reserves senderID. It returns false without blocking when the
// sender is already reserved or sending.
func (s *Store) TryAcquire(senderID int64) (*Lease, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.entries[senderID]; held {
		return nil, false
	}
	s.next++
	s.entries[senderID] = entry{token: s.next, state: StateReserved, since: s.now()}
	return &Lease{store: s, senderID: senderID, token: s.next}, true
}

// Contains reports whether a reply sequence is actively being sent to
// senderID. Reserved senders are not in flight yet.
func (s *Store) Contains(senderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[senderID]
	return ok && e.state == StateSending
}

// Held reports whether senderID has any guard, reserved or sending.
func (s *Store) Held(senderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[senderID]
	return ok
}

// Len returns the number of held guards.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns all held guards ordered by sender id.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	out := make([]Entry, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Entry{SenderID: id, State: e.state, Since: e.since})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SenderID < out[j].SenderID })
	return out
}

// Stale returns the guards held for longer than age.
func (s *Store) Stale(age time.Duration) []Entry {
	cutoff := s.now().Add(-age)
	var out []Entry
	for _, e := range s.Snapshot() {
		if e.Since.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// ForceRelease drops the guard for senderID regardless of who holds it. A
// lease for the dropped entry becomes a no-op. It reports whether a guard was
// held.
func (s *Store) ForceRelease(senderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[senderID]; !ok {
		return false
	}
	delete(s.entries, senderID)
	return true
}

// Lease is the handle returned by TryAcquire. Its methods only affect the
// entry it created, so a lease outliving a ForceRelease cannot clobber a newer
// holder.
type Lease struct {
	store    *Store
	senderID int64
	token    uint64

	once sync.Once
}

// SenderID returns the guarded sender.
func (l *Lease) SenderID() int64 {
	return l.senderID
}

// MarkSending moves the entry to StateSending. Call it right before the
// first send.
func (l *Lease) MarkSending() {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[l.senderID]; ok && e.token == l.token {
		e.state = StateSending
		e.since = s.now()
		s.entries[l.senderID] = e
	}
}

// Release drops the entry. It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		s := l.store
		s.mu.Lock()
		defer s.mu.Unlock()

		if e, ok := s.entries[l.senderID]; ok && e.token == l.token {
			delete(s.entries, l.senderID)
		}
	})
}
