package guard

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTryAcquireIsExclusive(t *testing.T) {
	t.Parallel()

	s := New()
	lease, ok := s.TryAcquire(222)
	if !ok || lease == nil {
		t.Fatal("first TryAcquire failed")
	}
	if _, ok := s.TryAcquire(222); ok {
		t.Fatal("second TryAcquire for the same sender succeeded")
	}
	if _, ok := s.TryAcquire(333); !ok {
		t.Fatal("TryAcquire for a different sender failed")
	}

	lease.Release()
	if _, ok := s.TryAcquire(222); !ok {
		t.Fatal("TryAcquire after Release failed")
	}
}

func TestContainsOnlyWhileSending(t *testing.T) {
	t.Parallel()

	s := New()
	lease, _ := s.TryAcquire(222)

	if s.Contains(222) {
		t.Error("Contains() = true for a reserved sender")
	}
	if !s.Held(222) {
		t.Error("Held() = false for a reserved sender")
	}

	lease.MarkSending()
	if !s.Contains(222) {
		t.Error("Contains() = false after MarkSending")
	}

	lease.Release()
	if s.Contains(222) || s.Held(222) {
		t.Error("guard still present after Release")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	s := New()
	lease, _ := s.TryAcquire(1)
	lease.Release()

	next, ok := s.TryAcquire(1)
	if !ok {
		t.Fatal("TryAcquire after Release failed")
	}
	lease.Release()
	if !s.Held(1) {
		t.Fatal("repeated Release of an old lease dropped the new holder")
	}
	next.Release()
}

func TestForceReleaseInvalidatesOldLease(t *testing.T) {
	t.Parallel()

	s := New()
	stuck, _ := s.TryAcquire(555)
	stuck.MarkSending()

	if !s.ForceRelease(555) {
		t.Fatal("ForceRelease() = false for a held guard")
	}
	if s.ForceRelease(555) {
		t.Fatal("ForceRelease() = true for a free sender")
	}

	fresh, ok := s.TryAcquire(555)
	if !ok {
		t.Fatal("TryAcquire after ForceRelease failed")
	}

	stuck.MarkSending()
	if s.Contains(555) {
		t.Error("stale lease changed the new holder's state")
	}
	stuck.Release()
	if !s.Held(555) {
		t.Error("stale lease released the new holder")
	}
	fresh.Release()
}

func TestConcurrentTryAcquire(t *testing.T) {
	t.Parallel()

	s := New()
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		start   = make(chan struct{})
	)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := s.TryAcquire(777); ok {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Fatalf("%d goroutines acquired the same sender, want 1", got)
	}
}

func TestSnapshotAndStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	old, _ := s.TryAcquire(30)
	old.MarkSending()

	now = now.Add(20 * time.Minute)
	_, _ = s.TryAcquire(10)

	want := []Entry{
		{SenderID: 10, State: StateReserved, Since: now},
		{SenderID: 30, State: StateSending, Since: now.Add(-20 * time.Minute)},
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}

	stale := s.Stale(10 * time.Minute)
	if len(stale) != 1 || stale[0].SenderID != 30 {
		t.Errorf("Stale() = %+v, want only sender 30", stale)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if StateReserved.String() != "reserved" || StateSending.String() != "sending" || State(0).String() != "unknown" {
		t.Error("unexpected State.String values")
	}
}
