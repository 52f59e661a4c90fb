package session

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
)

func TestReaperSweep(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))
	cfg := ReaperConfig{Threshold: 10 * time.Minute, Interval: time.Minute}
	reaper := NewReaper(r, testCatalog(t), cfg, nil)

	stale := r.Open(scorecard.Meta{})
	r.Bind(stale, "old")
	clock.Advance(5 * time.Minute)
	fresh := r.Open(scorecard.Meta{})
	r.Bind(fresh, "new")

	clock.Advance(5 * time.Minute)
	closed := reaper.Sweep()

	if len(closed) != 1 {
		t.Fatalf("Expected 1 closed scorecard, got %d", len(closed))
	}
	if closed[0].Report.CardID != stale {
		t.Errorf("Expected %s closed, got %s", stale, closed[0].Report.CardID)
	}
	if closed[0].Reason != ReasonIdle {
		t.Errorf("Expected reason %q, got %q", ReasonIdle, closed[0].Reason)
	}
	if len(closed[0].SessionIDs) != 1 || closed[0].SessionIDs[0] != "old" {
		t.Errorf("Expected detached [old], got %v", closed[0].SessionIDs)
	}
	if _, err := r.Get(fresh, InternalAccess); err != nil {
		t.Errorf("Fresh card should stay open, got %v", err)
	}
	if _, ok := r.CardFor("old"); ok {
		t.Error("Session of reaped card should be detached")
	}
}

func TestReaperSkipsCardRevivedBeforeClose(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))
	id := r.Open(scorecard.Meta{})
	r.Bind(id, "g1")

	clock.Advance(time.Hour)
	if ids := r.ListIdle(time.Minute); len(ids) != 1 {
		t.Fatalf("Expected card idle, got %v", ids)
	}
	record(t, r, reset("bt11", "g1"))

	if _, ok := r.closeIdle(id, time.Minute, testCatalog(t)); ok {
		t.Error("Card with fresh activity must not be reaped")
	}
	if r.Count() != 1 {
		t.Error("Card should still be open")
	}
}

func TestReaperStartStop(t *testing.T) {
	var mu sync.Mutex
	got := make(chan Closed, 1)
	r := NewRegistry(WithClosedHandler(ClosedHandlerFunc(func(c Closed) error {
		mu.Lock()
		defer mu.Unlock()
		select {
		case got <- c:
		default:
		}
		return nil
	})))
	id := r.Open(scorecard.Meta{})

	reaper := NewReaper(r, testCatalog(t), ReaperConfig{Threshold: time.Nanosecond, Interval: 5 * time.Millisecond}, nil)
	reaper.Start()
	defer reaper.Stop()

	select {
	case c := <-got:
		if c.Report.CardID != id {
			t.Errorf("Expected %s reaped, got %s", id, c.Report.CardID)
		}
		if c.Reason != ReasonIdle {
			t.Errorf("Expected reason %q, got %q", ReasonIdle, c.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Reaper did not close the idle scorecard")
	}

	reaper.Stop()
	reaper.Stop()
}

func TestDefaultReaperConfig(t *testing.T) {
	cfg := DefaultReaperConfig()
	if cfg.Threshold != 15*time.Minute {
		t.Errorf("Expected 15m threshold, got %v", cfg.Threshold)
	}
	if cfg.Interval != time.Minute {
		t.Errorf("Expected 1m interval, got %v", cfg.Interval)
	}

	reaper := NewReaper(NewRegistry(), testCatalog(t), ReaperConfig{}, nil)
	if reaper.config != cfg {
		t.Errorf("Zero config should fall back to defaults, got %+v", reaper.config)
	}
}
