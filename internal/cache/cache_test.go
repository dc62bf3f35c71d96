package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestManagerSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	first := NewLRUCache[string](10, time.Second, clock)
	second := NewLRUCache[int](10, time.Hour, clock)

	first.Set("a", "1")
	first.Set("b", "2")
	second.Set("c", 3)
	clock.Advance(2 * time.Second)

	m := NewManager(nil)
	m.Register(first)
	m.Register(second)

	if removed := m.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if second.Size() != 1 {
		t.Fatalf("long-lived cache should keep its entry")
	}
}

func TestManagerStartRejectsBadSchedule(t *testing.T) {
	m := NewManager(nil)
	if err := m.Start("not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(nil)
	if err := m.Start("@every 1h"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Stop()
}
