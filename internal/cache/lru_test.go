package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](10, time.Minute).WithClock(clock.now)
	c.Set("milch", "Milch 1L")
	c.Set("brot", "Brot")

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("brot", "Vollkornbrot")
	clock.t = clock.t.Add(45 * time.Second)

	if _, ok := c.Get("milch"); ok {
		t.Error("milch should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired() = %d, want 0", n)
	}
	if v, ok := c.Get("brot"); !ok || v != "Vollkornbrot" {
		t.Errorf("Get(brot) = %q, %v", v, ok)
	}

	clock.t = clock.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
}

func TestManagerSweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	a := NewLRUCache[int](4, time.Second).WithClock(clock.now)
	b := NewLRUCache[int](4, time.Hour).WithClock(clock.now)
	a.Set("x", 1)
	b.Set("y", 2)

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)
	clock.t = clock.t.Add(time.Minute)

	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	m.Stop()
	m.StartCleanup(time.Hour)
	m.Stop()
}
