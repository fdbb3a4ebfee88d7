package rate

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock *fakeClock) *MemoryLimiter {
	return NewMemoryLimiter(MemoryConfig{IdleEvictAfter: time.Hour}, clock.Now)
}

func TestMemoryAllowUpToLimitThenDeny(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}

	ok, err := l.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if ok {
		t.Fatal("4th attempt within the window must be denied")
	}
}

func TestMemoryWindowSlides(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow(ctx, "id", 3, time.Minute); !ok {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}
	if ok, _ := l.Allow(ctx, "id", 3, time.Minute); ok {
		t.Fatal("expected denial at the limit")
	}

	// Once the earliest attempts age out, capacity returns.
	clock.advance(61 * time.Second)
	if ok, _ := l.Allow(ctx, "id", 3, time.Minute); !ok {
		t.Fatal("attempt after window expiry should be admitted")
	}
}

func TestMemoryDeniedAttemptNotRecorded(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		l.Allow(ctx, "id", 3, time.Minute)
	}
	// Hammer the denied path; it must not extend the window.
	for i := 0; i < 10; i++ {
		l.Allow(ctx, "id", 3, time.Minute)
	}

	clock.advance(61 * time.Second)
	if ok, _ := l.Allow(ctx, "id", 3, time.Minute); !ok {
		t.Fatal("denied attempts must not count against the window")
	}
}

func TestMemoryIdentifiersAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		l.Allow(ctx, "a", 3, time.Minute)
	}
	if ok, _ := l.Allow(ctx, "a", 3, time.Minute); ok {
		t.Fatal("identifier a should be limited")
	}
	if ok, _ := l.Allow(ctx, "b", 3, time.Minute); !ok {
		t.Fatal("identifier b must be unaffected")
	}
}

func TestMemorySweepEvictsIdleEntries(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewMemoryLimiter(MemoryConfig{IdleEvictAfter: 10 * time.Minute}, clock.Now)
	defer l.Close()

	ctx := context.Background()
	l.Allow(ctx, "stale", 3, time.Minute)
	clock.advance(5 * time.Minute)
	l.Allow(ctx, "fresh", 3, time.Minute)

	clock.advance(6 * time.Minute)
	l.Sweep()

	if got := l.Len(); got != 1 {
		t.Fatalf("Len = %d after sweep, want 1", got)
	}
}

func TestMemoryConcurrentAllowRespectsLimit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	defer l.Close()

	const limit = 10
	const attempts = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Allow(context.Background(), "shared", limit, time.Minute)
			if err != nil {
				t.Errorf("Allow failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Fatalf("admitted = %d, want exactly %d", admitted, limit)
	}
}

func TestMemoryCloseIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewMemoryLimiter(MemoryConfig{SweepInterval: time.Millisecond, IdleEvictAfter: time.Minute}, clock.Now)
	l.Close()
	l.Close()
}
