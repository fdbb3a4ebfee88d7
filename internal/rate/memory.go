package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig tunes the in-process limiter's garbage collection.
type MemoryConfig struct {
	// SweepInterval is how often idle identifier entries are scanned for
	// eviction. Zero disables the sweeper.
	SweepInterval time.Duration
	// IdleEvictAfter is the inactivity threshold for dropping an entry.
	IdleEvictAfter time.Duration
}

type windowEntry struct {
	mu       sync.Mutex
	attempts []time.Time
	lastSeen time.Time
}

// MemoryLimiter keeps one attempt log per identifier in a process-wide map.
// Map access is guarded by a read-write mutex; each entry carries its own
// mutex so checks for distinct identifiers do not serialize.
type MemoryLimiter struct {
	cfg     MemoryConfig
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]*windowEntry

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMemoryLimiter creates the limiter and, when configured, starts the
// idle-entry sweeper. A nil now falls back to [time.Now].
func NewMemoryLimiter(cfg MemoryConfig, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	l := &MemoryLimiter{
		cfg:     cfg,
		now:     now,
		entries: make(map[string]*windowEntry),
		done:    make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		l.wg.Add(1)
		go l.sweepLoop()
	}

	return l
}

// Allow evicts expired attempts for the identifier, denies when the
// remaining count has reached maxAttempts, and otherwise records now and
// admits. The in-memory limiter never fails; the error is always nil.
func (l *MemoryLimiter) Allow(_ context.Context, identifier string, maxAttempts int, window time.Duration) (bool, error) {
	now := l.now()
	e := l.entry(identifier)

	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := now.Add(-window)
	kept := e.attempts[:0]
	for _, t := range e.attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	e.attempts = kept
	e.lastSeen = now

	if len(e.attempts) >= maxAttempts {
		return false, nil
	}

	e.attempts = append(e.attempts, now)
	return true, nil
}

// Close stops the sweeper goroutine.
func (l *MemoryLimiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}

// Len reports the number of tracked identifiers. Exposed for sweep tests.
func (l *MemoryLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Sweep drops entries idle longer than the eviction threshold. Called
// periodically by the sweeper; exported for deterministic tests.
func (l *MemoryLimiter) Sweep() {
	threshold := l.cfg.IdleEvictAfter
	if threshold <= 0 {
		return
	}
	cutoff := l.now().Add(-threshold)

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.entries {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(l.entries, id)
		}
	}
}

func (l *MemoryLimiter) entry(identifier string) *windowEntry {
	l.mu.RLock()
	e, ok := l.entries[identifier]
	l.mu.RUnlock()
	if ok {
		return e
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[identifier]; ok {
		return e
	}
	e = &windowEntry{}
	l.entries[identifier] = e
	return e
}

func (l *MemoryLimiter) sweepLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.done:
			return
		}
	}
}
