package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orbitagents/authcore/internal/rate"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockStore is the in-package UserStore used by engine tests. Behavior
// matches the contract: one insert winner per email, ErrUserNotFound for
// unknown lookups.
type mockStore struct {
	mu      sync.Mutex
	byEmail map[string]string
	byID    map[string]UserRecord

	failFind   error
	failInsert error
}

func newMockStore() *mockStore {
	return &mockStore{
		byEmail: map[string]string{},
		byID:    map[string]UserRecord{},
	}
}

func (s *mockStore) FindUserByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind != nil {
		return UserRecord{}, s.failFind
	}
	id, ok := s.byEmail[email]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *mockStore) FindUserByID(_ context.Context, userID string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind != nil {
		return UserRecord{}, s.failFind
	}
	record, ok := s.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return record, nil
}

func (s *mockStore) InsertUser(_ context.Context, email, passwordDigest string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return UserRecord{}, s.failInsert
	}
	if _, exists := s.byEmail[email]; exists {
		return UserRecord{}, ErrDuplicateEmail
	}
	record := UserRecord{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordDigest: passwordDigest,
		Active:         true,
		CreatedAt:      time.Unix(1_700_000_000, 0),
	}
	s.byEmail[email] = record.ID
	s.byID[record.ID] = record
	return record, nil
}

func (s *mockStore) UpdateUserActive(_ context.Context, userID string, active bool) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	record.Active = active
	s.byID[userID] = record
	return record, nil
}

// failingLimiter simulates a down rate-limit backend.
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, rate.ErrUnavailable
}
func (failingLimiter) Close() {}

// testEngineConfig keeps argon2 cost at the enforced minimum so the suite
// stays fast.
func testEngineConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = append([]byte(nil), testSecret...)
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.SaltLength = 16
	cfg.Password.KeyLength = 16
	cfg.Password.MaxConcurrentHashes = 4
	cfg.RateLimit.SweepInterval = 0
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, store UserStore, clock *testClock, opts ...func(*Builder)) *Engine {
	t.Helper()

	builder := New().
		WithConfig(cfg).
		WithUserStore(store).
		WithClock(clock)
	for _, opt := range opts {
		opt(builder)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}
