// Package memstore provides an in-memory [authcore.UserStore] for tests and
// single-process deployments. Uniqueness is enforced under one mutex, which
// is exactly the consistent-outcome guarantee the engine expects from a real
// database constraint: concurrent inserts for the same normalized email
// admit one winner.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orbitagents/authcore"
)

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	byEmail map[string]string
	byID    map[string]authcore.UserRecord
	now     func() time.Time
}

// New creates an empty store. A nil now falls back to [time.Now].
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		byEmail: make(map[string]string),
		byID:    make(map[string]authcore.UserRecord),
		now:     now,
	}
}

// FindUserByEmail implements [authcore.UserStore].
func (s *Store) FindUserByEmail(_ context.Context, email string) (authcore.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	return s.byID[id], nil
}

// FindUserByID implements [authcore.UserStore].
func (s *Store) FindUserByID(_ context.Context, userID string) (authcore.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[userID]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	return record, nil
}

// InsertUser implements [authcore.UserStore]. Exactly one concurrent insert
// per email wins; the rest get [authcore.ErrDuplicateEmail].
func (s *Store) InsertUser(_ context.Context, email, passwordDigest string) (authcore.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return authcore.UserRecord{}, authcore.ErrDuplicateEmail
	}

	record := authcore.UserRecord{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordDigest: passwordDigest,
		Active:         true,
		CreatedAt:      s.now(),
	}
	s.byEmail[email] = record.ID
	s.byID[record.ID] = record
	return record, nil
}

// UpdateUserActive implements [authcore.UserStore].
func (s *Store) UpdateUserActive(_ context.Context, userID string, active bool) (authcore.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[userID]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	record.Active = active
	s.byID[userID] = record
	return record, nil
}

// Len reports the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
