// Package redisstore provides a Redis-backed [authcore.UserStore] for
// deployments without a relational database. The email uniqueness constraint
// is a SETNX claim on the email index key, so concurrent registrations for
// one address admit exactly one winner regardless of which instance they
// land on.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/orbitagents/authcore"
	"github.com/redis/go-redis/v9"
)

const (
	emailKeyPrefix = "au:email:"
	userKeyPrefix  = "au:user:"
)

// Store is safe for concurrent use across processes.
type Store struct {
	redis redis.UniversalClient
	now   func() time.Time
}

// New creates a store on the given client. A nil now falls back to
// [time.Now].
func New(client redis.UniversalClient, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{redis: client, now: now}
}

// FindUserByEmail implements [authcore.UserStore].
func (s *Store) FindUserByEmail(ctx context.Context, email string) (authcore.UserRecord, error) {
	id, err := s.redis.Get(ctx, emailKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authcore.UserRecord{}, authcore.ErrUserNotFound
		}
		return authcore.UserRecord{}, fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
	}
	return s.FindUserByID(ctx, id)
}

// FindUserByID implements [authcore.UserStore].
func (s *Store) FindUserByID(ctx context.Context, userID string) (authcore.UserRecord, error) {
	fields, err := s.redis.HGetAll(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		return authcore.UserRecord{}, fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	return recordFromFields(userID, fields)
}

// InsertUser implements [authcore.UserStore]. The SETNX claim on the email
// index is the uniqueness constraint; the user hash is written only after
// the claim succeeds.
func (s *Store) InsertUser(ctx context.Context, email, passwordDigest string) (authcore.UserRecord, error) {
	id := uuid.NewString()

	claimed, err := s.redis.SetNX(ctx, emailKeyPrefix+email, id, 0).Result()
	if err != nil {
		return authcore.UserRecord{}, fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
	}
	if !claimed {
		return authcore.UserRecord{}, authcore.ErrDuplicateEmail
	}

	record := authcore.UserRecord{
		ID:             id,
		Email:          email,
		PasswordDigest: passwordDigest,
		Active:         true,
		CreatedAt:      s.now(),
	}
	err = s.redis.HSet(ctx, userKeyPrefix+id, map[string]interface{}{
		"email":      record.Email,
		"digest":     record.PasswordDigest,
		"active":     boolField(record.Active),
		"created_at": strconv.FormatInt(record.CreatedAt.UnixNano(), 10),
	}).Err()
	if err != nil {
		// Release the claim so the email is not orphaned by a
		// half-finished insert.
		_ = s.redis.Del(ctx, emailKeyPrefix+email).Err()
		return authcore.UserRecord{}, fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
	}

	return record, nil
}

// UpdateUserActive implements [authcore.UserStore].
func (s *Store) UpdateUserActive(ctx context.Context, userID string, active bool) (authcore.UserRecord, error) {
	record, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return authcore.UserRecord{}, err
	}

	if err := s.redis.HSet(ctx, userKeyPrefix+userID, "active", boolField(active)).Err(); err != nil {
		return authcore.UserRecord{}, fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
	}
	record.Active = active
	return record, nil
}

func recordFromFields(userID string, fields map[string]string) (authcore.UserRecord, error) {
	createdNs, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return authcore.UserRecord{}, fmt.Errorf("%w: corrupt created_at for user %s", authcore.ErrStoreUnavailable, userID)
	}

	return authcore.UserRecord{
		ID:             userID,
		Email:          fields["email"],
		PasswordDigest: fields["digest"],
		Active:         fields["active"] == "1",
		CreatedAt:      time.Unix(0, createdNs),
	}, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
