package authcore

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/orbitagents/authcore/internal/audit"
)

// User is the digest-free account view returned to callers. The password
// digest never leaves the [UserStore] boundary.
type User struct {
	ID        string
	Email     string
	Active    bool
	CreatedAt time.Time
}

// UserRecord is the full account row exchanged with [UserStore]
// implementations. PasswordDigest is opaque to the engine and must never be
// logged or returned to callers.
type UserRecord struct {
	ID             string
	Email          string
	PasswordDigest string
	Active         bool
	CreatedAt      time.Time
}

// TokenPair is returned by [Engine.Login]: a signed bearer token and its
// lifetime in seconds.
type TokenPair struct {
	AccessToken string
	ExpiresIn   int64
}

// UserStore is the persistence interface callers must implement to integrate
// authcore with their user database. The engine relies on the store's native
// uniqueness constraint: concurrent InsertUser calls for the same normalized
// email must admit exactly one winner and fail the rest with
// [ErrDuplicateEmail].
type UserStore interface {
	// FindUserByEmail looks up a user by normalized email. Implementations
	// return [ErrUserNotFound] when no user matches.
	FindUserByEmail(ctx context.Context, email string) (UserRecord, error)
	// FindUserByID looks up a user by ID for the post-verification
	// active-status check. Returns [ErrUserNotFound] when no user matches.
	FindUserByID(ctx context.Context, userID string) (UserRecord, error)
	// InsertUser creates a user row for the normalized email and digest.
	// Returns [ErrDuplicateEmail] when the uniqueness constraint rejects
	// the write.
	InsertUser(ctx context.Context, email, passwordDigest string) (UserRecord, error)
	// UpdateUserActive flips the account's active flag. Returns
	// [ErrUserNotFound] for unknown IDs.
	UpdateUserActive(ctx context.Context, userID string, active bool) (UserRecord, error)
}

// Clock abstracts time for deterministic tests. The zero configuration uses
// the system clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default [Clock] backed by [time.Now].
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

func (u UserRecord) sanitized() User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
