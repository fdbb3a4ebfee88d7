package rate

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the limiter backend is unreachable. The
// in-memory limiter never returns it.
var ErrUnavailable = errors.New("rate limiter backend unavailable")

// Limiter is the sliding-window check-and-record operation. Allow reports
// whether the attempt is admitted; a denied attempt is not recorded.
type Limiter interface {
	Allow(ctx context.Context, identifier string, maxAttempts int, window time.Duration) (bool, error)
	Close()
}
