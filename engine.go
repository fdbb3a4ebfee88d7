package authcore

import (
	"context"

	"github.com/orbitagents/authcore/internal/audit"
	"github.com/orbitagents/authcore/internal/rate"
	"github.com/orbitagents/authcore/password"
	"github.com/orbitagents/authcore/token"
)

// Engine orchestrates the credential-issuance flows: registration, login,
// token authentication, and account-state changes. Construct through
// [Builder.Build]; all methods are then safe for concurrent use.
type Engine struct {
	config       Config
	store        UserStore
	clock        Clock
	passwordHash *password.Hasher
	tokens       *token.Manager
	rateLimiter  rate.Limiter
	audit        *audit.Dispatcher
	metrics      *Metrics

	// hashGate bounds simultaneous argon2 computations. Every hash and
	// verify — the dummy path included — acquires a slot, so CPU-bound
	// hashing cannot starve unrelated requests.
	hashGate chan struct{}
}

// Close stops the rate-limiter sweeper and drains the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.rateLimiter != nil {
		e.rateLimiter.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events discarded due to dispatcher
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time deep copy of all metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) acquireHashSlot(ctx context.Context) error {
	select {
	case e.hashGate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) releaseHashSlot() {
	<-e.hashGate
}
