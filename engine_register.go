package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/orbitagents/authcore/credential"
)

// Register validates the credentials, hashes the password, and inserts a new
// active user. The store's uniqueness constraint is the source of truth for
// duplicates: a lost race returns [ErrEmailAlreadyRegistered], identical to
// a plain retake of a taken address, so the two cases cannot be told apart.
func (e *Engine) Register(ctx context.Context, email, pass string) (User, error) {
	if e == nil || e.store == nil || e.passwordHash == nil {
		return User{}, ErrEngineNotReady
	}

	normalized, err := credential.Validate(email, pass)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrValidation, err)
		e.metricInc(MetricRegistrationRejected)
		e.emitAudit(ctx, auditEventRegistrationRejected, false, "", wrapped, func() map[string]string {
			meta := map[string]string{}
			var v *credential.Violation
			if errors.As(err, &v) {
				meta["field"] = v.Field
				meta["rule"] = v.Rule
			}
			return meta
		})
		return User{}, wrapped
	}

	identifier := clientIPFromContext(ctx)
	if identifier == "" {
		identifier = normalized
	}
	allowed, limitErr := e.rateLimiter.Allow(ctx, "register:"+identifier,
		e.config.RateLimit.RegistrationMaxAttempts, e.config.RateLimit.RegistrationWindow)
	if limitErr != nil {
		// Limiter backend down: fail closed on the abuse-sensitive path.
		e.emitAudit(ctx, auditEventRegistrationRateLimited, false, "", ErrRateLimited, nil)
		return User{}, ErrRateLimited
	}
	if !allowed {
		e.metricInc(MetricRegistrationRateLimited)
		e.emitAudit(ctx, auditEventRegistrationRateLimited, false, "", ErrRateLimited, func() map[string]string {
			return map[string]string{"identifier": identifier}
		})
		e.emitRateLimit(ctx, "registration", identifier)
		return User{}, ErrRateLimited
	}

	if err := e.acquireHashSlot(ctx); err != nil {
		return User{}, err
	}
	digest, err := e.passwordHash.Hash(pass)
	e.releaseHashSlot()
	if err != nil {
		e.emitAudit(ctx, auditEventRegistrationRejected, false, "", err, nil)
		return User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	record, err := e.store.InsertUser(ctx, normalized, digest)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			e.metricInc(MetricRegistrationDuplicate)
			e.emitAudit(ctx, auditEventRegistrationDuplicate, false, "", ErrEmailAlreadyRegistered, func() map[string]string {
				return map[string]string{"email": normalized}
			})
			return User{}, ErrEmailAlreadyRegistered
		}
		e.emitAudit(ctx, auditEventRegistrationRejected, false, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{"reason": err.Error()}
		})
		return User{}, ErrStoreUnavailable
	}

	e.metricInc(MetricRegistrationSuccess)
	e.emitAudit(ctx, auditEventRegistrationSuccess, true, record.ID, nil, func() map[string]string {
		return map[string]string{"email": record.Email}
	})
	return record.sanitized(), nil
}
