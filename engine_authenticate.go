package authcore

import (
	"context"
	"errors"
)

// Authenticate verifies a bearer token and re-checks the subject's current
// active status against the store (tokens carry no live account state).
// Every failure — bad signature, wrong algorithm, expiry, claim mismatch,
// unknown or inactive subject — returns the same [ErrInvalidToken]; the
// specific cause is recorded in the audit trail only.
func (e *Engine) Authenticate(ctx context.Context, tokenStr string) (string, error) {
	user, err := e.authenticatedUser(ctx, tokenStr)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// CurrentUser verifies a bearer token and returns the subject's digest-free
// account record.
func (e *Engine) CurrentUser(ctx context.Context, tokenStr string) (User, error) {
	user, err := e.authenticatedUser(ctx, tokenStr)
	if err != nil {
		return User{}, err
	}
	return user.sanitized(), nil
}

func (e *Engine) authenticatedUser(ctx context.Context, tokenStr string) (UserRecord, error) {
	if e == nil || e.store == nil || e.tokens == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	start := e.clock.Now()
	subject, err := e.tokens.Verify(tokenStr)
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, "", ErrInvalidToken, func() map[string]string {
			// The failing check stays internal; callers only ever see
			// the generic error.
			return map[string]string{"reason": err.Error()}
		})
		return UserRecord{}, ErrInvalidToken
	}

	user, err := e.store.FindUserByID(ctx, subject)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			e.emitAudit(ctx, auditEventAuthenticateFailure, false, subject, ErrStoreUnavailable, nil)
			return UserRecord{}, ErrStoreUnavailable
		}
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, subject, ErrInvalidToken, func() map[string]string {
			return map[string]string{"reason": "subject_not_found"}
		})
		return UserRecord{}, ErrInvalidToken
	}
	if !user.Active {
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, subject, ErrInvalidToken, func() map[string]string {
			return map[string]string{"reason": "subject_inactive"}
		})
		return UserRecord{}, ErrInvalidToken
	}

	e.metricInc(MetricAuthenticateSuccess)
	if e.metrics != nil {
		e.metrics.Observe(MetricAuthenticateLatency, e.clock.Now().Sub(start))
	}
	e.emitAudit(ctx, auditEventAuthenticateSuccess, true, user.ID, nil, nil)
	return user, nil
}
