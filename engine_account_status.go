package authcore

import (
	"context"
	"errors"
)

// DeactivateUser flips the account inactive. Outstanding tokens for the
// user fail Authenticate from the next store read onward; nothing needs to
// be revoked because tokens carry no live account state.
func (e *Engine) DeactivateUser(ctx context.Context, userID string) error {
	return e.setUserActive(ctx, userID, false)
}

// ReactivateUser flips the account back to active.
func (e *Engine) ReactivateUser(ctx context.Context, userID string) error {
	return e.setUserActive(ctx, userID, true)
}

func (e *Engine) setUserActive(ctx context.Context, userID string, active bool) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrUserNotFound
	}

	_, err := e.store.UpdateUserActive(ctx, userID, active)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		err = ErrStoreUnavailable
	}
	if err == nil {
		e.metricInc(MetricAccountStatusChange)
	}

	action := "deactivate"
	if active {
		action = "reactivate"
	}
	e.emitAudit(ctx, auditEventAccountStatusChange, err == nil, userID, err, func() map[string]string {
		return map[string]string{"action": action}
	})
	return err
}
