package authcore

import (
	"context"
	"errors"

	"github.com/orbitagents/authcore/credential"
)

// Login authenticates an email/password pair and mints a bearer token.
// identifier keys the rate limit and is caller-supplied (typically the
// client address); when empty, the normalized email is used.
//
// The limiter check runs before any store access or hashing. After it, every
// path burns exactly one argon2id computation — unknown email, wrong
// password, and inactive account included — so response timing does not
// reveal whether the email is registered.
func (e *Engine) Login(ctx context.Context, email, pass, identifier string) (TokenPair, error) {
	if e == nil || e.store == nil || e.passwordHash == nil || e.tokens == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	normalized := credential.NormalizeEmail(email)
	if identifier == "" {
		identifier = normalized
	}

	allowed, limitErr := e.rateLimiter.Allow(ctx, "login:"+identifier,
		e.config.RateLimit.LoginMaxAttempts, e.config.RateLimit.LoginWindow)
	if limitErr != nil {
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrRateLimited, nil)
		return TokenPair{}, ErrRateLimited
	}
	if !allowed {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrRateLimited, func() map[string]string {
			return map[string]string{"identifier": identifier}
		})
		e.emitRateLimit(ctx, "login", identifier)
		return TokenPair{}, ErrRateLimited
	}

	user, lookupErr := e.store.FindUserByEmail(ctx, normalized)
	if lookupErr != nil && !errors.Is(lookupErr, ErrUserNotFound) {
		e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{"reason": lookupErr.Error()}
		})
		return TokenPair{}, ErrStoreUnavailable
	}

	if err := e.acquireHashSlot(ctx); err != nil {
		return TokenPair{}, err
	}
	var match bool
	if lookupErr != nil {
		// Unknown email: burn the same hashing cost as a real
		// verification before rejecting.
		match = e.passwordHash.VerifyDummy()
	} else {
		match = e.passwordHash.Verify(pass, user.PasswordDigest)
	}
	e.releaseHashSlot()

	if !match {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, ErrInvalidCredentials, func() map[string]string {
			reason := "password_mismatch"
			if lookupErr != nil {
				reason = "user_not_found"
			}
			return map[string]string{
				"identifier": identifier,
				"reason":     reason,
			}
		})
		return TokenPair{}, ErrInvalidCredentials
	}

	if !user.Active {
		e.metricInc(MetricLoginInactive)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, ErrAccountInactive, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "account_inactive",
			}
		})
		return TokenPair{}, ErrAccountInactive
	}

	signed, expiresIn, err := e.tokens.Issue(user.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, err, func() map[string]string {
			return map[string]string{"reason": "token_issuance_failed"}
		})
		return TokenPair{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, nil, func() map[string]string {
		return map[string]string{"identifier": identifier}
	})
	return TokenPair{AccessToken: signed, ExpiresIn: expiresIn}, nil
}
