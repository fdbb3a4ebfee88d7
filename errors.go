package authcore

import "errors"

var (
	// ErrValidation indicates malformed client input. The wrapped
	// [credential.Violation] names the violated rule.
	ErrValidation = errors.New("validation failed")
	// ErrEmailAlreadyRegistered is returned when registration loses the
	// uniqueness race or the email was already taken.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are never distinguished to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned for a correct password on a
	// deactivated account.
	ErrAccountInactive = errors.New("account inactive")
	// ErrInvalidToken is the single error for every token verification
	// failure. The specific failing check is audited, never returned.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRateLimited indicates the sliding-window budget for the
	// identifier is exhausted. Callers should back off.
	ErrRateLimited = errors.New("rate limited")
	// ErrUserNotFound is returned by [UserStore] implementations when no
	// user matches, and by account-state operations on unknown IDs.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by [UserStore.InsertUser] when the
	// store's uniqueness constraint rejects the write.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrStoreUnavailable masks infrastructure faults from the store.
	// Details are audited server-side.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// partially constructed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
