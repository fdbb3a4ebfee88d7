package authcore

import (
	"errors"
	"runtime"
	"time"
)

// Config aggregates the engine's per-concern configuration. Construct with
// [DefaultConfig] and override fields before passing to [Builder.WithConfig].
// Config values are treated as immutable after Build.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// TokenConfig controls bearer token issuance and verification.
type TokenConfig struct {
	// Secret is the symmetric signing key. Required, minimum 32 bytes.
	// Loaded once at startup and never logged.
	Secret []byte
	// TTL is the token lifetime. Default 15 minutes.
	TTL time.Duration
	// Issuer and Audience are stamped into every token and checked on
	// verification.
	Issuer   string
	Audience string
	// AllowedAlgorithms is the verification allowlist. Default {"HS256"}.
	// "none" is never honored regardless of this list.
	AllowedAlgorithms []string
	// Leeway tolerates clock skew during expiry checks. Max 2 minutes.
	Leeway time.Duration
}

// PasswordConfig holds argon2id parameters. Defaults are tuned so a single
// hash takes tens of milliseconds on commodity hardware.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	// MaxConcurrentHashes bounds simultaneous argon2 computations so
	// CPU-bound hashing cannot starve unrelated requests. Default
	// GOMAXPROCS.
	MaxConcurrentHashes int
}

// RateLimitConfig holds the sliding-window budgets. Login is stricter than
// registration per endpoint policy; both are immediate admit/deny decisions,
// never queues.
type RateLimitConfig struct {
	LoginMaxAttempts        int
	LoginWindow             time.Duration
	RegistrationMaxAttempts int
	RegistrationWindow      time.Duration
	// SweepInterval controls how often long-idle identifier entries are
	// garbage-collected from the in-memory limiter. Zero disables the
	// sweeper.
	SweepInterval time.Duration
	// IdleEvictAfter is the inactivity threshold for sweeping an
	// identifier entry. Defaults to four times the largest window.
	IdleEvictAfter time.Duration
}

// AuditConfig controls the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events (and counts drops) instead of blocking the
	// request path when the buffer is full.
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production baseline. The token secret must still
// be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:               15 * time.Minute,
			Issuer:            "orbitagents-auth",
			Audience:          "orbitagents",
			AllowedAlgorithms: []string{"HS256"},
		},
		Password: PasswordConfig{
			Memory:              64 * 1024,
			Time:                3,
			Parallelism:         2,
			SaltLength:          16,
			KeyLength:           32,
			MaxConcurrentHashes: runtime.GOMAXPROCS(0),
		},
		RateLimit: RateLimitConfig{
			LoginMaxAttempts:        10,
			LoginWindow:             time.Minute,
			RegistrationMaxAttempts: 30,
			RegistrationWindow:      time.Hour,
			SweepInterval:           5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

const minSecretLength = 32

var allowedSigningAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Validate checks the configuration for unsafe or inconsistent values.
// Called by [Builder.Build].
func (c *Config) Validate() error {
	if len(c.Token.Secret) < minSecretLength {
		return errors.New("token secret must be at least 32 bytes")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.Token.Issuer == "" || c.Token.Audience == "" {
		return errors.New("token issuer and audience are required")
	}
	if len(c.Token.AllowedAlgorithms) == 0 {
		return errors.New("at least one signing algorithm is required")
	}
	for _, alg := range c.Token.AllowedAlgorithms {
		if !allowedSigningAlgorithms[alg] {
			return errors.New("unsupported signing algorithm: " + alg)
		}
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway out of range")
	}

	if c.Password.Memory < 8*1024 {
		return errors.New("password memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("password time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("password parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("password salt length must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("password key length must be >= 16")
	}
	if c.Password.MaxConcurrentHashes < 1 {
		return errors.New("max concurrent hashes must be >= 1")
	}

	if c.RateLimit.LoginMaxAttempts < 1 || c.RateLimit.RegistrationMaxAttempts < 1 {
		return errors.New("rate limit attempt budgets must be >= 1")
	}
	if c.RateLimit.LoginWindow <= 0 || c.RateLimit.RegistrationWindow <= 0 {
		return errors.New("rate limit windows must be positive")
	}
	if c.RateLimit.SweepInterval < 0 || c.RateLimit.IdleEvictAfter < 0 {
		return errors.New("rate limit sweep settings must not be negative")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	out.Token.AllowedAlgorithms = append([]string(nil), cfg.Token.AllowedAlgorithms...)
	return out
}
