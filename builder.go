package authcore

import (
	"errors"
	"time"

	"github.com/orbitagents/authcore/internal/audit"
	"github.com/orbitagents/authcore/internal/rate"
	"github.com/orbitagents/authcore/password"
	"github.com/orbitagents/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build; no I/O happens before then.
type Builder struct {
	config Config

	store     UserStore
	clock     Clock
	auditSink AuditSink
	limiter   rate.Limiter
	redis     redis.UniversalClient

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the token signing secret without replacing the rest of
// the configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Token.Secret = append([]byte(nil), secret...)
	return b
}

// WithUserStore sets the persistence backend. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.store = store
	return b
}

// WithClock overrides the time source for deterministic tests.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithAuditSink sets the audit destination. Defaults to [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithRedis switches the rate limiter to the Redis-backed sliding window so
// the attempt log is shared across engine instances.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRateLimiter injects a custom limiter implementation. Takes precedence
// over WithRedis.
func (b *Builder) WithRateLimiter(l rate.Limiter) *Builder {
	b.limiter = l
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the token verification latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder is
// single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("user store required")
	}

	clock := b.clock
	if clock == nil {
		clock = SystemClock{}
	}

	hasher, err := password.New(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret:            cfg.Token.Secret,
		TTL:               cfg.Token.TTL,
		Issuer:            cfg.Token.Issuer,
		Audience:          cfg.Token.Audience,
		AllowedAlgorithms: cfg.Token.AllowedAlgorithms,
		Leeway:            cfg.Token.Leeway,
	}, clock.Now)
	if err != nil {
		return nil, err
	}

	limiter := b.limiter
	switch {
	case limiter != nil:
	case b.redis != nil:
		limiter = rate.NewRedisLimiter(b.redis, clock.Now)
	default:
		idle := cfg.RateLimit.IdleEvictAfter
		if idle <= 0 {
			idle = 4 * maxDuration(cfg.RateLimit.LoginWindow, cfg.RateLimit.RegistrationWindow)
		}
		limiter = rate.NewMemoryLimiter(rate.MemoryConfig{
			SweepInterval:  cfg.RateLimit.SweepInterval,
			IdleEvictAfter: idle,
		}, clock.Now)
	}

	var dispatcher *audit.Dispatcher
	if cfg.Audit.Enabled {
		dispatcher = audit.NewDispatcher(audit.DispatcherConfig{
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink)
	}

	b.built = true
	return &Engine{
		config:       cfg,
		store:        b.store,
		clock:        clock,
		passwordHash: hasher,
		tokens:       tokens,
		rateLimiter:  limiter,
		audit:        dispatcher,
		metrics:      NewMetrics(cfg.Metrics),
		hashGate:     make(chan struct{}, cfg.Password.MaxConcurrentHashes),
	}, nil
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
