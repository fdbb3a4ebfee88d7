package authcore

import (
	"testing"
	"time"
)

func TestDefaultConfigValidWithSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Token.Secret = nil }},
		{"short secret", func(c *Config) { c.Token.Secret = []byte("too-short") }},
		{"zero TTL", func(c *Config) { c.Token.TTL = 0 }},
		{"empty issuer", func(c *Config) { c.Token.Issuer = "" }},
		{"empty audience", func(c *Config) { c.Token.Audience = "" }},
		{"no algorithms", func(c *Config) { c.Token.AllowedAlgorithms = nil }},
		{"unknown algorithm", func(c *Config) { c.Token.AllowedAlgorithms = []string{"none"} }},
		{"asymmetric algorithm", func(c *Config) { c.Token.AllowedAlgorithms = []string{"RS256"} }},
		{"negative leeway", func(c *Config) { c.Token.Leeway = -time.Second }},
		{"excessive leeway", func(c *Config) { c.Token.Leeway = 3 * time.Minute }},
		{"weak memory", func(c *Config) { c.Password.Memory = 1024 }},
		{"zero time cost", func(c *Config) { c.Password.Time = 0 }},
		{"zero parallelism", func(c *Config) { c.Password.Parallelism = 0 }},
		{"short salt", func(c *Config) { c.Password.SaltLength = 8 }},
		{"short key", func(c *Config) { c.Password.KeyLength = 8 }},
		{"zero hash slots", func(c *Config) { c.Password.MaxConcurrentHashes = 0 }},
		{"zero login attempts", func(c *Config) { c.RateLimit.LoginMaxAttempts = 0 }},
		{"zero login window", func(c *Config) { c.RateLimit.LoginWindow = 0 }},
		{"zero registration attempts", func(c *Config) { c.RateLimit.RegistrationMaxAttempts = 0 }},
		{"negative sweep", func(c *Config) { c.RateLimit.SweepInterval = -time.Second }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Token.Secret = testSecret
			tc.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithConfig(testEngineConfig()).Build()
	if err == nil {
		t.Fatal("expected error without a user store")
	}
}

func TestBuildRejectsShortSecret(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Token.Secret = []byte("short")
	_, err := New().WithConfig(cfg).WithUserStore(newMockStore()).Build()
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	builder := New().WithConfig(testEngineConfig()).WithUserStore(newMockStore()).WithClock(newTestClock())
	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestWithSecretOverridesOnlySecret(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Token.Secret = nil
	engine, err := New().
		WithConfig(cfg).
		WithSecret(testSecret).
		WithUserStore(newMockStore()).
		WithClock(newTestClock()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	engine.Close()
}

func TestConfigCloneIsolation(t *testing.T) {
	cfg := testEngineConfig()
	builder := New().WithConfig(cfg).WithUserStore(newMockStore()).WithClock(newTestClock())

	// Mutating the caller's copy after WithConfig must not leak into the
	// built engine.
	cfg.Token.Secret[0] ^= 0xff
	cfg.Token.AllowedAlgorithms[0] = "HS512"

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.config.Token.AllowedAlgorithms[0] != "HS256" {
		t.Fatalf("algorithm list leaked: %v", engine.config.Token.AllowedAlgorithms)
	}
	if engine.config.Token.Secret[0] == cfg.Token.Secret[0] {
		t.Fatal("secret bytes leaked")
	}
}
