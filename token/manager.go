package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds the signing secret, claim constants, and verification policy.
type Config struct {
	Secret            []byte
	TTL               time.Duration
	Issuer            string
	Audience          string
	AllowedAlgorithms []string
	Leeway            time.Duration
}

// Claims is the closed claim set carried by every token. Only the
// registered claims are used; subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies tokens. Safe for concurrent use; the clock is
// injectable for deterministic tests.
type Manager struct {
	config Config
	now    func() time.Time
}

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// NewManager validates the configuration. The first allowed algorithm is
// used for signing; all listed algorithms are accepted for verification.
func NewManager(cfg Config, now func() time.Time) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if len(cfg.AllowedAlgorithms) == 0 {
		cfg.AllowedAlgorithms = []string{"HS256"}
	}
	for _, alg := range cfg.AllowedAlgorithms {
		if _, ok := signingMethods[alg]; !ok {
			return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
		}
	}
	if now == nil {
		now = time.Now
	}

	return &Manager{config: cfg, now: now}, nil
}

// Issue mints a signed token for the subject with issued-at = now and
// expiry = now + TTL. Returns the token string and its lifetime in seconds.
func (m *Manager) Issue(subject string) (string, int64, error) {
	if subject == "" {
		return "", 0, errors.New("empty subject")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			Audience:  jwt.ClaimStrings{m.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	tok := jwt.NewWithClaims(m.signingMethod(), claims)
	signed, err := tok.SignedString(m.config.Secret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(m.config.TTL / time.Second), nil
}

// Verify checks signature, expiry, audience, and issuer, in that order, and
// returns the subject. The returned errors carry the failing check; callers
// exposed to untrusted parties must collapse them to a generic error.
func (m *Manager) Verify(tokenStr string) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods(m.config.AllowedAlgorithms),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// WithValidMethods already rejects off-list algorithms, "none"
		// included. Re-check here so a parser regression cannot widen
		// the allowlist.
		alg := t.Method.Alg()
		for _, allowed := range m.config.AllowedAlgorithms {
			if alg == allowed {
				return m.config.Secret, nil
			}
		}
		return nil, fmt.Errorf("disallowed signing algorithm %q", alg)
	})
	if err != nil {
		return "", err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", errors.New("missing subject claim")
	}

	return claims.Subject, nil
}

func (m *Manager) signingMethod() jwt.SigningMethod {
	return signingMethods[m.config.AllowedAlgorithms[0]]
}
