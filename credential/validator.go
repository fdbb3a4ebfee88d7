package credential

import (
	"strings"
	"unicode"
)

const (
	maxEmailLength     = 254
	maxLocalPartLength = 64
	minPasswordLength  = 8
	maxPasswordLength  = 128
	maxRepeatRun       = 3
)

// forbiddenEmailChars are rejected anywhere in the address. They have no
// place in a plain mailbox address and defang header/markup injection.
const forbiddenEmailChars = `<>"'\[]`

// commonSubstrings is the case-insensitive denylist of trivially guessable
// password fragments.
var commonSubstrings = []string{
	"password",
	"qwerty",
	"1234",
	"letmein",
	"iloveyou",
	"welcome",
	"abc123",
	"admin",
}

// Violation names the rule a credential failed. Field is "email" or
// "password"; Rule is a stable machine-readable identifier and Detail the
// human-readable explanation.
type Violation struct {
	Field  string
	Rule   string
	Detail string
}

func (v *Violation) Error() string {
	return v.Field + ": " + v.Detail
}

func violation(field, rule, detail string) *Violation {
	return &Violation{Field: field, Rule: rule, Detail: detail}
}

// NormalizeEmail returns the canonical form used for lookups and uniqueness:
// whitespace-trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail normalizes and structurally checks an email address. Returns
// the normalized address, or a [*Violation] naming the failed rule.
func ValidateEmail(email string) (string, error) {
	normalized := NormalizeEmail(email)

	if normalized == "" {
		return "", violation("email", "empty", "address is required")
	}
	if len(normalized) > maxEmailLength {
		return "", violation("email", "too_long", "address exceeds 254 characters")
	}
	if strings.ContainsAny(normalized, forbiddenEmailChars) {
		return "", violation("email", "forbidden_characters", "address contains forbidden characters")
	}
	if strings.Contains(normalized, "..") {
		return "", violation("email", "consecutive_dots", "address contains consecutive dots")
	}

	at := strings.IndexByte(normalized, '@')
	if at < 0 || strings.IndexByte(normalized[at+1:], '@') >= 0 {
		return "", violation("email", "separator", "address must contain exactly one @")
	}

	local, domain := normalized[:at], normalized[at+1:]
	if local == "" {
		return "", violation("email", "empty_local_part", "address local part is empty")
	}
	if len(local) > maxLocalPartLength {
		return "", violation("email", "local_part_too_long", "address local part exceeds 64 characters")
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return "", violation("email", "edge_dot", "address local part starts or ends with a dot")
	}
	if domain == "" || !strings.Contains(domain, ".") {
		return "", violation("email", "domain", "address domain must contain a dot")
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", violation("email", "edge_dot", "address domain starts or ends with a dot")
	}

	return normalized, nil
}

// ValidatePassword checks the password strength policy: length bounds, at
// least one uppercase letter, one lowercase letter and one digit, no run of
// four or more identical characters, and no denylisted common substring.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return violation("password", "too_short", "password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return violation("password", "too_long", "password exceeds 128 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return violation("password", "missing_uppercase", "password must contain an uppercase letter")
	}
	if !hasLower {
		return violation("password", "missing_lowercase", "password must contain a lowercase letter")
	}
	if !hasDigit {
		return violation("password", "missing_digit", "password must contain a digit")
	}

	if hasRepeatRun(password, maxRepeatRun+1) {
		return violation("password", "repeated_characters", "password contains 4+ repeated identical characters")
	}

	lowered := strings.ToLower(password)
	for _, banned := range commonSubstrings {
		if strings.Contains(lowered, banned) {
			return violation("password", "common_substring", "password contains a common guessable sequence")
		}
	}

	return nil
}

// Validate runs both checks and returns the normalized email on success.
func Validate(email, password string) (string, error) {
	normalized, err := ValidateEmail(email)
	if err != nil {
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	return normalized, nil
}

func hasRepeatRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}
