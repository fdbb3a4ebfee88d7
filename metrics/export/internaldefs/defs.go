// Package internaldefs holds the shared metric name/help definitions used by
// the Prometheus and OTel exporters. It exists so the two exporters cannot
// drift apart on naming.
package internaldefs

import (
	authcore "github.com/orbitagents/authcore"
)

// CounterDef maps a [authcore.MetricID] to its exported name and help text.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// HistogramDef maps a histogram-carrying [authcore.MetricID] to its exported
// name and help text.
type HistogramDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in stable order.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful login attempts."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Login attempts rejected for invalid credentials."},
	{ID: authcore.MetricLoginInactive, Name: "authcore_login_inactive_total", Help: "Login attempts rejected for inactive accounts."},
	{ID: authcore.MetricLoginRateLimited, Name: "authcore_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: authcore.MetricRegistrationSuccess, Name: "authcore_registration_success_total", Help: "Successful registrations."},
	{ID: authcore.MetricRegistrationDuplicate, Name: "authcore_registration_duplicate_total", Help: "Registrations rejected as duplicate email."},
	{ID: authcore.MetricRegistrationRejected, Name: "authcore_registration_rejected_total", Help: "Registrations rejected by validation."},
	{ID: authcore.MetricRegistrationRateLimited, Name: "authcore_registration_rate_limited_total", Help: "Rate-limited registration attempts."},
	{ID: authcore.MetricTokenIssued, Name: "authcore_token_issued_total", Help: "Minted bearer tokens."},
	{ID: authcore.MetricAuthenticateSuccess, Name: "authcore_authenticate_success_total", Help: "Verified tokens with an active subject."},
	{ID: authcore.MetricAuthenticateFailure, Name: "authcore_authenticate_failure_total", Help: "Rejected bearer tokens."},
	{ID: authcore.MetricAccountStatusChange, Name: "authcore_account_status_change_total", Help: "Account active-flag updates."},
	{ID: authcore.MetricRateLimitHit, Name: "authcore_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
}

// HistogramDefs lists every exported histogram in stable order.
var HistogramDefs = []HistogramDef{
	{ID: authcore.MetricAuthenticateLatency, Name: "authcore_authenticate_latency_seconds", Help: "Token verification latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// fixed buckets of the in-process histogram.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix provides instrument-name-safe bucket suffixes for
// exporters that cannot use label values.
var HistogramBoundSuffix = []string{
	"5ms",
	"10ms",
	"25ms",
	"50ms",
	"100ms",
	"250ms",
	"500ms",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(nonCumulative [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(nonCumulative); i++ {
		running += nonCumulative[i]
		out[i] = running
	}
	return out
}
