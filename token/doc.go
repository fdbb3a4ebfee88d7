// Package token mints and verifies the signed, time-bound bearer tokens
// issued after a successful login.
//
// Tokens are stateless: validity is fully determined by the signature and
// claim checks at verification time, with no server-side record. The claim
// set is a closed struct (subject, audience, issuer, issued-at, expiry) —
// never an open map — so callers cannot smuggle extra claims in or out.
//
// # Verification order
//
// Signature against the configured secret and the explicit algorithm
// allowlist first ("none" is never honored), then expiry, then audience and
// issuer. Errors out of Verify are detailed for the audit trail; the engine
// collapses them to a single generic error before they reach callers.
package token
