// Package password produces and verifies argon2id digests in PHC string
// format ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
//
// # Timing contract
//
// Verify burns one full argon2id computation on every call. When the digest
// is absent or malformed, or the password is empty, the computation runs
// against a fixed reference digest before returning false, so the caller's
// latency does not reveal which input was bad. Verify never returns an
// error: malformed digests verify as false.
//
// # What this package must NOT do
//
//   - Enforce password policy; that belongs to package credential.
//   - Log or retain password material.
package password
