// Package credential normalizes and validates email/password input before it
// reaches hashing or storage.
//
// Validation is pure: no I/O, no state. Email normalization (trim +
// lowercase) happens before any rule check so the uniqueness comparison at
// the store level always sees the canonical form.
//
// # What this package must NOT do
//
//   - Touch the store or the hasher.
//   - Retain password material beyond the call.
package credential
