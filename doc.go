// Package authcore provides the credential-issuance engine for the OrbitAgents
// platform: local email/password registration, login with sliding-window abuse
// limits, argon2id password digests, and short-lived HS256 bearer tokens.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (User, TokenPair, MetricsSnapshot). Flow orchestration,
// rate limiting, and audit dispatch live under internal/ and are never
// exported. Persistence is consumed through the [UserStore] interface; the
// engine holds no user data beyond a request's lifetime.
//
// # What this package must NOT do
//
//   - Serve HTTP, render pages, or own routing. Hosts call the engine from
//     their own transport layer.
//   - Persist users itself. The store's uniqueness constraint is the source
//     of truth for duplicate registrations.
//   - Leak account existence, token failure causes, or password material
//     through returned errors. Internal causes go to the audit trail only.
//
// # Timing contract
//
// Login burns one full argon2id computation whether or not the email exists
// and whether or not the password matches. Authenticate is pure computation
// plus one store read and performs no hashing.
package authcore
