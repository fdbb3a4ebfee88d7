// Package rate implements the per-identifier sliding-window attempt limiter
// guarding the login and registration paths.
//
// # Window semantics
//
// Sliding window, not fixed buckets: each identifier carries an ordered
// attempt log. A check evicts timestamps older than now-window, denies when
// the survivors reach the budget (without recording), and otherwise records
// now and admits. Bursts are only admitted proportionally spread across the
// window. A check is an immediate admit/deny decision, never a queue.
//
// Two implementations share the [Limiter] interface: [MemoryLimiter]
// (per-process, fine-grained per-identifier locking, periodic idle-entry
// sweep) and [RedisLimiter] (sorted sets, for multi-instance deployments).
//
// # What this package must NOT do
//
//   - Interpret identifiers; the caller decides whether they are client
//     addresses, normalized emails, or anything else.
//   - Persist the in-memory window across restarts; the limiter is a
//     best-effort abuse deterrent, not a security boundary on its own.
package rate
