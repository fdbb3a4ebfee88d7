// Package audit provides the structured audit event model, pluggable sinks,
// and the buffered dispatcher used by the engine.
//
// The audit trail is the only place internal failure causes are recorded:
// which token check failed, whether a login email existed, which validation
// rule fired. None of that detail reaches engine callers.
//
// # What this package must NOT do
//
//   - Block the request path when DropIfFull is set; drops are counted
//     instead.
//   - Record plaintext passwords or digests under any circumstances.
//   - Import authcore or any sibling package.
package audit
