// Package corelog provides the small structured-logging shim each
// component owns, grounded on internal/runtime/server/logging.go's
// "package owns a tiny logging shim" shape but swapped from the teacher's
// bare log.Printf to a structured *zap.SugaredLogger per SPEC_FULL.md §3:
// spec §7's error-handling design needs leveled, field-tagged diagnostics
// (service failures, stale handles, invariant self-heals) that survive
// without propagating as errors.
package corelog

import "go.uber.org/zap"

// Logger is the interface every component depends on, so tests can inject
// a no-op or observed logger (zap's zaptest/observer) instead of writing
// to stderr.
type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
}

// New wraps a *zap.Logger scoped to `component` (e.g. "refresh",
// "focus", "scroll") as a SugaredLogger, mirroring the teacher's
// per-package small log wrapper.
func New(base *zap.Logger, component string) Logger {
	return base.Sugar().Named(component)
}

// NewNop returns a Logger that discards everything, for tests and for
// callers that haven't wired a real logger yet.
func NewNop() Logger {
	return zap.NewNop().Sugar()
}

// NewDevelopment builds a human-readable development logger, used by
// cmd/stratawm when no production log sink is configured.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
