package ai

import "sync/atomic"

// debugEnabled gates expensive debug attributes (positions, goals) on the tick path.
// Set once from main after the log level is parsed.
var debugEnabled atomic.Bool

// EnableDebugLogging turns AI debug logging on or off.
func EnableDebugLogging(enabled bool) {
	debugEnabled.Store(enabled)
}

// IsDebugEnabled reports whether AI debug logging is on. Guard costly slog.Debug calls with it:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("goal abandoned", "goal", goal)
//	}
func IsDebugEnabled() bool {
	return debugEnabled.Load()
}
