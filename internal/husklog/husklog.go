// Package husklog holds the one process-wide logging sink husk shares
// across the coordinator and analyzer fan-out (spec §5: "Only a
// process-wide logger sink is globally shared; its lifecycle is
// init-at-startup, no teardown"). Every write is serialized by zap
// itself, so concurrent tasks never need their own synchronization to
// log an error.
package husklog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.SugaredLogger
)

// Init installs the global logger. Safe to call multiple times; only the
// first call takes effect, matching the "init-at-startup" lifecycle —
// there is no corresponding Close, by design (spec §5).
func Init(quiet bool) {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
		if quiet {
			cfg.Level.SetLevel(zap.ErrorLevel)
		}
		logger, err := cfg.Build()
		if err != nil {
			// Logging must never be fatal to the scan itself; fall back
			// to a no-op logger rather than aborting.
			logger = zap.NewNop()
		}
		global = logger.Sugar()
	})
}

// L returns the global logger, lazily initializing a default (non-quiet)
// instance if Init was never called — e.g. from tests that exercise a
// package directly without going through cmd/husk.
func L() *zap.SugaredLogger {
	Init(false)
	return global
}
