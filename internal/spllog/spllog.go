// Package spllog wraps github.com/oarkflow/log for the driver's
// verbose execution tracing. It never carries the diagnostic text
// that the CLI contract requires to be exact and unadorned: those
// lines go straight to stderr from the caller, never through here.
package spllog

import (
	"time"

	"github.com/oarkflow/log"
)

// Logger is a thin, optionally-silent wrapper around the shared
// *log.Logger, using the same Info()/Str()/Msg() call chain.
type Logger struct {
	logger  *log.Logger
	enabled bool
}

// New builds a Logger. When verbose is false every method is a no-op,
// so callers never need to branch on verbosity themselves.
func New(verbose bool) *Logger {
	return &Logger{logger: &log.DefaultLogger, enabled: verbose}
}

// Mode records which CLI mode is running and against which file, once
// per invocation.
func (l *Logger) Mode(mode, file string) {
	if !l.enabled {
		return
	}
	l.logger.Info().Str("mode", mode).Str("file", file).Msg("starting")
}

// Stage logs entry into a named pipeline stage (lex, parse, evaluate)
// and returns a function that logs its duration when called; callers
// defer the returned function.
func (l *Logger) Stage(name string) func() {
	if !l.enabled {
		return func() {}
	}
	start := time.Now()
	l.logger.Info().Str("stage", name).Msg("stage started")
	return func() {
		l.logger.Info().Str("stage", name).Dur("duration", time.Since(start)).Msg("stage finished")
	}
}

// CallDepth logs the native call depth and its configured maximum at
// the moment a call exceeds that maximum, alongside the
// call-stack-exhausted error the interpreter then raises.
func (l *Logger) CallDepth(depth, max int) {
	if !l.enabled {
		return
	}
	l.logger.Warn().Int("depth", depth).Int("max", max).Msg("call depth limit exceeded")
}
