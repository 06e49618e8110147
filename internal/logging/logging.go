// Package logging hands out scoped leveled loggers for the rest of the
// module. Levels are controlled through the PION_LOG_* environment
// variables understood by pion/logging.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for the given scope, e.g. "driver"
// or "capture".
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}
