package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Environment selects the log format and level.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment falls back to Development for unknown values.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

// New builds the process logger. Production writes JSON at info level,
// everything else uses the console writer at debug level.
func New(env Environment, component string) zerolog.Logger {
	return NewWithWriter(env, component, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env Environment, component string, w io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if env == Production {
		logger = zerolog.New(w).Level(zerolog.InfoLevel)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(zerolog.DebugLevel)
	}
	return logger.With().Timestamp().Str("component", component).Logger()
}

// Nop returns a logger that discards everything, used by tests and by
// constructors that receive no logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
