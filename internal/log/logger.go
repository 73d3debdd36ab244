// Package log builds the process-wide logger.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the root logger every component derives from. Production
// runs at info with plain output; anything else gets debug and color.
func New(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "sovereign-api").
		Str("env", environment).
		Logger()
}
