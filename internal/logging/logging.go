// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog output and level from ENV and LOGLEVEL. Extra
// writers (e.g. a GELF sink) receive the raw JSON events.
func Setup(extra ...io.Writer) {
	production := os.Getenv("ENV") == "production"

	var out io.Writer = os.Stderr
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	} else {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if len(extra) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, extra...)...)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	level, ok := parseLevel(levelStr)
	if !ok {
		level = zerolog.InfoLevel
		if levelStr == "" && production {
			level = zerolog.WarnLevel
		}
	}
	zerolog.SetGlobalLevel(level)
	if !ok && levelStr != "" {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}
}

func parseLevel(s string) (zerolog.Level, bool) {
	switch s {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	case "disabled":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}
