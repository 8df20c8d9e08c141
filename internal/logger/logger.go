package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeLayout = "2006-01-02 15:04:05"

// New builds the process logger. Unknown levels fall back to info.
func New(level string, jsonFormat bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, jsonFormat)
}

// NewWithWriter is New with an explicit destination. The MCP stdio server logs
// to stderr so stdout stays reserved for the protocol.
func NewWithWriter(out io.Writer, level string, jsonFormat bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	if !jsonFormat {
		w = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: timeLayout}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
