package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to out.
// env=dev (or development) uses a human-friendly console writer.
func NewLogger(env string, out io.Writer) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
