// Package logging provides structured logging for nbcheck using zerolog.
// Console output is used when stderr is a terminal, JSON otherwise, so a
// run piped into a log collector keeps the host, interface and check key
// of every apply write as fields.
//
//	ctx := logging.WithHost(ctx, "leaf1")
//	logging.FromContext(ctx).Debug().Msg("matched 12 interfaces")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// defaultLogger serves library callers that never pass a logger.
var defaultLogger = NewLoggerFromConfig(&Config{
	Level:   os.Getenv("LOG_LEVEL"),
	NoColor: os.Getenv("NO_COLOR") != "",
})

// Default returns the package logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
