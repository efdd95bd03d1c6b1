package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/pkg/constants"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum level written. Unknown levels fall back to info.
	Level string

	// Format is json, console or auto. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path opened for append.
	Output string

	NoColor bool

	// AddCaller includes file:line in every entry.
	AddCaller bool
}

// NewLoggerFromConfig creates a logger and sets the zerolog global level.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(getWriter(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// getWriter opens the configured output and wraps it for console format.
func getWriter(cfg *Config) io.Writer {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	case "discard":
		return io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			output = os.Stderr
		} else {
			output = file
		}
	}

	console := strings.EqualFold(cfg.Format, "console")
	if cfg.Format == "" || strings.EqualFold(cfg.Format, "auto") {
		console = output == os.Stderr && stderrIsTerminal()
	}
	if !console {
		return output
	}
	return zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
}
