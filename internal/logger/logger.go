package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger from LOG_LEVEL and LOG_FORMAT. It runs before
// the config is loaded, so it reads the environment directly.
func New() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return Build(os.Stdout, level, os.Getenv("LOG_FORMAT"))
}

func Build(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	return Build(os.Stdout, level, os.Getenv("LOG_FORMAT"))
}

var Module = fx.Provide(New)
