package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logrus logger writing to out (stdout when nil) at the
// given level. An empty or unknown level falls back to info with a warning.
func New(out io.Writer, level string) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(out)
	configureLogLevel(log, level)
	return log
}

// FromEnv is New with the level read from LOG_LEVEL.
func FromEnv(out io.Writer) *logrus.Logger {
	return New(out, os.Getenv("LOG_LEVEL"))
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func configureLogLevel(log *logrus.Logger, levelStr string) {
	log.SetLevel(logrus.InfoLevel)
	if levelStr == "" {
		return
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'", levelStr)
		return
	}
	log.SetLevel(level)
}
