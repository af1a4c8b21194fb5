// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup returns a text logger writing to stderr at the given level. An
// empty or unknown level falls back to info.
func Setup(level string) *logrus.Logger {
	return SetupTo(level, os.Stderr)
}

// SetupTo is Setup with an explicit writer.
func SetupTo(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(w)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
