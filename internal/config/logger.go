package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared JSON logger. LOG_LEVEL controls verbosity
// (debug, info, warn, error); the default is info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
