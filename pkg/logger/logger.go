// Package logger configures the engine-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the service logger. Development mode gets colored text at
// debug level; anything else gets JSON for the log pipeline.
func InitLogger(level string, development bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if level == "" {
		level = "info"
		if development {
			level = "debug"
		}
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
		log.WithField("log_level", level).Warn("Unknown log level, defaulting to info")
	}
	log.SetLevel(parsed)

	if development && strings.ToLower(os.Getenv("LOG_FORMAT")) != "json" {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	return log
}
