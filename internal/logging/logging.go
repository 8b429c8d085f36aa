// Package logging configures the process-wide structured logger.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger from the configured level and format. Unknown
// values fall back to info/text rather than failing startup.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
