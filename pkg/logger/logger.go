package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger with the given level. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)

	return log
}

// WithComponent returns an entry tagged with the component name.
// All long-lived services log through one of these.
func WithComponent(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
