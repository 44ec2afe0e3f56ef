package utils

import (
	"github.com/sirupsen/logrus" // Logging library
)

// SetupLogger configures the global logrus logger: JSON in production, text with timestamps otherwise
func SetupLogger(isProd bool, level string) error {
	if isProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}
