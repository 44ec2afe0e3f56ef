package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	})

	require.NoError(t, SetupLogger(true, "warn"))
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	require.NoError(t, SetupLogger(false, "debug"))
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.Error(t, SetupLogger(false, "loud"))
}
