package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduction(t *testing.T) {
	logger, err := New("production")
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync()

	logger.Info("test message")
}

func TestNewDevelopment(t *testing.T) {
	logger, err := New("development")
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync()

	logger.Debug("debug is enabled in development")
}

func TestNewWithDefaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "")

	logger := NewWithDefaults()
	assert.NotNil(t, logger)
	defer logger.Sync()
}

func TestNewWithDefaultsProductionEnv(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")

	logger := NewWithDefaults()
	assert.NotNil(t, logger)
	defer logger.Sync()
}
