package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tranquil.log")
	require.NoError(t, Init("debug", path))
	t.Cleanup(Close)

	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())
	Logger.WithField("workout_id", 7).Info("workout started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workout started")
	assert.Contains(t, string(data), "workout_id=7")
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init("loud", "")
	assert.Error(t, err)
}

func TestInitWithoutPathDiscards(t *testing.T) {
	require.NoError(t, Init("warn", ""))
	assert.Equal(t, logrus.WarnLevel, Logger.GetLevel())
	Logger.Warn("dropped")
}
