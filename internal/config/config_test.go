package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v, "/tmp/tranquil")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tranquil/tranquil.db", cfg.DBPath)
	assert.Equal(t, "/tmp/tranquil/tranquil.log", cfg.LogFile)
	assert.True(t, cfg.HealthAvailable)
	assert.Equal(t, AuthorizationGrant, cfg.HealthAuthorization)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.SimulatorInterval)
	assert.Equal(t, 5, cfg.SimulatorHRVEvery)
	assert.Equal(t, MirrorLocal, cfg.MirrorBackend)
	assert.Equal(t, "7 days", cfg.HistoryWindow)
}

func TestLoad_FirebaseRequiresURL(t *testing.T) {
	v := viper.New()
	SetDefaults(v, t.TempDir())
	v.Set("mirror.backend", "firebase")

	_, err := Load(v)
	assert.Error(t, err)

	v.Set("mirror.firebase.database_url", "https://example-default-rtdb.firebaseio.com")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, MirrorFirebase, cfg.MirrorBackend)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v, t.TempDir())
	v.Set("health.authorization", "maybe")
	_, err := Load(v)
	assert.Error(t, err)

	v = viper.New()
	SetDefaults(v, t.TempDir())
	v.Set("mirror.backend", "s3")
	_, err = Load(v)
	assert.Error(t, err)
}

func TestInit_ReadsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "health:\n  authorization: deny\nmirror:\n  backend: none\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, AuthorizationDeny, cfg.HealthAuthorization)
	assert.Equal(t, MirrorNone, cfg.MirrorBackend)
}

func TestInit_MissingExplicitFileFails(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInit_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRANQUIL_HEALTH_AUTHORIZATION", "deny")

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, AuthorizationDeny, cfg.HealthAuthorization)
}
