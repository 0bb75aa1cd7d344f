package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"HITBTC_WS_URL", "LOG_LEVEL", "LOG_FILE", "PING_INTERVAL", "HANDSHAKE_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		URL:              "wss://api.hitbtc.com/api/2/ws",
		LogLevel:         "info",
		LogFile:          "logs/booktrack.log",
		PingInterval:     15 * time.Second,
		HandshakeTimeout: 15 * time.Second,
	}, cfg)
}

func TestLoadEnvAndDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nPING_INTERVAL=2s\nHITBTC_WS_URL=ws://from-dotenv\n"), 0o644))
	t.Setenv("HITBTC_WS_URL", "ws://from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ws://from-env", cfg.URL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.PingInterval)
}

func TestLoadBadDuration(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("PING_INTERVAL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "PING_INTERVAL")

	t.Setenv("PING_INTERVAL", "")
	t.Setenv("HANDSHAKE_TIMEOUT", "-1s")
	_, err = Load()
	assert.ErrorContains(t, err, "HANDSHAKE_TIMEOUT")
}
