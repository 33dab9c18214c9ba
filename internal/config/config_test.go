package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a scratch directory with no API env vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, name := range append(baseURLEnv, "CLAIMSDASH_LOG_LEVEL") {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "flexoki-dark", cfg.Appearance.Theme)
	assert.Equal(t, filepath.Join(dir, "state", "claimsdash", "claimsdash.log"), cfg.Logging.File)
	assert.False(t, Exists())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://claims.example.com"
	cfg.API.TimeoutSec = 5
	cfg.Appearance.Theme = "terminal"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, 5*time.Second, got.Timeout())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://from-file.example.com"
	require.NoError(t, Save(cfg))

	t.Setenv("PUBLIC_API_URL", "https://public.example.com")
	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://public.example.com", got.API.BaseURL)

	t.Setenv("CLAIMS_API_URL", "https://claims.example.com")
	got, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "https://claims.example.com", got.API.BaseURL, "CLAIMS_API_URL wins")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CLAIMS_API_URL", "")
	require.NoError(t, os.Unsetenv("CLAIMS_API_URL"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLAIMS_API_URL=http://dotenv:9000\n"), 0o600))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:9000", got.API.BaseURL)
}

func TestLoad_BadTOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url = "), 0o600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestNewLogger(t *testing.T) {
	dir := isolate(t)

	nop, err := NewLogger(LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, nop)

	_, err = NewLogger(LoggingConfig{Level: "loud", File: filepath.Join(dir, "x.log")})
	assert.Error(t, err)

	path := filepath.Join(dir, "logs", "claimsdash.log")
	logger, err := NewLogger(LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"logger":"claimsdash"`)
}
