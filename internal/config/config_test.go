package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devportal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  allowed_origins: ["https://store.example"]
supabase:
  url: "https://proj.supabase.co"
  service_key: "key"
verification:
  bot: "custom_bot"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://store.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://proj.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "custom_bot", cfg.Verification.Bot)
	// Unset fields keep defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSec)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "zenhub_verifier_bot", cfg.Verification.Bot)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DEVPORTAL_ADDR", ":7777")
	t.Setenv("DEVPORTAL_LOG_LEVEL", "debug")

	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
