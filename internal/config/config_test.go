package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  host: 127.0.0.1
  port: 9090
database:
  dsn: postgres://xchain@localhost/xchain
bridge:
  self: bridge.acct
  bank: bank.acct
  max_address_length: 64
nats:
  url: nats://localhost:4222
admin:
  allowedIPs: ["10.0.0.0/8"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, "bridge.acct", cfg.Bridge.Self)
	assert.Equal(t, "bank.acct", cfg.Bridge.Bank)
	assert.Equal(t, 64, cfg.Bridge.MaxAddressLength)
	// untouched sections keep their defaults
	assert.Equal(t, 256, cfg.Bridge.MaxMemoLength)
	assert.Equal(t, "refuel", cfg.Bridge.RefuelMemo)
	assert.Equal(t, "xchain.farm.reward", cfg.NATS.Subjects.Reward)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Admin.AllowedIPs)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://override")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("BRIDGE_BANK", "other.bank")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres://override", cfg.Database.DSN)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "other.bank", cfg.Bridge.Bank)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsMissingIdentity(t *testing.T) {
	_, err := Load(writeConfig(t, "bridge:\n  self: \"\"\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigSetsGlobal(t *testing.T) {
	AppConfig = nil
	require.NoError(t, LoadConfig(writeConfig(t, sampleYAML)))
	require.NotNil(t, AppConfig)
	assert.Equal(t, 9090, AppConfig.Server.Port)
}
