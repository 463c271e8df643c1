package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyphera/gator-permissions/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STAGE", "LOG_LEVEL", "HTTP_ADDR", "STORAGE_BACKEND", "DATABASE_URL", "LEVELDB_PATH",
		"ACCOUNTS_API_URL", "TOKENS_API_URL", "PRICE_API_URL", "HTTP_TIMEOUT_MS",
		"MAX_RESPONSE_SIZE_BYTES", "RETRY_COUNT", "RETRY_DELAY_MS", "RPC_URLS", "RPC_TIMEOUT_MS",
		"SUPPORTED_CHAINS", "VERIFY_REVOCATION_RECEIPT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES", config.ConfigFileEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Stage)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 1, cfg.RetryOptions().Retries)
	assert.Equal(t, time.Second, cfg.RetryOptions().Delay)
	assert.Empty(t, cfg.RPCEndpoints)
	assert.False(t, cfg.VerifyRevocationReceipt)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAGE", "prod")
	t.Setenv("STORAGE_BACKEND", "leveldb")
	t.Setenv("LEVELDB_PATH", "/var/lib/gator")
	t.Setenv("RETRY_COUNT", "3")
	t.Setenv("RETRY_DELAY_MS", "250")
	t.Setenv("RPC_URLS", "1=https://eth.rpc.test, 0xaa36a7=https://sepolia.rpc.test")
	t.Setenv("SUPPORTED_CHAINS", "1,0x89")
	t.Setenv("VERIFY_REVOCATION_RECEIPT", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "/var/lib/gator", cfg.Storage.LevelDBPath)
	assert.Equal(t, 3, cfg.RetryOptions().Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryOptions().Delay)
	assert.Equal(t, map[uint64]string{1: "https://eth.rpc.test", 11155111: "https://sepolia.rpc.test"}, cfg.RPCEndpoints)
	assert.Equal(t, []uint64{1, 11155111}, cfg.RPCChains())
	assert.Equal(t, []uint64{1, 137}, cfg.SupportedChains)
	assert.True(t, cfg.VerifyRevocationReceipt)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gator.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
Stage = "local"
HTTPAddr = ":9090"

[Storage]
Backend = "postgres"
DatabaseURL = "postgres://gator@localhost/gator"

[RPC]
"137" = "https://polygon.rpc.test"
`), 0o600))
	t.Setenv(config.ConfigFileEnv, path)
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Stage)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "https://polygon.rpc.test", cfg.RPCEndpoints[137])
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
		{name: "unknown stage", env: map[string]string{"STAGE": "staging"}},
		{name: "malformed retry count", env: map[string]string{"RETRY_COUNT": "many"}},
		{name: "malformed rpc entry", env: map[string]string{"RPC_URLS": "https://eth.rpc.test"}},
		{name: "non numeric rpc chain", env: map[string]string{"RPC_URLS": "mainnet=https://eth.rpc.test"}},
		{name: "malformed trusted proxy", env: map[string]string{"TRUSTED_PROXIES": "load-balancer"}},
		{name: "unknown file key", file: "Colour = \"blue\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "gator.toml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
				t.Setenv(config.ConfigFileEnv, path)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
