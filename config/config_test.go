package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with environment variables", func(t *testing.T) {
		t.Setenv("RPC_URL", "https://eth.example.com/v2/key")
		t.Setenv("ASSETS", "DAI, wstETH,0x6B175474E89094C44Da98b954EedeAC495271d0F")
		t.Setenv("ORACLE_POLL_INTERVAL", "30s")
		t.Setenv("PRECISION", "2")
		t.Setenv("LOG_FORMAT", "json")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "https://eth.example.com/v2/key", cfg.RPCURL)
		assert.Equal(t, 30*time.Second, cfg.OraclePollInterval)
		assert.Equal(t, int32(2), cfg.Precision)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, []string{"DAI", "wstETH", "0x6B175474E89094C44Da98b954EedeAC495271d0F"}, cfg.AssetList())
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("RPC_URL", "wss://eth.example.com")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, time.Minute, cfg.OraclePollInterval)
		assert.Equal(t, 10*time.Minute, cfg.UnderlyingPollInterval)
		assert.Equal(t, 10.0, cfg.RPCRateLimit)
		assert.Equal(t, 5, cfg.RPCBurst)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, int32(6), cfg.Precision)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Nil(t, cfg.AssetList())
	})

	t.Run("with missing rpc url", func(t *testing.T) {
		t.Setenv("RPC_URL", "")

		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("option overrides environment", func(t *testing.T) {
		t.Setenv("RPC_URL", "https://eth.example.com")
		t.Setenv("PRECISION", "2")

		cfg, err := NewConfig(WithPrecision(4))
		require.NoError(t, err)
		assert.Equal(t, int32(4), cfg.Precision)
	})

	t.Run("out of range precision option is ignored", func(t *testing.T) {
		t.Setenv("RPC_URL", "https://eth.example.com")

		cfg, err := NewConfig(WithPrecision(19))
		require.NoError(t, err)
		assert.Equal(t, int32(6), cfg.Precision)
	})

	t.Run("with env file", func(t *testing.T) {
		// Registered with t.Setenv so the value loaded from the file is cleaned up.
		t.Setenv("RPC_URL", "")
		require.NoError(t, os.Unsetenv("RPC_URL"))

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("RPC_URL=https://from-file.example.com\n"), 0o600))

		cfg, err := NewConfig(WithEnvFile(path))
		require.NoError(t, err)
		assert.Equal(t, "https://from-file.example.com", cfg.RPCURL)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			RPCURL:                 "https://eth.example.com",
			OraclePollInterval:     time.Minute,
			UnderlyingPollInterval: time.Minute,
			RPCRateLimit:           1,
			RPCBurst:               1,
			Precision:              6,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad url", mutate: func(c *Config) { c.RPCURL = "not a url" }, wantErr: true},
		{name: "bad scheme", mutate: func(c *Config) { c.RPCURL = "ftp://eth.example.com" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.UnderlyingPollInterval = 0 }, wantErr: true},
		{name: "zero rate", mutate: func(c *Config) { c.RPCRateLimit = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.RPCBurst = 0 }, wantErr: true},
		{name: "negative precision", mutate: func(c *Config) { c.Precision = -1 }, wantErr: true},
		{name: "empty asset", mutate: func(c *Config) { c.Assets = "DAI,,ETH" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
