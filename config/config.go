// Package config provides configuration management for the pricegraph service
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sljivkov/pricegraph/logger"
)

// maxPrecision is the number of fractional digits a fixed-point price carries.
const maxPrecision = 18

// Config holds the application configuration
type Config struct {
	RPCURL                 string        `envconfig:"RPC_URL" required:"true"`                // Ethereum JSON-RPC endpoint
	Assets                 string        `envconfig:"ASSETS"`                                 // Comma-separated symbols or addresses, empty for all known
	OraclePollInterval     time.Duration `envconfig:"ORACLE_POLL_INTERVAL" default:"1m"`      // Chainlink refresh interval
	UnderlyingPollInterval time.Duration `envconfig:"UNDERLYING_POLL_INTERVAL" default:"10m"` // Conversion recipe refresh interval
	RPCRateLimit           float64       `envconfig:"RPC_RATE_LIMIT" default:"10"`            // Contract calls per second
	RPCBurst               int           `envconfig:"RPC_BURST" default:"5"`                  // Contract call burst
	HTTPAddr               string        `envconfig:"HTTP_ADDR" default:":8080"`              // Listen address
	Precision              int32         `envconfig:"PRECISION" default:"6"`                  // Decimal places in rendered prices
	LogLevel               string        `envconfig:"LOG_LEVEL" default:"info"`               // logrus level
	LogFormat              string        `envconfig:"LOG_FORMAT" default:"text"`              // text or json

	overrides []func(*Config)
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}
}

// WithPrecision sets the precision value for price display
func WithPrecision(precision int32) Option {
	return func(c *Config) error {
		if precision < 0 || precision > maxPrecision {
			return fmt.Errorf("precision %d out of range", precision)
		}
		c.overrides = append(c.overrides, func(c *Config) { c.Precision = precision })
		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	u, err := url.ParseRequestURI(c.RPCURL)
	if err != nil {
		return fmt.Errorf("invalid RPC URL: %s", c.RPCURL)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported RPC URL scheme: %s", u.Scheme)
	}

	if c.OraclePollInterval <= 0 || c.UnderlyingPollInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}

	if c.RPCRateLimit <= 0 || c.RPCBurst <= 0 {
		return fmt.Errorf("rpc rate limit and burst must be positive")
	}

	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("precision %d out of range", c.Precision)
	}

	if c.Assets != "" {
		for _, a := range strings.Split(c.Assets, ",") {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("empty asset in list")
			}
		}
	}

	return nil
}

// NewConfig creates a new validated Config instance. Options run before the
// environment is read, so WithEnvFile feeds it; values set by options take
// precedence over the environment.
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			logger.GetLogger().Warnf("⚠️ option application failed: %v", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	for _, override := range cfg.overrides {
		override(&cfg)
	}
	cfg.overrides = nil

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// AssetList returns the configured assets as a trimmed slice, nil when unset
func (c *Config) AssetList() []string {
	if c.Assets == "" {
		return nil
	}

	parts := strings.Split(c.Assets, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}

	return out
}
