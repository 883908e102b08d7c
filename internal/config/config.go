package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

type Config struct {
	Server          ServerConfig             `koanf:"server"`
	Gateway         GatewayConfig            `koanf:"gateway"`
	Provider        ProviderConfig           `koanf:"provider"`
	Store           StoreConfig              `koanf:"store"`
	Logger          LoggerConfig             `koanf:"logger"`
	Accounts        map[string]AccountConfig `koanf:"accounts"`
	TestEnvironment TestEnvironment          `koanf:"test_environment"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type GatewayConfig struct {
	// APIBase is this gateway's public base URL; the provider builds its
	// webhook and redirect calls from it.
	APIBase    string `koanf:"api_base" validate:"required"`
	RobotsPath string `koanf:"robots_path"`
}

type ProviderConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	TestBaseURL string        `koanf:"test_base_url" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type StoreConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// AccountConfig is one merchant's credential set, keyed by the merchant's
// email in the accounts map.
type AccountConfig struct {
	ClientID             string `koanf:"client_id" validate:"required"`
	ClientSecret         string `koanf:"client_secret" validate:"required"`
	SubscriptionKey      string `koanf:"subscription_key" validate:"required"`
	MerchantSerialNumber string `koanf:"merchant_serial_number" validate:"required"`
	TebexSecret          string `koanf:"tebex_secret" validate:"required"`
}

// TestEnvironment switches the gateway to the provider's test API with its
// own set of accounts.
type TestEnvironment struct {
	Enabled  bool                     `koanf:"enabled"`
	Accounts map[string]AccountConfig `koanf:"accounts"`
}

var defaults = map[string]interface{}{
	"server.port":             "8000",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "15s",
	"server.idle_timeout":     "60s",
	"provider.base_url":       "https://api.vipps.no",
	"provider.test_base_url":  "https://apitest.vipps.no",
	"provider.conn_timeout":   "10s",
	"store.base_url":          "https://plugin.buycraft.net",
	"store.conn_timeout":      "10s",
	"logger.level":            "info",
}

// LoadConfig reads the JSON config file (GATEWAY_CONFIG_FILE, default
// config.json) holding the merchant accounts, then overlays GATEWAY_*
// environment variables on top.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	path := os.Getenv("GATEWAY_CONFIG_FILE")
	if path == "" {
		path = "config.json"
	}

	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		logger.Error("failed to load config file", "path", path, "error", err)
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	for email, acct := range mainConfig.ActiveAccounts() {
		if err := validate.Struct(acct); err != nil {
			logger.Error("account validation failed", "email", email, "error", err)
			return nil, fmt.Errorf("account %s: %w", email, err)
		}
	}

	if len(mainConfig.ActiveAccounts()) == 0 {
		return nil, fmt.Errorf("no accounts configured")
	}

	return mainConfig, nil
}

// ActiveAccounts returns the account set the gateway should serve,
// honoring the test-environment switch.
func (c *Config) ActiveAccounts() map[string]AccountConfig {
	if c.TestEnvironment.Enabled {
		return c.TestEnvironment.Accounts
	}
	return c.Accounts
}

// ProviderBaseURL returns the provider API base, honoring the
// test-environment switch.
func (c *Config) ProviderBaseURL() string {
	if c.TestEnvironment.Enabled {
		return c.Provider.TestBaseURL
	}
	return c.Provider.BaseURL
}
