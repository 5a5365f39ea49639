package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config application configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	Auth     AuthConfig     `yaml:"auth"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`  // CORS configuration
	Admin    AdminConfig    `yaml:"admin"` // Admin API access control configuration
}

// ServerConfig server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig Database configuration
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	Driver       string `yaml:"driver"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	LogQueries   bool   `yaml:"log_queries"`
}

// NATSConfig NATS message server configuration
type NATSConfig struct {
	URL           string                  `yaml:"url"`
	Timeout       int                     `yaml:"timeout"`        // seconds
	ReconnectWait int                     `yaml:"reconnect_wait"` // seconds
	MaxReconnects int                     `yaml:"max_reconnects"`
	Subjects      NATSSubjectsConfig      `yaml:"subjects"`
	Subscriptions NATSSubscriptionsConfig `yaml:"subscriptions"`
}

// NATSSubjectsConfig subjects the bridge publishes on
type NATSSubjectsConfig struct {
	Reward string `yaml:"reward"`
	Orders string `yaml:"orders"` // prefix, completed as <prefix>.<kind>.<status>
}

// NATSSubscriptionsConfig NATS subscription configuration
type NATSSubscriptionsConfig struct {
	Transfers NATSSubjectConfig `yaml:"transfers"`
}

// NATSSubjectConfig NATS subject configuration
type NATSSubjectConfig struct {
	Subject     string `yaml:"subject"`
	Queue       string `yaml:"queue"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`
}

// AuthConfig JWT configuration
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	Issuer        string `yaml:"issuer"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// BridgeConfig identities and limits of the bridge itself
type BridgeConfig struct {
	Self             string `yaml:"self"`               // system identity, owner of bridged funds
	Bank             string `yaml:"bank"`               // the only trusted transfer issuer
	RefuelMemo       string `yaml:"refuel_memo"`        // incoming transfers with this memo are ignored
	MaxAddressLength int    `yaml:"max_address_length"` // exclusive upper bound
	MaxMemoLength    int    `yaml:"max_memo_length"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`   // empty logs to stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// CORSConfig CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`   // List of allowed origins
	AllowCredentials bool     `yaml:"allowCredentials"` // Whether to allow credentials
	MaxAge           int      `yaml:"maxAge"`           // Max age for preflight requests (seconds)
}

// AdminConfig Admin API access control configuration
type AdminConfig struct {
	AllowedIPs []string `yaml:"allowedIPs"` // List of allowed IP addresses or CIDR ranges
	TOTPSecret string   `yaml:"totpSecret"` // base32 secret; empty disables the second factor
}

var AppConfig *Config

// Default returns a configuration usable for local development.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080, Mode: "release"},
		Database: DatabaseConfig{Driver: "postgres", MaxOpenConns: 20, MaxIdleConns: 5},
		NATS: NATSConfig{
			Timeout:       10,
			ReconnectWait: 2,
			MaxReconnects: 60,
			Subjects: NATSSubjectsConfig{
				Reward: "xchain.farm.reward",
				Orders: "xchain.orders",
			},
			Subscriptions: NATSSubscriptionsConfig{
				Transfers: NATSSubjectConfig{Subject: "xchain.bank.transfers", Queue: "xchain-backend"},
			},
		},
		Auth: AuthConfig{Issuer: "xchain-backend", TokenTTLHours: 24},
		Bridge: BridgeConfig{
			Self:             "amax.xchain",
			Bank:             "amax.mtoken",
			RefuelMemo:       "refuel",
			MaxAddressLength: 128,
			MaxMemoLength:    256,
		},
		Log: LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30},
	}
}

// Load reads configPath over the defaults and applies environment overrides
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
		if _, err := os.Stat("config.local.yaml"); err == nil {
			configPath = "config.local.yaml"
			log.Printf("🔧 Using local configuration file: config.local.yaml")
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig Load configuration file into AppConfig
func LoadConfig(configPath string) error {
	config, err := Load(configPath)
	if err != nil {
		return err
	}
	if len(config.Admin.AllowedIPs) > 0 {
		log.Printf("📋 [Config] Admin IP whitelist loaded: %d IPs/CIDRs configured", len(config.Admin.AllowedIPs))
	} else {
		log.Printf("📋 [Config] Admin IP whitelist: not configured (localhost-only mode)")
	}
	AppConfig = config
	return nil
}

// Validate rejects configurations the bridge cannot run with.
func (c *Config) Validate() error {
	if c.Bridge.Self == "" {
		return fmt.Errorf("bridge.self is required")
	}
	if c.Bridge.Bank == "" {
		return fmt.Errorf("bridge.bank is required")
	}
	if c.Bridge.MaxAddressLength <= 0 || c.Bridge.MaxMemoLength <= 0 {
		return fmt.Errorf("bridge.max_address_length and bridge.max_memo_length must be positive")
	}
	return nil
}

func overrideFromEnv(config *Config) {
	// DatabaseDSN
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	// server configuration
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// NATSConfiguration
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		config.NATS.URL = natsURL
	}
	if natsTimeout := os.Getenv("NATS_TIMEOUT"); natsTimeout != "" {
		if t, err := strconv.Atoi(natsTimeout); err == nil {
			config.NATS.Timeout = t
		}
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if secret := os.Getenv("ADMIN_TOTP_SECRET"); secret != "" {
		config.Admin.TOTPSecret = secret
	}

	if self := os.Getenv("BRIDGE_SELF"); self != "" {
		config.Bridge.Self = self
	}
	if bank := os.Getenv("BRIDGE_BANK"); bank != "" {
		config.Bridge.Bank = bank
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	// CORS: comma separated
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		var list []string
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
		config.CORS.AllowedOrigins = list
	}
}
