package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Audit         AuditConfig         `yaml:"audit"`
	League        LeagueConfig        `yaml:"league"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
	// NKeySeedFile is an optional path to an nkey seed used to authenticate
	// with the broker.
	NKeySeedFile string `yaml:"nkey_seed_file"`
	// StreamPrefix prefixes durable consumer names.
	StreamPrefix string `yaml:"stream_prefix"`
}

// HTTPConfig holds the read API listener settings.
type HTTPConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per IP
	RateBurst int     `yaml:"rate_burst"`
	// PreviewRateLimit bounds transfer previews per IP and squad.
	PreviewRateLimit float64 `yaml:"preview_rate_limit"`
	PreviewRateBurst int     `yaml:"preview_rate_burst"`
}

// AuditConfig controls the periodic role timestamp sweep.
type AuditConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Repair enables the conservative repair path during scheduled sweeps.
	Repair bool `yaml:"repair"`
}

// LeagueConfig holds the rules applied to leagues created without explicit rules.
type LeagueConfig struct {
	DefaultRules squaddomain.LeagueRules `yaml:"default_rules"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	ServiceName    string `yaml:"service_name"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.League.DefaultRules.Validate(); err != nil {
		return nil, fmt.Errorf("league.default_rules: %w", err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED_FILE"); v != "" {
		cfg.NATS.NKeySeedFile = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("HTTP_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_BURST value: %v", err)
		}
		cfg.HTTP.RateBurst = n
	}
	if v := os.Getenv("HTTP_PREVIEW_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PREVIEW_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.PreviewRateLimit = f
	}
	if v := os.Getenv("HTTP_PREVIEW_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PREVIEW_RATE_BURST value: %v", err)
		}
		cfg.HTTP.PreviewRateBurst = n
	}
	if v := os.Getenv("AUDIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUDIT_INTERVAL value: %v", err)
		}
		cfg.Audit.Interval = d
	}
	if v := os.Getenv("AUDIT_REPAIR"); v != "" {
		cfg.Audit.Repair = v == "true"
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RateLimit <= 0 {
		cfg.HTTP.RateLimit = 10
	}
	if cfg.HTTP.RateBurst <= 0 {
		cfg.HTTP.RateBurst = 20
	}
	if cfg.HTTP.PreviewRateLimit <= 0 {
		cfg.HTTP.PreviewRateLimit = 1
	}
	if cfg.HTTP.PreviewRateBurst <= 0 {
		cfg.HTTP.PreviewRateBurst = 5
	}
	if cfg.Audit.Interval <= 0 {
		cfg.Audit.Interval = 6 * time.Hour
	}
	if cfg.NATS.StreamPrefix == "" {
		cfg.NATS.StreamPrefix = "fantasy-bot"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "fantasy-bot"
	}
	if cfg.League.DefaultRules == (squaddomain.LeagueRules{}) {
		cfg.League.DefaultRules = squaddomain.DefaultLeagueRules
	}
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	// Load Postgres DSN
	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// Load NATS URL
	cfg.NATS.URL = os.Getenv("NATS_URL")
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}
