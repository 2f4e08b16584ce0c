package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/example/community-slots/internal/recurrence"
)

// Config captures the file and environment driven settings of the slot service.
type Config struct {
	HTTPPort                int           `yaml:"http_port"`
	SQLiteDSN               string        `yaml:"sqlite_dsn"`
	Timezone                string        `yaml:"timezone"`
	RecurrenceHorizonMonths int           `yaml:"recurrence_horizon_months"`
	PreviewCacheSize        int           `yaml:"preview_cache_size"`
	PreviewCacheTTL         time.Duration `yaml:"preview_cache_ttl"`
	CompletionSweepCron     string        `yaml:"completion_sweep_cron"`
	LogLevel                string        `yaml:"log_level"`
	LogFormat               string        `yaml:"log_format"`

	location *time.Location
}

// Default returns the settings used when neither a file nor the environment
// overrides a value.
func Default() Config {
	return Config{
		HTTPPort:                8080,
		SQLiteDSN:               "data/slots.db",
		Timezone:                "Asia/Tokyo",
		RecurrenceHorizonMonths: recurrence.DefaultHorizonMonths,
		PreviewCacheSize:        256,
		PreviewCacheTTL:         5 * time.Minute,
		CompletionSweepCron:     "*/10 * * * *",
		LogLevel:                "info",
		LogFormat:               "json",
	}
}

// Location returns the organizer time zone resolved during Load.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Load builds the configuration from defaults, the optional YAML file named
// by SLOTS_CONFIG_FILE and finally SLOTS_* environment variables. Every
// invalid value is reported in one error.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("SLOTS_CONFIG_FILE")); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	var invalid []string

	if value := env("SLOTS_HTTP_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			invalid = append(invalid, "SLOTS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := env("SLOTS_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tz := env("SLOTS_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}

	if value := env("SLOTS_RECURRENCE_HORIZON_MONTHS"); value != "" {
		months, err := strconv.Atoi(value)
		if err != nil {
			invalid = append(invalid, "SLOTS_RECURRENCE_HORIZON_MONTHS")
		} else {
			cfg.RecurrenceHorizonMonths = months
		}
	}

	if value := env("SLOTS_PREVIEW_CACHE_SIZE"); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			invalid = append(invalid, "SLOTS_PREVIEW_CACHE_SIZE")
		} else {
			cfg.PreviewCacheSize = size
		}
	}

	if value := env("SLOTS_PREVIEW_CACHE_TTL"); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			invalid = append(invalid, "SLOTS_PREVIEW_CACHE_TTL")
		} else {
			cfg.PreviewCacheTTL = ttl
		}
	}

	if spec := env("SLOTS_COMPLETION_SWEEP_CRON"); spec != "" {
		cfg.CompletionSweepCron = spec
	}
	if level := env("SLOTS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := env("SLOTS_LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	invalid = append(invalid, cfg.validate()...)
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// validate resolves the time zone and returns the keys whose values are unusable.
func (c *Config) validate() []string {
	var invalid []string

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, "http_port")
	}
	if strings.TrimSpace(c.SQLiteDSN) == "" {
		invalid = append(invalid, "sqlite_dsn")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || strings.TrimSpace(c.Timezone) == "" {
		invalid = append(invalid, "timezone")
	} else {
		c.location = loc
	}

	if c.RecurrenceHorizonMonths <= 0 {
		invalid = append(invalid, "recurrence_horizon_months")
	}
	if c.PreviewCacheSize <= 0 {
		invalid = append(invalid, "preview_cache_size")
	}
	if c.PreviewCacheTTL <= 0 {
		invalid = append(invalid, "preview_cache_ttl")
	}
	if _, err := cron.ParseStandard(c.CompletionSweepCron); err != nil {
		invalid = append(invalid, "completion_sweep_cron")
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		invalid = append(invalid, "log_format")
	}

	return invalid
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
