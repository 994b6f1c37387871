// Package config loads service settings from the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/s4sachin/dynamic-form-builder/internal/logging"
)

const (
	StageDev        = "dev"
	StageTest       = "test"
	StageProduction = "production"
)

// Config keys. Each maps to the upper-cased environment variable.
const (
	KeyAppStage               = "app_stage"
	KeyPort                   = "port"
	KeyCORSOrigin             = "cors_origin"
	KeyLogLevel               = "log_level"
	KeyDataDir                = "data_dir"
	KeyDatabaseURL            = "database_url"
	KeySchemaPath             = "schema_path"
	KeyGelfAddr               = "gelf_addr"
	KeyEnableAdmin            = "enable_admin"
	KeyRateLimitRedisAddr     = "rate_limit_redis_addr"
	KeyRateLimitRedisPassword = "rate_limit_redis_password"
	KeyRateLimitPerMinute     = "rate_limit_per_minute"
)

var keys = []string{
	KeyAppStage, KeyPort, KeyCORSOrigin, KeyLogLevel, KeyDataDir,
	KeyDatabaseURL, KeySchemaPath, KeyGelfAddr, KeyEnableAdmin,
	KeyRateLimitRedisAddr, KeyRateLimitRedisPassword, KeyRateLimitPerMinute,
}

type Config struct {
	Stage                  string
	Port                   int
	CORSOrigin             string
	LogLevel               string
	DataDir                string
	DatabaseURL            string
	SchemaPath             string
	GelfAddr               string
	EnableAdmin            bool
	RateLimitRedisAddr     string
	RateLimitRedisPassword string
	RateLimitPerMinute     int
}

// Load reads configuration. Environment variables win over the config
// file; an explicit configFile must exist, while ./config.yaml is optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyAppStage, StageDev)
	v.SetDefault(KeyPort, 3000)
	v.SetDefault(KeyCORSOrigin, "http://localhost:5173")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDataDir, "./data")
	v.SetDefault(KeyRateLimitPerMinute, 30)
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Stage:                  strings.ToLower(strings.TrimSpace(v.GetString(KeyAppStage))),
		CORSOrigin:             strings.TrimSpace(v.GetString(KeyCORSOrigin)),
		LogLevel:               strings.TrimSpace(v.GetString(KeyLogLevel)),
		DataDir:                strings.TrimSpace(v.GetString(KeyDataDir)),
		DatabaseURL:            strings.TrimSpace(v.GetString(KeyDatabaseURL)),
		SchemaPath:             strings.TrimSpace(v.GetString(KeySchemaPath)),
		GelfAddr:               strings.TrimSpace(v.GetString(KeyGelfAddr)),
		RateLimitRedisAddr:     strings.TrimSpace(v.GetString(KeyRateLimitRedisAddr)),
		RateLimitRedisPassword: v.GetString(KeyRateLimitRedisPassword),
	}

	var err error
	if cfg.Port, err = intValue(v, KeyPort); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = intValue(v, KeyRateLimitPerMinute); err != nil {
		return nil, err
	}
	cfg.EnableAdmin = cfg.Stage == StageDev
	if v.IsSet(KeyEnableAdmin) {
		if cfg.EnableAdmin, err = strconv.ParseBool(strings.TrimSpace(v.GetString(KeyEnableAdmin))); err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", KeyEnableAdmin, v.GetString(KeyEnableAdmin))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func intValue(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Stage {
	case StageDev, StageTest, StageProduction:
	default:
		return fmt.Errorf("%s: must be one of dev, test, production (got %q)", KeyAppStage, c.Stage)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%s: must be between 1 and 65535 (got %d)", KeyPort, c.Port)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	if c.DataDir == "" && c.DatabaseURL == "" {
		return fmt.Errorf("%s: required when %s is empty", KeyDataDir, KeyDatabaseURL)
	}
	if c.RateLimitRedisAddr != "" && c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%s: must be positive (got %d)", KeyRateLimitPerMinute, c.RateLimitPerMinute)
	}
	return nil
}

func (c *Config) IsDev() bool { return c.Stage == StageDev }

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }
