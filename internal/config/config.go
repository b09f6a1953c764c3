package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/advpress/advpress-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, loaded from a YAML file per
// APP_ENV with environment-variable overrides on top.
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	JWT struct {
		Secret      string `yaml:"secret"`
		ExpiryHours int    `yaml:"expiry_hours"`
	} `yaml:"jwt"`

	History struct {
		// Capacity bounds the per-user publish history (most-recent-first)
		Capacity int `yaml:"capacity"`
		// ModerationMarkers are legacy message substrings identifying
		// moderation rejections in entries without the structured flag
		ModerationMarkers []string `yaml:"moderation_markers"`
	} `yaml:"history"`

	Audit struct {
		Enabled   bool   `yaml:"enabled"`
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"audit"`

	Security struct {
		ClientAuthToken string `yaml:"client_auth_token"`
	} `yaml:"security"`

	Retention struct {
		// Days after which unclaimed posts are trashed; <= 0 disables the sweep
		Days int `yaml:"days"`
		// SweepIntervalHours between cleanup runs
		SweepIntervalHours int `yaml:"sweep_interval_hours"`
	} `yaml:"retention"`

	TestMode bool `yaml:"test_mode"`

	Accounts []AccountConfig `yaml:"accounts"`

	Categories []string `yaml:"categories"`
}

// AccountConfig seeds an operator account. Passwords are stored as SHA-256
// hex digests, never plaintext.
type AccountConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// Load reads the YAML config file and applies env overrides and defaults
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("CLIENT_AUTH_TOKEN"); v != "" {
		cfg.Security.ClientAuthToken = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8082
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = os.Getenv("APP_ENV")
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "local"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.JWT.ExpiryHours == 0 {
		cfg.JWT.ExpiryHours = 24
	}
	if cfg.History.Capacity == 0 {
		cfg.History.Capacity = 50
	}
	if len(cfg.History.ModerationMarkers) == 0 {
		cfg.History.ModerationMarkers = []string{"审核", "敏感", "moderation", "sensitive"}
	}
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = 45
	}
	if cfg.Retention.SweepIntervalHours == 0 {
		cfg.Retention.SweepIntervalHours = 24
	}
}

// DSN builds the MySQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// LogResolved logs the effective configuration, omitting secrets
func LogResolved(cfg *Config) {
	logger.Info("config: env=%s port=%d db=%s@%s:%d/%s redis=%s:%d history_capacity=%d retention_days=%d test_mode=%v accounts=%d",
		cfg.Server.Env, cfg.Server.Port,
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
		cfg.Redis.Host, cfg.Redis.Port,
		cfg.History.Capacity, cfg.Retention.Days, cfg.TestMode, len(cfg.Accounts))
}
