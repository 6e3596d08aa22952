package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime configuration. Values come from an optional YAML
// file named by CONFIG_FILE, overridden by environment variables.
type Config struct {
	Port                 string `yaml:"port"`
	AuthToken            string `yaml:"auth_token"`
	DBURL                string `yaml:"db_url"`
	MigrateOnStart       bool   `yaml:"migrate_on_start"`
	BoxOfficeURL         string `yaml:"boxoffice_url"`
	BoxOfficeAPIKey      string `yaml:"boxoffice_api_key"`
	BoxOfficeTimeoutSecs int    `yaml:"boxoffice_timeout_secs"`
	ReadTimeoutSecs      int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs     int    `yaml:"write_timeout_secs"`
	IdleTimeoutSecs      int    `yaml:"idle_timeout_secs"`
	DBMaxConns           int    `yaml:"db_max_conns"`
	DBMinConns           int    `yaml:"db_min_conns"`
	DBMaxIdleSecs        int    `yaml:"db_max_conn_idle_secs"`
	DBMaxLifeSecs        int    `yaml:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs    int    `yaml:"db_conn_timeout_secs"`
	DBStatementCache     int    `yaml:"db_statement_cache_capacity"`
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:                 "8080",
		BoxOfficeTimeoutSecs: 5,
		ReadTimeoutSecs:      15,
		WriteTimeoutSecs:     15,
		IdleTimeoutSecs:      60,
		DBMaxConns:           20,
		DBMinConns:           2,
		DBMaxIdleSecs:        300,
		DBMaxLifeSecs:        3600,
		DBConnTimeoutSecs:    10,
		DBStatementCache:     256,
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// Load reads configuration from the optional file and environment variables,
// applying defaults and validation.
func Load() (Config, error) {
	base := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &base); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:                 getEnv("PORT", base.Port),
		AuthToken:            getEnv("AUTH_TOKEN", base.AuthToken),
		DBURL:                getEnv("DB_URL", base.DBURL),
		MigrateOnStart:       getEnvBool("DB_MIGRATE_ON_START", base.MigrateOnStart),
		BoxOfficeURL:         getEnv("BOXOFFICE_URL", base.BoxOfficeURL),
		BoxOfficeAPIKey:      getEnv("BOXOFFICE_API_KEY", base.BoxOfficeAPIKey),
		BoxOfficeTimeoutSecs: getEnvInt("BOXOFFICE_TIMEOUT_SECS", base.BoxOfficeTimeoutSecs),
		ReadTimeoutSecs:      getEnvInt("SERVER_READ_TIMEOUT", base.ReadTimeoutSecs),
		WriteTimeoutSecs:     getEnvInt("SERVER_WRITE_TIMEOUT", base.WriteTimeoutSecs),
		IdleTimeoutSecs:      getEnvInt("SERVER_IDLE_TIMEOUT", base.IdleTimeoutSecs),
		DBMaxConns:           getEnvInt("DB_MAX_CONNS", base.DBMaxConns),
		DBMinConns:           getEnvInt("DB_MIN_CONNS", base.DBMinConns),
		DBMaxIdleSecs:        getEnvInt("DB_MAX_CONN_IDLE_SECS", base.DBMaxIdleSecs),
		DBMaxLifeSecs:        getEnvInt("DB_MAX_CONN_LIFETIME_SECS", base.DBMaxLifeSecs),
		DBConnTimeoutSecs:    getEnvInt("DB_CONN_TIMEOUT_SECS", base.DBConnTimeoutSecs),
		DBStatementCache:     getEnvInt("DB_STATEMENT_CACHE_CAPACITY", base.DBStatementCache),
		LogLevel:             getEnv("LOG_LEVEL", base.LogLevel),
		LogFormat:            getEnv("LOG_FORMAT", base.LogFormat),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.BoxOfficeURL != "" && cfg.BoxOfficeAPIKey == "" {
		return Config{}, fmt.Errorf("BOXOFFICE_API_KEY is required when BOXOFFICE_URL is set")
	}
	if cfg.BoxOfficeTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("BOXOFFICE_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
