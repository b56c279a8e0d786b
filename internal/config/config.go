// Package config loads settings from defaults, an optional YAML file, a
// .env file and STANDINGS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/utakatalp/standings-history/internal/league"
)

// Config holds every runtime setting.
type Config struct {
	Team          string   `yaml:"team"`
	HistoryPath   string   `yaml:"history_path"`
	CurrentPath   string   `yaml:"current_path"`
	CurrentSeason string   `yaml:"current_season"`
	LogLevel      string   `yaml:"log_level"`
	LogFormat     string   `yaml:"log_format"`
	HTTPAddr      string   `yaml:"http_addr"`
	DBDriver      string   `yaml:"db_driver"`
	DBDSN         string   `yaml:"db_dsn"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Team:          "Arsenal",
		HistoryPath:   "data/epl_final.csv",
		CurrentPath:   "data/arsenal_2025_26_pl.csv",
		CurrentSeason: "2025/26",
		LogLevel:      "info",
		LogFormat:     "text",
		HTTPAddr:      ":8080",
		DBDriver:      "sqlite",
		DBDSN:         "standings.db",
		CORSOrigins:   []string{"*"},
	}
}

// env maps variable names to the field they override.
func (c *Config) env() map[string]*string {
	return map[string]*string{
		"STANDINGS_TEAM":           &c.Team,
		"STANDINGS_HISTORY_PATH":   &c.HistoryPath,
		"STANDINGS_CURRENT_PATH":   &c.CurrentPath,
		"STANDINGS_CURRENT_SEASON": &c.CurrentSeason,
		"STANDINGS_LOG_LEVEL":      &c.LogLevel,
		"STANDINGS_LOG_FORMAT":     &c.LogFormat,
		"STANDINGS_HTTP_ADDR":      &c.HTTPAddr,
		"STANDINGS_DB_DRIVER":      &c.DBDriver,
		"STANDINGS_DB_DSN":         &c.DBDSN,
	}
}

// Load builds a Config. path may be empty; a missing .env file is ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for name, field := range c.env() {
		if v, ok := os.LookupEnv(name); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv("STANDINGS_CORS_ORIGINS"); ok {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
}

// Validate checks the settings and normalises the current season label.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Team) == "" {
		return errors.New("config: team must be set")
	}
	if c.HistoryPath == "" {
		return errors.New("config: history_path must be set")
	}
	if c.CurrentSeason != "" {
		season, err := league.ParseSeason(c.CurrentSeason)
		if err != nil {
			return fmt.Errorf("config: current_season: %w", err)
		}
		c.CurrentSeason = season
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: db_driver must be sqlite or postgres, got %q", c.DBDriver)
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
