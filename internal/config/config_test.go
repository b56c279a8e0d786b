package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "standings.yaml")
	body := "team: Tottenham\nhistory_path: /data/epl.csv\ncurrent_season: 2025-2026\nlog_format: json\ncors_origins:\n  - https://dash.example\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STANDINGS_HTTP_ADDR=:9999\n"), 0o644))
	t.Setenv("STANDINGS_TEAM", "Arsenal")
	t.Setenv("STANDINGS_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", cfg.Team)
	assert.Equal(t, "/data/epl.csv", cfg.HistoryPath)
	assert.Equal(t, "2025/26", cfg.CurrentSeason)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	logger := cfg.NewLogger()
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)

	t.Setenv("STANDINGS_DB_DRIVER", "mysql")
	_, err = Load("")
	assert.ErrorContains(t, err, "db_driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty team", func(c *Config) { c.Team = " " }, "team"},
		{"no history", func(c *Config) { c.HistoryPath = "" }, "history_path"},
		{"bad season", func(c *Config) { c.CurrentSeason = "next year" }, "current_season"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	cfg.CurrentSeason = ""
	assert.NoError(t, cfg.Validate())
}
