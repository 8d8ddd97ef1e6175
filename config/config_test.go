package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "data/news.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Feeds.FetchLimit)
	assert.Len(t, cfg.Feeds.Sources, 5)
	assert.Equal(t, []string{"us", "in", "gb"}, cfg.NewsAPI.Countries)
	assert.Empty(t, cfg.NewsAPI.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9000"
feeds:
  fetch_limit: 3
  sources:
    - url: https://example.com/rss
      source: Example
      category: World
newsapi:
  api_key: key-from-file
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Feeds.FetchLimit)
	require.Len(t, cfg.Feeds.Sources, 1)
	assert.Equal(t, "Example", cfg.Feeds.Sources[0].Source)
	assert.Equal(t, "key-from-file", cfg.NewsAPI.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("NEWSAPI_KEY", "key-from-env")
	t.Setenv("JWT_SECRET", "secret-from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, "key-from-env", cfg.NewsAPI.APIKey)
	assert.Equal(t, "secret-from-env", cfg.Auth.JWTSecret)
}

func TestGetServerAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: "8080"}}
	assert.Equal(t, ":8080", cfg.GetServerAddress())

	cfg.Server.Port = "0.0.0.0:8080"
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}
