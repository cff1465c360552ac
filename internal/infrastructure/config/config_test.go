package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, validateConfig(cfg))
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.MealDB.BaseURL)
	assert.Equal(t, 5, cfg.Search.HistoryLimit)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MEALDB_BASE_URL", "http://localhost:9999/api")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_SEARCH_HISTORY_LIMIT", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/api", cfg.MealDB.BaseURL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Search.HistoryLimit)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = 0 }},
		{"missing base url", func(c *Config) { c.MealDB.BaseURL = "" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"file driver without path", func(c *Config) { c.Storage.FilePath = "" }},
		{"zero history limit", func(c *Config) { c.Search.HistoryLimit = 0 }},
		{"zero cache size", func(c *Config) { c.Cache.MaxSize = 0 }},
		{"zero detail concurrency", func(c *Config) { c.Search.DetailConcurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}
