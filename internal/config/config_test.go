package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyConfigFile returns a path to an empty yaml file so that loading uses
// defaults only, independent of any config.yaml in the working directory.
func emptyConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(emptyConfigFile(t))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Crawler.SeedTimeout)
	assert.Equal(t, 10*time.Second, cfg.Crawler.ArticleTimeout)
	assert.Equal(t, 5, cfg.Crawler.BatchSize)
	assert.Equal(t, time.Second, cfg.Crawler.BatchPause)
	assert.Equal(t, 50, cfg.Crawler.MaxArticles)
	assert.True(t, cfg.Crawler.FollowRobotsTxt)
	assert.Equal(t, 10, cfg.Crawler.RequestsPerSecond)
	assert.NotEmpty(t, cfg.Crawler.UserAgent)
	assert.Equal(t, 8080, cfg.Server.Port)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  batch_size: 3
  batch_pause: 250ms
  max_articles: 10
export:
  excluded_domains:
    - twitter.com
    - facebook.com
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Crawler.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Crawler.BatchPause)
	assert.Equal(t, 10, cfg.Crawler.MaxArticles)
	assert.Equal(t, []string{"twitter.com", "facebook.com"}, cfg.Export.ExcludedDomains)
	// Untouched sections keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Crawler.SeedTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(emptyConfigFile(t))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch size", func(c *Config) { c.Crawler.BatchSize = 0 }},
		{"zero max articles", func(c *Config) { c.Crawler.MaxArticles = 0 }},
		{"zero seed timeout", func(c *Config) { c.Crawler.SeedTimeout = 0 }},
		{"zero article timeout", func(c *Config) { c.Crawler.ArticleTimeout = 0 }},
		{"zero rps", func(c *Config) { c.Crawler.RequestsPerSecond = 0 }},
		{"negative pause", func(c *Config) { c.Crawler.BatchPause = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
