package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CrawlerConfig holds extraction pipeline configuration
type CrawlerConfig struct {
	SeedTimeout       time.Duration `mapstructure:"seed_timeout"`
	ArticleTimeout    time.Duration `mapstructure:"article_timeout"`
	BatchSize         int           `mapstructure:"batch_size"`
	BatchPause        time.Duration `mapstructure:"batch_pause"`
	MaxArticles       int           `mapstructure:"max_articles"`
	UserAgent         string        `mapstructure:"user_agent"`
	FollowRobotsTxt   bool          `mapstructure:"follow_robots_txt"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
}

// ExportConfig holds export-path configuration. The exclusion list is only
// consulted when building domain summaries; the extraction pipeline never
// sees it.
type ExportConfig struct {
	ExcludedDomains []string `mapstructure:"excluded_domains"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.linkscout")
	}

	setDefaults(v)

	v.SetEnvPrefix("LINKSCOUT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")

	// Crawler defaults
	v.SetDefault("crawler.seed_timeout", "15s")
	v.SetDefault("crawler.article_timeout", "10s")
	v.SetDefault("crawler.batch_size", 5)
	v.SetDefault("crawler.batch_pause", "1s")
	v.SetDefault("crawler.max_articles", 50)
	v.SetDefault("crawler.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36")
	v.SetDefault("crawler.follow_robots_txt", true)
	v.SetDefault("crawler.requests_per_second", 10)

	// Export defaults
	v.SetDefault("export.excluded_domains", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.BatchSize <= 0 {
		return fmt.Errorf("crawler.batch_size must be positive")
	}
	if c.Crawler.MaxArticles <= 0 {
		return fmt.Errorf("crawler.max_articles must be positive")
	}
	if c.Crawler.SeedTimeout <= 0 || c.Crawler.ArticleTimeout <= 0 {
		return fmt.Errorf("crawler timeouts must be positive")
	}
	if c.Crawler.RequestsPerSecond <= 0 {
		return fmt.Errorf("crawler.requests_per_second must be positive")
	}
	if c.Crawler.BatchPause < 0 {
		return fmt.Errorf("crawler.batch_pause must not be negative")
	}
	return nil
}
