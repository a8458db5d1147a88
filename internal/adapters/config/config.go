package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration.
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Roster    RosterConfig    `envconfig:"ROSTER"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	Database  DatabaseConfig  `envconfig:"DATABASE"`
	Press     PressConfig     `envconfig:"PRESS"`
	Wikipedia WikipediaConfig `envconfig:"WIKIPEDIA"`
	YouTube   YouTubeConfig   `envconfig:"YOUTUBE"`
	Trends    TrendsConfig    `envconfig:"TRENDS"`
	Anthropic AnthropicConfig `envconfig:"ANTHROPIC"`
	Logging   LoggingConfig   `envconfig:"LOGGING"`
}

// ServerConfig represents the HTTP API server parameters.
type ServerConfig struct {
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
	Mode string `envconfig:"SERVER_MODE" default:"release"` // gin mode: release or debug
}

// RosterConfig points at the entity roster file.
type RosterConfig struct {
	Path string `envconfig:"ROSTER_PATH" default:"config/entities.yaml"`
}

// RedisConfig represents the cache store connection. Leaving Host
// empty disables caching entirely; every lookup becomes a miss.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"false"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" required:"false"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Enabled reports whether a cache store is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// DatabaseConfig represents the optional score-history database.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"false"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"visibility"`
	User     string `envconfig:"DB_USER" required:"false"`
	Password string `envconfig:"DB_PASSWORD" required:"false"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

// Enabled reports whether score history persistence is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.User != ""
}

// GetDSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// PressConfig represents the locale of the article sources.
type PressConfig struct {
	SourceLang string `envconfig:"PRESS_SOURCE_LANG" default:"french"`
	Lang       string `envconfig:"PRESS_LANG" default:"fr"`
	Geo        string `envconfig:"PRESS_GEO" default:"FR"`
}

// WikipediaConfig represents the pageviews project.
type WikipediaConfig struct {
	Project string `envconfig:"WIKIPEDIA_PROJECT" default:"fr.wikipedia"`
}

// YouTubeConfig represents the video source credentials.
type YouTubeConfig struct {
	APIKey string `envconfig:"YOUTUBE_API_KEY" required:"false"`
	Region string `envconfig:"YOUTUBE_REGION" default:"FR"`
}

// TrendsConfig represents the search-interest backend.
type TrendsConfig struct {
	BaseURL string `envconfig:"TRENDS_BASE_URL" required:"false"`
	Geo     string `envconfig:"TRENDS_GEO" default:"FR"`
}

// AnthropicConfig represents the text classifier credentials.
type AnthropicConfig struct {
	APIKey string `envconfig:"ANTHROPIC_API_KEY" required:"false"`
	Model  string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-haiku-20240307"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid. Absent upstream
// credentials are allowed; the dependent features degrade at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Roster.Path == "" {
		return fmt.Errorf("roster path is required")
	}
	return nil
}
