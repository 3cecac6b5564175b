package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Desktop   DesktopConfig
	Content   ContentConfig
	Weather   WeatherConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// DesktopConfig holds window placement and session settings.
type DesktopConfig struct {
	ViewportWidth  int           `envconfig:"VIEWPORT_WIDTH" default:"0"`
	ViewportHeight int           `envconfig:"VIEWPORT_HEIGHT" default:"0"`
	CascadeOrigin  int           `envconfig:"CASCADE_ORIGIN" default:"50"`
	CascadeStep    int           `envconfig:"CASCADE_STEP" default:"30"`
	EchoWindow     time.Duration `envconfig:"FRAGMENT_ECHO_WINDOW" default:"50ms"`
	InitialPath    string        `envconfig:"INITIAL_PATH" default:""`
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
}

// ContentConfig holds content tree and record locations.
type ContentConfig struct {
	TreeFile    string `envconfig:"CONTENT_TREE_FILE" default:""`
	RecordsPath string `envconfig:"RECORDS_PATH" default:"data/records"`
	AssetsPath  string `envconfig:"ASSETS_PATH" default:"assets/img"`
}

// WeatherConfig holds the weather upstream settings.
type WeatherConfig struct {
	APIKey  string        `envconfig:"OPENWEATHER_API_KEY" default:""`
	BaseURL string        `envconfig:"OPENWEATHER_URL" default:"https://api.openweathermap.org/data/2.5"`
	Timeout time.Duration `envconfig:"WEATHER_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Desktop: DesktopConfig{
			CascadeOrigin:  50,
			CascadeStep:    30,
			EchoWindow:     50 * time.Millisecond,
			SessionIdleTTL: 30 * time.Minute,
		},
		Content: ContentConfig{
			RecordsPath: "data/records",
			AssetsPath:  "assets/img",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Timeout: 5 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
