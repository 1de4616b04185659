package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"transformd/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig       `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig     `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig      `yaml:"logging" envconfig:"LOGGING"`
	Extract  ExtractConfig      `yaml:"extract" envconfig:"EXTRACT"`
	Pipeline domain.BatchConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"120s"`
}

// SecurityConfig contains request-protection configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// ExtractConfig configures the extract-service collaborator client
type ExtractConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables and config file.
// Environment variables use the TRANSFORM_ prefix and take precedence over
// the YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRANSFORM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig
	if merged.Server.Port == 0 {
		merged.Server.Port = fileConfig.Server.Port
	}
	if merged.Server.ReadTimeout == 0 {
		merged.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if merged.Server.WriteTimeout == 0 {
		merged.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if merged.Server.RequestTimeout == 0 {
		merged.Server.RequestTimeout = fileConfig.Server.RequestTimeout
	}
	if merged.Logging.Level == "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if merged.Extract.BaseURL == "" {
		merged.Extract.BaseURL = fileConfig.Extract.BaseURL
	}
	if merged.Extract.Timeout == 0 {
		merged.Extract.Timeout = fileConfig.Extract.Timeout
	}
	if merged.Pipeline.MAShortPeriod == 0 {
		merged.Pipeline.MAShortPeriod = fileConfig.Pipeline.MAShortPeriod
	}
	if merged.Pipeline.MALongPeriod == 0 {
		merged.Pipeline.MALongPeriod = fileConfig.Pipeline.MALongPeriod
	}
	if merged.Pipeline.VolatilityWindow == 0 {
		merged.Pipeline.VolatilityWindow = fileConfig.Pipeline.VolatilityWindow
	}
	if merged.Pipeline.RSIPeriod == 0 {
		merged.Pipeline.RSIPeriod = fileConfig.Pipeline.RSIPeriod
	}
	if merged.Pipeline.MaxBatchSize == 0 {
		merged.Pipeline.MaxBatchSize = fileConfig.Pipeline.MaxBatchSize
	}
	return merged
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if c.Pipeline.MAShortPeriod <= 0 || c.Pipeline.MALongPeriod <= 0 ||
		c.Pipeline.VolatilityWindow <= 0 || c.Pipeline.RSIPeriod <= 0 {
		return fmt.Errorf("pipeline windows must be positive")
	}
	if c.Pipeline.MaxBatchSize <= 0 {
		return fmt.Errorf("pipeline max batch size must be positive")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv("TRANSFORM_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  120 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Extract: ExtractConfig{
			Timeout: 30 * time.Second,
		},
		Pipeline: domain.DefaultBatchConfig(),
	}
}
