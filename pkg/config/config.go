// Package config loads service configuration from environment variables and
// optional config files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Triage   TriageConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	Environment     string        `mapstructure:"ENVIRONMENT"` // development, staging, production
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
}

// DatabaseConfig holds Postgres configuration.
type DatabaseConfig struct {
	URL          string        `mapstructure:"URL"`
	Host         string        `mapstructure:"HOST"`
	Port         int           `mapstructure:"PORT"`
	User         string        `mapstructure:"USER"`
	Password     string        `mapstructure:"PASSWORD"`
	Name         string        `mapstructure:"NAME"`
	SSLMode      string        `mapstructure:"SSL_MODE"`
	MaxOpenConns int           `mapstructure:"MAX_OPEN_CONNS"`
	MaxIdleConns int           `mapstructure:"MAX_IDLE_CONNS"`
	MaxLifetime  time.Duration `mapstructure:"MAX_LIFETIME"`
}

// DSN returns the data source name for connecting to the database.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds authentication configuration. Token issuing is handled by
// the external auth service; this service only validates access tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

// LLMConfig holds completion provider configuration.
type LLMConfig struct {
	DefaultProvider string `mapstructure:"LLM_DEFAULT_PROVIDER"`
	AnthropicAPIKey string `mapstructure:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `mapstructure:"OPENAI_API_KEY"`
	OllamaHost      string `mapstructure:"OLLAMA_HOST"`
	OllamaModel     string `mapstructure:"OLLAMA_MODEL"`
}

// TriageConfig holds tunables for the triage core. Threshold and guard
// phrases are configuration, not constants, so they can be tuned without a
// release.
type TriageConfig struct {
	MatchThreshold float64       `mapstructure:"MATCH_THRESHOLD"`
	MinNameLength  int           `mapstructure:"MIN_NAME_LENGTH"`
	GuardPhrases   []string      `mapstructure:"GUARD_PHRASES"`
	MaxRetries     int           `mapstructure:"MAX_RETRIES"`
	RetryBaseDelay time.Duration `mapstructure:"RETRY_BASE_DELAY"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/signal-sorter/")

	// Ignore error if config file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// overrideFromEnv reads common environment variables and overrides config
// values (for Railway/PaaS compatibility where viper key mapping misses).
func overrideFromEnv(config *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = origins
	}

	if val := os.Getenv("LLM_DEFAULT_PROVIDER"); val != "" {
		config.LLM.DefaultProvider = val
	}
	if val := os.Getenv("ANTHROPIC_API_KEY"); val != "" {
		config.LLM.AnthropicAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.LLM.OpenAIAPIKey = val
	}

	if val := os.Getenv("TRIAGE_MATCH_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 && f < 1 {
			config.Triage.MatchThreshold = f
		}
	}
	if val := os.Getenv("TRIAGE_MAX_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			config.Triage.MaxRetries = n
		}
	}
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("Server.Host", "0.0.0.0")
	v.SetDefault("Server.Port", 8080)
	v.SetDefault("Server.ShutdownTimeout", 10*time.Second)
	v.SetDefault("Server.Environment", "development")
	v.SetDefault("Server.AllowedOrigins", "https://app.signalsorter.io,https://signalsorter.io")

	// Database defaults
	v.SetDefault("Database.Host", "localhost")
	v.SetDefault("Database.Port", 5432)
	v.SetDefault("Database.SSLMode", "disable")
	v.SetDefault("Database.MaxOpenConns", 25)
	v.SetDefault("Database.MaxIdleConns", 5)
	v.SetDefault("Database.MaxLifetime", 5*time.Minute)

	// Redis defaults
	v.SetDefault("Redis.Host", "localhost")
	v.SetDefault("Redis.Port", 6379)
	v.SetDefault("Redis.DB", 0)

	// LLM defaults
	v.SetDefault("LLM.DefaultProvider", "anthropic")
	v.SetDefault("LLM.OllamaHost", "http://localhost:11434")
	v.SetDefault("LLM.OllamaModel", "llama3.1:8b")

	// Triage defaults
	v.SetDefault("Triage.MatchThreshold", 0.75)
	v.SetDefault("Triage.MinNameLength", 3)
	v.SetDefault("Triage.MaxRetries", 2)
	v.SetDefault("Triage.RetryBaseDelay", 500*time.Millisecond)
	v.SetDefault("Triage.GuardPhrases", []string{
		"your top", "here's", "here is", "let me", "based on",
		"i recommend", "i suggest", "looking at", "to summarize",
	})
}

func validate(config *Config) error {
	if config.Server.Environment == "production" {
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	if config.Triage.MatchThreshold <= 0 || config.Triage.MatchThreshold >= 1 {
		return fmt.Errorf("triage match threshold must be in (0, 1), got %v", config.Triage.MatchThreshold)
	}
	return nil
}

// loadEnvFile attempts to load a .env file from the current directory or
// parent directories (useful when running from cmd/).
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
