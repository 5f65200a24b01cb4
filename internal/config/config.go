package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "cancer-guardian-session-secret"

type Config struct {
	Env        string
	Server     ServerConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Gemini     GeminiConfig
	Classifier ClassifierConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	RedisURL   string        `mapstructure:"redis_url"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClassifierConfig struct {
	URL string `mapstructure:"url"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// envBindings maps config keys onto the environment variable names used in deployment.
var envBindings = map[string]string{
	"env":                     "ENV",
	"server.port":             "PORT",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.max_body_bytes":   "SERVER_MAX_BODY_BYTES",
	"server.cors_origins":     "CORS_ORIGINS",
	"server.trusted_proxies":  "TRUSTED_PROXIES",
	"database.url":            "DATABASE_URL",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns": "DB_MAX_IDLE_CONNS",
	"database.auto_migrate":   "DB_AUTO_MIGRATE",
	"session.secret":          "SESSION_SECRET",
	"session.ttl":             "SESSION_TTL",
	"session.cookie_name":     "SESSION_COOKIE_NAME",
	"session.redis_url":       "REDIS_URL",
	"gemini.api_key":          "GEMINI_API_KEY",
	"gemini.base_url":         "GEMINI_BASE_URL",
	"gemini.model":            "GEMINI_MODEL",
	"gemini.timeout":          "GEMINI_TIMEOUT",
	"classifier.url":          "CLASSIFIER_URL",
	"ratelimit.enabled":       "RATE_LIMIT_ENABLED",
	"ratelimit.rps":           "RATE_LIMIT_RPS",
	"ratelimit.burst":         "RATE_LIMIT_BURST",
	"log.level":               "LOG_LEVEL",
	"metrics.enabled":         "METRICS_ENABLED",
	"metrics.path":            "METRICS_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://localhost:5000")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("session.secret", defaultSessionSecret)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "cg.sid")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1")
	v.SetDefault("gemini.model", "gemini-pro")
	v.SetDefault("gemini.timeout", 0)
	v.SetDefault("classifier.url", "http://localhost:8000")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 50)
	v.SetDefault("ratelimit.burst", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads .env (if present), then config.yaml (if present), then
// the environment. The environment wins.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Env = v.GetString("env")

	// Environment lists arrive as one comma separated string.
	cfg.Server.CORSOrigins = trimList(cfg.Server.CORSOrigins)
	cfg.Server.TrustedProxies = trimList(cfg.Server.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func trimList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// FallbackMode reports whether text generation runs on canned replies.
func (c *Config) FallbackMode() bool {
	return strings.TrimSpace(c.Gemini.APIKey) == ""
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == defaultSessionSecret) {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	if c.Gemini.Timeout < 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must not be negative")
	}
	return nil
}
