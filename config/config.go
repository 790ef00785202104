// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minAdminTokenLength = 16
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment Environment `mapstructure:"ENVIRONMENT"`
	Port        string      `mapstructure:"PORT"`
	// AllowedOrigin is the single frontend origin permitted by CORS.
	// Exact match; "*" allows all origins (development only).
	AllowedOrigin string `mapstructure:"ALLOWED_ORIGIN"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	// URL is a postgres:// connection string; TLS is layered on top of it
	// in production rather than encoded in the URL.
	URL          string `mapstructure:"URL"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS"`
}

// Host extracts the hostname from the connection URL, used as the TLS
// ServerName in production.
func (c *DatabaseConfig) Host() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// EmailConfig holds configuration for sending contact emails through Resend.
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	FromAddress  string `mapstructure:"FROM_ADDRESS"`
	FromName     string `mapstructure:"FROM_NAME"`
	// Recipient is the fixed operator address every contact email is
	// delivered to.
	Recipient string `mapstructure:"RECIPIENT"`
}

// AdminConfig holds the shared secret protecting the admin endpoints.
type AdminConfig struct {
	Token string `mapstructure:"TOKEN"`
}

// RateLimitConfig holds configuration for the submission rate limiter.
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"MAX_REQUESTS"`
	WindowSeconds int `mapstructure:"WINDOW_SECONDS"`
}

// Window returns the configured rate-limit window as a duration.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER"`
	Database  DatabaseConfig  `mapstructure:"DATABASE"`
	Email     EmailConfig     `mapstructure:"EMAIL"`
	Admin     AdminConfig     `mapstructure:"ADMIN"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "5000")
	v.SetDefault("SERVER.ALLOWED_ORIGIN", "*")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.MIN_IDLE_CONNS", 1)
	v.SetDefault("EMAIL.FROM_NAME", "Portfolio Contact")
	v.SetDefault("RATE_LIMIT.MAX_REQUESTS", 5)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 900)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGIN", "ALLOWED_ORIGIN"},
		{"DATABASE.URL", "DATABASE_URL"},
		{"DATABASE.MAX_OPEN_CONNS", "DB_MAX_OPEN_CONNS"},
		{"DATABASE.MIN_IDLE_CONNS", "DB_MIN_IDLE_CONNS"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RECIPIENT", "CONTACT_RECIPIENT"},
		{"ADMIN.TOKEN", "ADMIN_TOKEN"},
		{"RATE_LIMIT.MAX_REQUESTS", "RATE_LIMIT_MAX_REQUESTS"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"allowed_origin", cfg.Server.AllowedOrigin,
		"database_url", logger.MaskConnectionString(cfg.Database.URL),
		"contact_recipient", logger.MaskEmail(cfg.Email.Recipient),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window_seconds", cfg.RateLimit.WindowSeconds,
	)

	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.Environment != EnvDevelopment && cfg.Server.Environment != EnvProduction {
		return fmt.Errorf("server environment must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if cfg.Server.AllowedOrigin != "*" {
		if _, err := url.ParseRequestURI(cfg.Server.AllowedOrigin); err != nil {
			return fmt.Errorf("invalid allowed origin '%s': %w", cfg.Server.AllowedOrigin, err)
		}
	}
	if cfg.IsProduction() && cfg.Server.AllowedOrigin == "*" {
		log.Warn("ALLOWED_ORIGIN is a wildcard in production. Set it to the frontend origin.")
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if cfg.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max open conns must be positive")
	}

	if cfg.Email.ResendAPIKey == "" {
		return fmt.Errorf("resend API key is required")
	}
	if cfg.Email.FromAddress == "" {
		return fmt.Errorf("email from address is required")
	}
	if cfg.Email.Recipient == "" {
		return fmt.Errorf("contact recipient address is required")
	}

	if len(cfg.Admin.Token) < minAdminTokenLength {
		return fmt.Errorf("admin token must be at least %d characters long", minAdminTokenLength)
	}

	if cfg.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	return nil
}
