package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/authgate/utils"
	"go.uber.org/zap"
)

// minProductionSecretBytes is the shortest JWT secret accepted in production
const minProductionSecretBytes = 32

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string `validate:"required"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int           `validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	TLS             TLSConfig
}

// TLSConfig holds optional TLS settings
type TLSConfig struct {
	Enabled  bool
	CertFile string `validate:"required_if=Enabled true"`
	KeyFile  string `validate:"required_if=Enabled true"`
}

// AuthConfig holds bearer token verification settings.
// JWTSecret is never logged; use LogFields for a redacted view.
type AuthConfig struct {
	JWTSecret           string        `validate:"required"`
	Algorithms          []string      `validate:"min=1,dive,oneof=HS256 HS384 HS512"`
	Leeway              time.Duration `validate:"gte=0"`
	Issuer              string        // optional
	Audience            string        // optional
	RequireBearerScheme bool          // reject schemes other than the literal "Bearer"
}

// CORSConfig holds CORS settings for browser callers
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int `validate:"gte=0"`
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"required,oneof=debug info warn error"`
	LogFormat string `validate:"required,oneof=json console"`
}

// New creates a new Config instance by loading environment variables.
// A value that is set but cannot be parsed is an error, never a silent default.
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	env := &envReader{}
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            env.port(),
			ReadTimeout:     env.asDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    env.asDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: env.asDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TLS: TLSConfig{
				Enabled:  env.asBool("TLS_ENABLED", false),
				CertFile: getEnv("TLS_CERT_FILE", ""),
				KeyFile:  getEnv("TLS_KEY_FILE", ""),
			},
		},
		Auth: AuthConfig{
			JWTSecret:           os.Getenv("JWT_SECRET"),
			Algorithms:          getEnvAsSlice("JWT_ALGORITHMS", []string{"HS256"}),
			Leeway:              env.asDuration("JWT_LEEWAY", 0),
			Issuer:              getEnv("JWT_ISSUER", ""),
			Audience:            getEnv("JWT_AUDIENCE", ""),
			RequireBearerScheme: env.asBool("AUTH_REQUIRE_BEARER_SCHEME", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*"}),
			MaxAge:         env.asInt("CORS_MAX_AGE", 300),
		},
		Observability: ObservabilityConfig{
			LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	if err := env.err(); err != nil {
		return nil, fmt.Errorf("config parse failed: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}

	if c.IsProduction() && len(c.Auth.JWTSecret) < minProductionSecretBytes {
		return fmt.Errorf("JWT secret must be at least %d bytes in production", minProductionSecretBytes)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// LogFields returns a redacted view of the configuration for startup logs
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Environment),
		zap.String("address", c.Server.Address()),
		zap.Bool("tls", c.Server.TLS.Enabled),
		zap.Strings("jwt_algorithms", c.Auth.Algorithms),
		zap.Duration("jwt_leeway", c.Auth.Leeway),
		zap.Bool("jwt_secret_set", c.Auth.JWTSecret != ""),
		zap.Bool("require_bearer_scheme", c.Auth.RequireBearerScheme),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// envReader parses typed variables and collects every malformed value
type envReader struct {
	errs []error
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

// port returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func (e *envReader) port() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if os.Getenv(key) != "" {
			return e.asInt(key, 0)
		}
	}
	return 8080
}

func (e *envReader) asInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.fail(key, valueStr, err)
		return defaultValue
	}
	return value
}

func (e *envReader) asBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.fail(key, valueStr, err)
		return defaultValue
	}
	return value
}

func (e *envReader) asDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		e.fail(key, valueStr, err)
		return defaultValue
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated value, dropping empty entries
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
