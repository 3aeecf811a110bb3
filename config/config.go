package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration, optional: rate limiting is disabled without it
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage
	S3BucketName string
	AWSRegion    string

	CORSOrigins []string
	LogLevel    string
}

// setting describes where a value comes from: an environment variable, a
// Docker secret with the same name in lower case, or a development default.
type setting struct {
	env        string
	devDefault string
}

var settings = map[string]setting{
	"server_port":    {env: "SERVER_PORT", devDefault: "8080"},
	"server_host":    {env: "SERVER_HOST", devDefault: "0.0.0.0"},
	"db_driver":      {env: "DB_DRIVER", devDefault: "postgres"},
	"db_host":        {env: "DB_HOST", devDefault: "localhost"},
	"db_port":        {env: "DB_PORT", devDefault: "5432"},
	"db_user":        {env: "DB_USER", devDefault: "postgres"},
	"db_password":    {env: "DB_PASSWORD", devDefault: "postgres"},
	"db_name":        {env: "DB_NAME", devDefault: "recetario"},
	"db_ssl_mode":    {env: "DB_SSL_MODE", devDefault: "disable"},
	"db_path":        {env: "DB_PATH", devDefault: "recetario.db"},
	"redis_host":     {env: "REDIS_HOST"},
	"redis_port":     {env: "REDIS_PORT", devDefault: "6379"},
	"redis_password": {env: "REDIS_PASSWORD"},
	"redis_url":      {env: "REDIS_URL"},
	"jwt_secret":     {env: "JWT_SECRET", devDefault: "your-secret-key"},
	"jwt_ttl":        {env: "JWT_TTL", devDefault: "24h"},
	"s3_bucket_name": {env: "S3_BUCKET_NAME"},
	"aws_region":     {env: "AWS_REGION", devDefault: "eu-west-1"},
	"cors_origins":   {env: "CORS_ORIGINS", devDefault: "http://localhost:5173"},
	"log_level":      {env: "LOG_LEVEL", devDefault: "info"},
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	useDefaults := env == Development || env == Test

	get := func(name string) string {
		s := settings[name]
		if v := os.Getenv(s.env); v != "" {
			return v
		}
		if v := readSecret(name); v != "" {
			return v
		}
		if useDefaults {
			return s.devDefault
		}
		return ""
	}

	cfg := &Config{
		ServerPort:    get("server_port"),
		ServerHost:    get("server_host"),
		DBDriver:      get("db_driver"),
		DBHost:        get("db_host"),
		DBPort:        get("db_port"),
		DBUser:        get("db_user"),
		DBPassword:    get("db_password"),
		DBName:        get("db_name"),
		DBSSLMode:     get("db_ssl_mode"),
		DBPath:        get("db_path"),
		RedisHost:     get("redis_host"),
		RedisPort:     get("redis_port"),
		RedisPassword: get("redis_password"),
		RedisDB:       0, // This is a constant, not a secret
		RedisURL:      get("redis_url"),
		JWTSecret:     get("jwt_secret"),
		S3BucketName:  get("s3_bucket_name"),
		AWSRegion:     get("aws_region"),
		CORSOrigins:   splitList(get("cors_origins")),
		LogLevel:      get("log_level"),
	}

	ttl := get("jwt_ttl")
	if ttl == "" {
		ttl = "24h"
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
	}
	cfg.JWTTTL = d

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether enough Redis settings are present to connect.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// ServerAddr is the listen address for the HTTP server.
func (c *Config) ServerAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
