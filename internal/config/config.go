// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	Storage   StorageConfig
	Pages     PagesConfig
	Profile   ProfileConfig
	RateLimit int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects the key-value backend and the key set
type StorageConfig struct {
	Backend    string
	BoltPath   string
	KeySet     string
	SeedSource string
}

// PagesConfig holds page rendering settings
type PagesConfig struct {
	Dir      string
	BasePath string
}

// ProfileConfig holds the profile cookie settings
type ProfileConfig struct {
	Secret       string
	SecureCookie bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Server configuration
	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Storage configuration
	cfg.Storage.Backend = strings.ToLower(stringEnv("STORAGE_BACKEND", BackendMemory))
	cfg.Storage.BoltPath = stringEnv("BOLT_PATH", "data/local-storage.db")
	cfg.Storage.KeySet = strings.ToLower(stringEnv("KEYSET", "tb"))
	cfg.Storage.SeedSource = os.Getenv("SEED_SOURCE") // optional

	switch cfg.Storage.Backend {
	case BackendMemory, BackendBolt:
	case BackendRedis:
		if err := loadRedis(cfg); err != nil {
			return nil, err
		}
	case BackendMySQL:
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %s, must be one of memory, bolt, redis, mysql", cfg.Storage.Backend)
	}

	// Pages configuration
	cfg.Pages.Dir = stringEnv("PAGES_DIR", "web")
	cfg.Pages.BasePath = stringEnv("PAGES_BASE_PATH", "/")

	// Profile cookie configuration
	profileSecret := os.Getenv("PROFILE_SECRET")
	if profileSecret == "" {
		return nil, fmt.Errorf("PROFILE_SECRET is required")
	}
	cfg.Profile.Secret = profileSecret

	secureCookie, err := strconv.ParseBool(stringEnv("PROFILE_SECURE_COOKIE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_SECURE_COOKIE: %w", err)
	}
	cfg.Profile.SecureCookie = secureCookie

	// Rate limit configuration
	rateLimit, err := intEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must be positive")
	}
	cfg.RateLimit = rateLimit

	return cfg, nil
}

// loadRedis reads Redis settings, all of them optional
func loadRedis(cfg *Config) error {
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")

	redisPort, err := intEnv("REDIS_PORT", 6379)
	if err != nil {
		return err
	}
	cfg.Redis.Port = redisPort

	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.Redis.DB = redisDB

	cfg.Redis.KeyPrefix = stringEnv("REDIS_KEY_PREFIX", "treydbuddy:")
	return nil
}

// loadDatabase reads MySQL settings, required when the mysql backend is selected
func loadDatabase(cfg *Config) error {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	return nil
}

// parseOrigins splits a comma-separated origin list, defaulting to allow all
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func stringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
