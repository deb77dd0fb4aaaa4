package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET. It is refused
// unless LOG_FORMAT is text.
const DefaultJWTSecret = "super-secret-key-change-in-production"

// Config holds service configuration read from the environment
type Config struct {
	HTTPPort  string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret string

	LogLevel  string
	LogFormat string

	PoolSize     int           // questions per assessment when the client sends none
	MaxPoolSize  int           // upper bound a client may request
	HistoryLimit int           // assessments returned by history
	SelectionTTL time.Duration // lifetime of a cached question selection

	CORSAllowedOrigins string

	EnvFileLoaded bool
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		HTTPPort:  getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "lawhealth"),
		RedisAddr: redisAddr(getEnv("REDIS_URL", "localhost:6379")),
		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PoolSize:     getEnvInt("LHC_POOL_SIZE", 20),
		MaxPoolSize:  getEnvInt("LHC_MAX_POOL_SIZE", 100),
		HistoryLimit: getEnvInt("LHC_HISTORY_LIMIT", 10),
		SelectionTTL: getEnvDuration("LHC_SELECTION_TTL", 24*time.Hour),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		EnvFileLoaded: loaded,
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.PoolSize <= 0 {
		return fmt.Errorf("LHC_POOL_SIZE must be positive, got %d", c.PoolSize)
	}
	if c.MaxPoolSize < c.PoolSize {
		return fmt.Errorf("LHC_MAX_POOL_SIZE (%d) must not be below LHC_POOL_SIZE (%d)", c.MaxPoolSize, c.PoolSize)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("LHC_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.SelectionTTL <= 0 {
		return fmt.Errorf("LHC_SELECTION_TTL must be positive, got %s", c.SelectionTTL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DefaultSecret() && c.LogFormat != "text" {
		return fmt.Errorf("JWT_SECRET must be set when LOG_FORMAT is %q", c.LogFormat)
	}
	return nil
}

// DefaultSecret reports whether JWT_SECRET fell back to the development value.
func (c *Config) DefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// redisAddr strips a redis:// scheme so the value can be used as an address.
func redisAddr(v string) string {
	return strings.TrimPrefix(v, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
