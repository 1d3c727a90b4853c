package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DBDriver     string
	DatabaseDSN  string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	SessionKey   string
	SessionTTL   time.Duration
	CookieSecure bool
	CSRFEnforce  bool
	LogLevel     string
	LogFormat    string
	SwaggerHost  string
	ResetDB      bool
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:  getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/medtracker?charset=utf8mb4&parseTime=True&loc=Local")),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		SessionKey:   getEnv("SESSION_SECRET", "change-me"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 14*24*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		CSRFEnforce:  getEnvBool("CSRF_ENFORCE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		ResetDB:      getEnvBool("RESET_DB", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("336h", "30m").
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
