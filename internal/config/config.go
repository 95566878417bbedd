package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// MinSecretLength is the minimum accepted SESSION_SECRET length in bytes.
const MinSecretLength = 32

type Config struct {
	Addr          string
	QuestionsPath string
	SessionSecret string
	SessionStore  string
	SessionTTL    time.Duration
	CookieSecure  bool
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TemplatesDir  string
	StaticDir     string
	LogLevel      string
	LogFormat     string

	RequestTimeout       time.Duration
	SessionPurgeInterval time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("ADDR", ":8080"),
		QuestionsPath: envOr("QUESTIONS_PATH", "data/quiz_questions.csv"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionStore:  strings.ToLower(envOr("SESSION_STORE", StoreSQLite)),
		SessionTTL:    envDurationOr("SESSION_TTL", 24*time.Hour),
		CookieSecure:  envBoolOr("COOKIE_SECURE", false),
		DBPath:        envOr("DB_PATH", "file:quiz.db"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),
		TemplatesDir:  envOr("TEMPLATES_DIR", "web/templates"),
		StaticDir:     envOr("STATIC_DIR", "web/static"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),
		LogFormat:     envOr("LOG_FORMAT", "text"),

		RequestTimeout:       envDurationOr("REQUEST_TIMEOUT", 15*time.Second),
		SessionPurgeInterval: envDurationOr("SESSION_PURGE_INTERVAL", 15*time.Minute),
	}
}

// Validate reports every invalid setting in a single error.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.QuestionsPath == "" {
		errs = append(errs, errors.New("QUESTIONS_PATH cannot be empty"))
	}
	if len(c.SessionSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be >= 0, got %s", c.RequestTimeout))
	}
	if c.SessionPurgeInterval < 0 {
		errs = append(errs, fmt.Errorf("SESSION_PURGE_INTERVAL must be >= 0, got %s", c.SessionPurgeInterval))
	}

	switch c.SessionStore {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when SESSION_STORE=sqlite"))
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR cannot be empty when SESSION_STORE=redis"))
		}
		if c.RedisDB < 0 {
			errs = append(errs, fmt.Errorf("REDIS_DB must be >= 0, got %d", c.RedisDB))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be one of memory, sqlite, redis, got %q", c.SessionStore))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
