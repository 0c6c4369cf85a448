package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

var ErrUnknownStore = errors.New("unknown cart store")

type Config struct {
	HTTPPort           string
	APIBaseURL         string
	RequestTimeout     time.Duration // zero leaves store API calls unbounded
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	CartStore          string
	DBPath             string
	RedisAddr          string
	RedisPassword      string
	KafkaBrokers       []string
	KafkaTopic         string
	LogLevel           string
	PageDelay          time.Duration
	RateLimit          float64 // gateway requests per second, 0 disables
	BreakerFailures    uint32
	BreakerTimeout     time.Duration
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:3000/api"),
		MaxRequestBodySize: 1 << 20, // 1MB
		CartStore:          strings.ToLower(getEnv("CART_STORE", StoreSQLite)),
		DBPath:             getEnv("DB_PATH", "storefront.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "storefront-checkouts"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PageDelay, err = getDuration("PAGE_DELAY", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.BreakerTimeout, err = getDuration("BREAKER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("RATE_LIMIT"); ok && v != "" {
		cfg.RateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.RateLimit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q", v)
		}
	} else {
		cfg.RateLimit = 50
	}

	cfg.BreakerFailures = 5
	if v, ok := os.LookupEnv("BREAKER_FAILURES"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid BREAKER_FAILURES: %w", err)
		}
		cfg.BreakerFailures = uint32(n)
	}

	if cfg.CartStore != StoreSQLite && cfg.CartStore != StoreRedis {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.CartStore)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, value)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
