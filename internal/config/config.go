package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                   string
	MongoURI              string
	MongoDB               string
	ServerAddr            string
	FrontendOrigins       []string
	SeedOnStart           bool
	RateLimitAppointments int
	RateLimitWindowSec    int
	RedisURL              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	CacheTTLSeconds       int
	LogLevel              slog.Level
	OTelEnabled           bool
	OTelEndpoint          string
	OTelSampleRatio       float64
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func Load() (*Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URL", getEnv("MONGO_URI", "mongodb://localhost:27017"))
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "barbearia_urbana"
	}

	ratio := getEnvFloat("OTEL_SAMPLING_RATIO", 1)
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		MongoURI:              mongoURI,
		MongoDB:               mongoDB,
		ServerAddr:            getEnv("SERVER_ADDR", ":8001"),
		FrontendOrigins:       splitList(getEnv("FRONTEND_ORIGINS", "*")),
		SeedOnStart:           getEnvBool("SEED_ON_START", true),
		RateLimitAppointments: getEnvInt("RATE_LIMIT_APPOINTMENTS", 10),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:       getEnvInt("CACHE_TTL_SECONDS", 60),
		LogLevel:              level,
		OTelEnabled:           getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:          getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:       ratio,
	}

	return cfg, nil
}

// CacheEnabled reports whether a Redis endpoint was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" || c.RedisAddr != ""
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
