package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	StoreDriver string

	DBURL      string
	MongoURI   string
	MongoDB    string
	AutoSchema bool

	JWTSecret           string
	JWTAlgorithm        string
	JWTAccessTTLMinutes int

	AdminEmail    string
	AdminPassword string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimit         int
	LoginRateWindowSeconds int

	OtelEnabled  bool
	OtelEndpoint string
}

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

func Load() Config {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("APP_ENV", "prod"),
		Port:        getEnvInt("PORT", 8080),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),

		DBURL:      buildDBURL(),
		MongoURI:   getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:    getEnv("MONGO_DB", "evoting"),
		AutoSchema: getEnvBool("AUTO_SCHEMA", true),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAlgorithm:        getEnv("JWT_ALGORITHM", "HS256"),
		JWTAccessTTLMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LoginRateLimit:         getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindowSeconds: getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60),

		OtelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

// Validate catches settings that would make the process unsafe or unusable.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		if c.allowsInsecureSecret() {
			slog.Warn("JWT_SECRET is empty, using an insecure development secret")
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
	}

	if c.JWTAlgorithm != "HS256" {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}

	if c.JWTAccessTTLMinutes <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE_MINUTES must be positive"))
	}

	switch c.StoreDriver {
	case StorePostgres, StoreMongo:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not supported", c.StoreDriver))
	}

	return errors.Join(errs...)
}

// SigningSecret falls back to a fixed development value when unset, and only
// when APP_ENV is explicitly dev or test.
func (c Config) SigningSecret() string {
	if c.JWTSecret == "" && c.allowsInsecureSecret() {
		return "dev-insecure-secret"
	}
	return c.JWTSecret
}

func (c Config) allowsInsecureSecret() bool {
	return c.Env == "dev" || c.Env == "test"
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSeconds) * time.Second
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "evoting")
	pass := getEnv("DB_PASSWORD", "evoting")
	name := getEnv("DB_NAME", "evoting")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// WithTimeout bounds a store call. A nil parent means context.Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
			return fallback
		}
		return b
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
