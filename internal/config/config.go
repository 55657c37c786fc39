package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port string
	}
	Postgres struct {
		Host           string
		Port           string
		User           string
		Password       string
		DBName         string
		SSLMode        string
		MigrationsPath string
	}
	Redis struct {
		Addr string
	}
	Kafka struct {
		Brokers        []string
		PriceDropTopic string
	}
	Auth struct {
		TokenTTL time.Duration
	}
}

// Load reads configuration from the environment, optionally seeding it from a
// .env file first. Database credentials are required; everything else has a
// sane default.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getenv("APP_PORT", "8080")

	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.Postgres.Host = required("DB_HOST")
	cfg.Postgres.Port = getenv("DB_PORT", "5432")
	cfg.Postgres.User = required("DB_USER")
	cfg.Postgres.Password = required("DB_PASSWORD")
	cfg.Postgres.DBName = required("DB_NAME")
	cfg.Postgres.SSLMode = getenv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getenv("DB_MIGRATIONS_PATH", "migrations")

	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")

	cfg.Kafka.Brokers = splitCSV(getenv("KAFKA_BROKERS", "localhost:9092"))
	cfg.Kafka.PriceDropTopic = getenv("KAFKA_PRICE_DROP_TOPIC", "wishlist.price-drop")

	ttl := getenv("AUTH_TOKEN_TTL", "24h")
	tokenTTL, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL %q: %w", ttl, err)
	}
	cfg.Auth.TokenTTL = tokenTTL

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
