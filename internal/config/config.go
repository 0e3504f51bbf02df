package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	ProductsFile string
	UsersFile    string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	MetricsEnabled bool
	MetricsToken   string

	ShutdownTimeout time.Duration
}

// Load reads .env if present, then the environment. A missing .env is fine;
// explicit environment variables always win because godotenv never overrides.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getenv("PORT", "8080"),

		ProductsFile: getenv("PRODUCTS_FILE", "products.json"),
		UsersFile:    getenv("USERS_FILE", "users.json"),

		SessionSecret: getenv("SESSION_SECRET", "dev-secret"),
		SessionTTL:    time.Duration(getenvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		CookieSecure:  getenvBool("COOKIE_SECURE", false),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MetricsEnabled: getenvBool("METRICS_ENABLED", false),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),

		ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
