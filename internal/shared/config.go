package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// SupportedAPIVersion is the only api_version this client understands.
const SupportedAPIVersion = "1.0"

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	APIRPS      int

	BaseURL         string
	City            string
	NotificationURL string

	StateBackend string // memory|redis|mysql
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	MySQLDSN     string

	// SkipNoData seeds the stored preference at startup when non-nil.
	SkipNoData *bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		APIRPS:          atoi("API_RPS", 0),
		BaseURL:         env("PARKENDD_BASE_URL", "https://park-api.higgsboson.tk/"),
		City:            env("PARKENDD_CITY", "Dresden"),
		NotificationURL: env("PARKENDD_NOTIFICATION_URL", ""),
		StateBackend:    env("STATE_BACKEND", "memory"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/parkendd?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
	}
	if v := os.Getenv("SKIP_NODATA_LOTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SkipNoData = &b
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid SKIP_NODATA_LOTS")
		}
	}
	if c.NotificationURL == "" {
		log.Warn().Msg("PARKENDD_NOTIFICATION_URL is empty; notifications disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
