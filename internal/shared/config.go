package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	GatewayURL  string
	GatewayApp  string
	GatewayAuth string
	CountryCode string
	CacheTTL    time.Duration
}

func Load() Config {
	// .env is a dev convenience; in prod everything comes from the environment.
	if os.Getenv("APP_ENV") != "prod" {
		_ = godotenv.Load()
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
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotelex?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		GatewayURL:  env("WALLMESSAGE_API_URL", ""),
		GatewayApp:  env("WALLMESSAGE_APP_KEY", ""),
		GatewayAuth: env("WALLMESSAGE_AUTH_KEY", ""),
		CountryCode: env("PHONE_COUNTRY_CODE", "+98"),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.GatewayURL == "" || c.GatewayApp == "" || c.GatewayAuth == "" {
		log.Warn().Msg("WallMessage gateway is not fully configured; notifications will fail with warnings")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
