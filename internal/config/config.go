package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDriver     string
	DBDSN        string
	LogFile      string
	JWTSecret    []byte
	TokenTTL     time.Duration
	RateLimitMax int
	SeedDemo     bool
}

const devSecret = "dev-secret-change-me"

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	driver := getEnv("DB_DRIVER", "sqlite")
	dsn := getEnv("DB_DSN", "ecommerce.db") // sqlite file in project root

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		log.Printf("[config] invalid TOKEN_TTL, using 24h")
		ttl = 24 * time.Hour
	}
	rate, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "60"))
	if err != nil || rate <= 0 {
		rate = 60
	}

	// demo accounts share a known password; on by default only for sqlite
	seedDemo := driver == "sqlite"
	if v := os.Getenv("SEED_DEMO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("[config] invalid SEED_DEMO %q, using %t", v, seedDemo)
		} else {
			seedDemo = b
		}
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("[warn] JWT_SECRET not set, using development secret")
		secret = devSecret
	}

	// LOG_FILE="" disables the file sink; unset falls back to the default
	logFile, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		logFile = "./ecommerce.log"
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDriver:     driver,
		DBDSN:        dsn,
		LogFile:      logFile,
		JWTSecret:    []byte(secret),
		TokenTTL:     ttl,
		RateLimitMax: rate,
		SeedDemo:     seedDemo,
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s SEED_DEMO=%t",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.LogFile, cfg.TokenTTL, cfg.SeedDemo)
	return cfg
}
