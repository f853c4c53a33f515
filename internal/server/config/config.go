// Package config reads the store server configuration from environment
// variables, with a .env overlay for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the store server.
type Config struct {
	Addr            string
	DatabaseDSN     string
	SecretKey       string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	LogLevel        string
	BootstrapAdmin  BootstrapAdmin
	UseInMemory     bool
	ShutdownTimeout time.Duration
}

// BootstrapAdmin describes the admin account seeded into an empty store,
// mirroring the original deployment's bootstrap user.
type BootstrapAdmin struct {
	Username string
	Password string
	Email    string
	Name     string
}

// Load reads configuration, applying defaults where possible. With an empty
// ONLIMESS_DATABASE_DSN the server falls back to in-memory repositories.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            getEnv("ONLIMESS_ADDR", "127.0.0.1:8080"),
		DatabaseDSN:     os.Getenv("ONLIMESS_DATABASE_DSN"),
		SecretKey:       getEnv("ONLIMESS_SECRET_KEY", "dev-secret"),
		AccessTokenTTL:  time.Duration(getEnvAsInt("ONLIMESS_TOKEN_TTL_MINUTES", 12*60)) * time.Minute,
		BcryptCost:      getEnvAsInt("ONLIMESS_BCRYPT_COST", 10),
		LogLevel:        getEnv("ONLIMESS_LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(getEnvAsInt("ONLIMESS_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		BootstrapAdmin: BootstrapAdmin{
			Username: getEnv("ONLIMESS_ADMIN_USERNAME", "skzry"),
			Password: os.Getenv("ONLIMESS_ADMIN_PASSWORD"),
			Email:    getEnv("ONLIMESS_ADMIN_EMAIL", "admin@OnliMess"),
			Name:     getEnv("ONLIMESS_ADMIN_NAME", "Administrator"),
		},
	}
	cfg.UseInMemory = cfg.DatabaseDSN == ""

	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
