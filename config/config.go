package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	TokenTTL       time.Duration
	StoreDriver    string
	DatabaseURL    string
	MongoURI       string
	MongoDatabase  string
	UploadDir      string
	MaxUploadMB    int
	AllowOrigins   string
	RequestTimeout time.Duration
	AdminEmail     string
	AdminPassword  string
}

// IsDevelopment reports whether internal error details may be shown.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can supply
// their own environment.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:          get("PORT", "5001"),
		Env:           strings.ToLower(get("APP_ENV", "development")),
		JWTSecret:     getenv("JWT_SECRET"),
		StoreDriver:   strings.ToLower(get("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   getenv("DATABASE_URL"),
		MongoURI:      get("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: get("MONGODB_DATABASE", "sneakershop"),
		UploadDir:     get("UPLOAD_DIR", "./uploads"),
		AllowOrigins:  get("ALLOW_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if cfg.MaxUploadMB, err = strconv.Atoi(get("MAX_UPLOAD_MB", "5")); err != nil || cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", getenv("MAX_UPLOAD_MB"))
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set in the environment")
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverMongo, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}
