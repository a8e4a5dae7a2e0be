// Package config holds the application configuration.
// Config is built once at startup and passed by value into constructors;
// nothing in the codebase reads a package-level config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App identifies the application.
type App struct {
	Name    string
	Version string
}

// Currency describes how money is displayed.
type Currency struct {
	Code     string
	Symbol   string
	Decimals int32
}

// DefaultCurrency returns the Bulgarian lev settings.
func DefaultCurrency() Currency {
	return Currency{
		Code:     "BGN",
		Symbol:   "лв.",
		Decimals: 2,
	}
}

// DateFormat holds Go time layouts for display and wire dates.
type DateFormat struct {
	// Display is shown to users (DD.MM.YYYY)
	Display string
	// API is sent to the backend (YYYY-MM-DD)
	API string
}

// DefaultDateFormat returns DD.MM.YYYY for display and YYYY-MM-DD for the API.
func DefaultDateFormat() DateFormat {
	return DateFormat{
		Display: "02.01.2006",
		API:     "2006-01-02",
	}
}

// Backend configures the client side of the webhook API.
type Backend struct {
	// BaseURL of the webhook backend. Empty means demo mode.
	BaseURL string
	// Token is sent as a Bearer token when set.
	Token string
	// Timeout for a single request (0 = no timeout).
	Timeout time.Duration
	// ObjectsCacheTTL is how long the active cost-object list is reused.
	ObjectsCacheTTL time.Duration
}

// Demo reports whether no live backend is configured.
func (b Backend) Demo() bool {
	return b.BaseURL == ""
}

// DefaultBackend returns demo-mode backend settings.
func DefaultBackend() Backend {
	return Backend{
		Timeout:         30 * time.Second,
		ObjectsCacheTTL: 5 * time.Minute,
	}
}

// Server configures the HTTP API server.
type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServer returns production-safe server timeouts.
func DefaultServer() Server {
	return Server{
		Port:         "8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Database configures Postgres. Empty URL selects the in-memory store.
type Database struct {
	URL      string
	MaxConns int32
}

// Log configures pkg/logger.
type Log struct {
	Level       string
	Development bool
}

// JWT configures technician bearer tokens.
type JWT struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Config is the complete, immutable application configuration.
type Config struct {
	App        App
	Currency   Currency
	DateFormat DateFormat
	Backend    Backend
	Server     Server
	Database   Database
	Log        Log
	JWT        JWT
}

// Default returns a configuration usable for tests and demo runs.
func Default() Config {
	return Config{
		App:        App{Name: "БАРИН АЛП", Version: "1.0.0"},
		Currency:   DefaultCurrency(),
		DateFormat: DefaultDateFormat(),
		Backend:    DefaultBackend(),
		Server:     DefaultServer(),
		Database:   Database{MaxConns: 10},
		Log:        Log{Level: "info", Development: true},
		JWT: JWT{
			Secret: "change-me",
			Issuer: "barinalp",
			TTL:    24 * time.Hour,
		},
	}
}

// Load reads .env (if present) and environment variables on top of Default.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Version = getEnv("APP_VERSION", cfg.App.Version)

	cfg.Currency.Code = getEnv("CURRENCY_CODE", cfg.Currency.Code)
	cfg.Currency.Symbol = getEnv("CURRENCY_SYMBOL", cfg.Currency.Symbol)
	cfg.Currency.Decimals = int32(getEnvInt("CURRENCY_DECIMALS", int(cfg.Currency.Decimals)))

	cfg.Backend.BaseURL = strings.TrimRight(getEnv("API_BASE_URL", ""), "/")
	cfg.Backend.Token = getEnv("API_TOKEN", "")
	cfg.Backend.Timeout = getEnvDuration("API_TIMEOUT", cfg.Backend.Timeout)
	cfg.Backend.ObjectsCacheTTL = getEnvDuration("OBJECTS_CACHE_TTL", cfg.Backend.ObjectsCacheTTL)

	cfg.Server.Port = getEnv("APP_PORT", cfg.Server.Port)
	cfg.Database.URL = getEnv("DATABASE_URL", "")
	cfg.Database.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(cfg.Database.MaxConns)))

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Development = getEnv("APP_ENV", "development") == "development"

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.TTL = getEnvDuration("JWT_TTL", cfg.JWT.TTL)

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Currency.Decimals < 0 || c.Currency.Decimals > 4 {
		return fmt.Errorf("CURRENCY_DECIMALS must be between 0 and 4, got %d", c.Currency.Decimals)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
