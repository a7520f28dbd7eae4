package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Env  string
	Port string

	// DBDSN vacío => storage in-memory (modo dev).
	DBDSN string

	Redis   RedisConfig
	Session SessionConfig
	Login   LoginConfig
	CatAPI  CatAPIConfig
	Log     LogConfig

	BcryptCost int

	// TrustProxy habilita X-Forwarded-For / X-Real-IP como IP del cliente.
	// Apagado, la IP sale siempre de la conexión (RemoteAddr).
	TrustProxy bool
}

// RedisConfig: Addr vacío => limiter y sesiones in-memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	RememberTTL  time.Duration
	SecureCookie bool
}

type LoginConfig struct {
	MaxAttempts int
	Decay       time.Duration
}

type CatAPIConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateRPS   float64
	RateBurst int
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

const devSessionSecret = "dev-insecure-session-secret"

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Env:   fallback(os.Getenv("APP_ENV"), "dev"),
		Port:  fallback(os.Getenv("PORT"), "8080"),
		DBDSN: strings.TrimSpace(os.Getenv("DB_DSN")),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intOr("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:       strings.TrimSpace(os.Getenv("SESSION_SECRET")),
			TTL:          time.Duration(intOr("SESSION_TTL_MINUTES", 120)) * time.Minute,
			RememberTTL:  30 * 24 * time.Hour,
			SecureCookie: boolOr("SESSION_SECURE_COOKIE", false),
		},
		Login: LoginConfig{
			MaxAttempts: intOr("LOGIN_MAX_ATTEMPTS", 5),
			Decay:       time.Duration(intOr("LOGIN_DECAY_SECONDS", 60)) * time.Second,
		},
		CatAPI: CatAPIConfig{
			BaseURL:   fallback(os.Getenv("THE_CAT_API_URL"), "https://api.thecatapi.com/v1/"),
			APIKey:    strings.TrimSpace(os.Getenv("THE_CAT_API_KEY")),
			Timeout:   time.Duration(intOr("CAT_API_TIMEOUT_SECONDS", 10)) * time.Second,
			RateRPS:   floatOr("CATS_RATE_RPS", 5),
			RateBurst: intOr("CATS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
			App:    fallback(os.Getenv("APP_NAME"), "pet-manager"),
		},
		BcryptCost: intOr("BCRYPT_COST", 10),
		TrustProxy: boolOr("TRUST_PROXY", false),
	}

	if cfg.Session.Secret == "" {
		if !cfg.IsDev() {
			return Config{}, errors.New("SESSION_SECRET is required")
		}
		cfg.Session.Secret = devSessionSecret
	}
	if cfg.Login.MaxAttempts <= 0 {
		return Config{}, errors.New("LOGIN_MAX_ATTEMPTS must be positive")
	}
	if cfg.Login.Decay <= 0 {
		return Config{}, errors.New("LOGIN_DECAY_SECONDS must be positive")
	}
	if cfg.Session.TTL <= 0 {
		return Config{}, errors.New("SESSION_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local" || c.Env == "test"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intOr(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func floatOr(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func boolOr(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}
