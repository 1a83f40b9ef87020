package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr            string
	DatabaseURL     string
	StoreMode       string // "postgres" or "memory"
	JWTSecret       string
	TokenTTL        time.Duration
	MarketTickEvery time.Duration
	MarketSeed      int64
	RequestTimeout  time.Duration
}

type WorkerConfig struct {
	DatabaseURL     string
	StoreMode       string
	MarketTickEvery time.Duration
	MarketSeed      int64
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("LIFESIM_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StoreMode:       envStoreModeDefault(),
		JWTSecret:       strings.TrimSpace(os.Getenv("LIFESIM_JWT_SECRET")),
		TokenTTL:        envDurationDefault("LIFESIM_TOKEN_TTL", 24*time.Hour),
		MarketTickEvery: envDurationDefault("LIFESIM_MARKET_TICK_EVERY", 5*time.Minute),
		MarketSeed:      envInt64Default("LIFESIM_MARKET_SEED", 0),
		RequestTimeout:  envDurationDefault("LIFESIM_REQUEST_TIMEOUT", 30*time.Second),
	}
	if cfg.StoreMode == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required unless LIFESIM_STORE=memory")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("LIFESIM_JWT_SECRET is required")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	cfg := WorkerConfig{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StoreMode:       envStoreModeDefault(),
		MarketTickEvery: envDurationDefault("LIFESIM_MARKET_TICK_EVERY", 5*time.Minute),
		MarketSeed:      envInt64Default("LIFESIM_MARKET_SEED", 0),
	}
	if cfg.StoreMode == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required unless LIFESIM_STORE=memory")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("LSM_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envStoreModeDefault() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LIFESIM_STORE")))
	switch v {
	case "memory", "postgres":
		return v
	default:
		return "postgres"
	}
}
