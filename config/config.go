package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	URL              string
	LogLevel         string
	LogFile          string
	PingInterval     time.Duration
	HandshakeTimeout time.Duration
}

const (
	defaultURL     = "wss://api.hitbtc.com/api/2/ws"
	defaultLogFile = "logs/booktrack.log"
)

// Load reads the environment, after merging in a .env file from the working
// directory if there is one. Variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{
		URL:      getenv("HITBTC_WS_URL", defaultURL),
		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  getenv("LOG_FILE", defaultLogFile),
	}
	var err error
	if cfg.PingInterval, err = duration("PING_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HandshakeTimeout, err = duration("HANDSHAKE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}
