// Package config loads client configuration from the environment, with a
// .env file as an optional local override.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full client configuration. Every field has a default; a
// bare environment runs against a local server.
type Config struct {
	// ServerURL is the websocket endpoint of the game server.
	ServerURL string

	// StatusAddr is the listen address of the local status API; empty
	// disables it.
	StatusAddr string

	// HistoryPath is the sqlite file for local match history; empty
	// disables recording.
	HistoryPath string

	FeedbackDelay time.Duration
	TickInterval  time.Duration

	// Autoplay runs the client headless with an automated player.
	Autoplay           bool
	AutoplayUser       string
	AutoplayPass       string
	AutoplayRoom       string
	AutoplayDifficulty string

	// TelemetryEnabled gates the OpenTelemetry exporters; OTLPEndpoint
	// is the collector's gRPC address.
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerURL:          envOr("TTT_SERVER_URL", "ws://localhost:8080/ws"),
		StatusAddr:         envOr("TTT_STATUS_ADDR", "127.0.0.1:8081"),
		HistoryPath:        envOr("TTT_HISTORY_PATH", "./client.db"),
		AutoplayUser:       os.Getenv("TTT_AUTOPLAY_USER"),
		AutoplayPass:       os.Getenv("TTT_AUTOPLAY_PASS"),
		AutoplayRoom:       envOr("TTT_AUTOPLAY_ROOM", "auto-room"),
		AutoplayDifficulty: envOr("TTT_AUTOPLAY_DIFFICULTY", "hard"),
		OTLPEndpoint:       envOr("TTT_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.FeedbackDelay, err = envDuration("TTT_FEEDBACK_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = envDuration("TTT_TICK_INTERVAL", 50*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Autoplay, err = envBool("TTT_AUTOPLAY", false); err != nil {
		return nil, err
	}
	if cfg.TelemetryEnabled, err = envBool("TTT_TELEMETRY", false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
