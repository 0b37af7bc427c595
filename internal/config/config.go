// Package config handles environment variable loading for the vcrts
// binaries: data directory, poll intervals, ports.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the application.
type Config struct {
	// Directory holding the shared line-store files
	DataDir string

	// Notification poller tick interval
	PollInterval time.Duration

	// Coordinator heartbeat interval
	HeartbeatInterval time.Duration

	// Port for the Prometheus /metrics endpoint
	MetricsPort int

	// OTLP trace collector endpoint (host:port)
	OTELEndpoint string
}

// Load reads configuration from environment variables, with defaults for
// everything. Invalid values fail loudly rather than falling back.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:           "data",
		PollInterval:      2 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MetricsPort:       6161,
		OTELEndpoint:      "localhost:4317",
	}

	if dir := os.Getenv("VCRTS_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	if s := os.Getenv("VCRTS_POLL_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid VCRTS_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if s := os.Getenv("VCRTS_HEARTBEAT_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid VCRTS_HEARTBEAT_INTERVAL: %w", err)
		}
		cfg.HeartbeatInterval = d
	}

	if s := os.Getenv("VCRTS_METRICS_PORT"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid VCRTS_METRICS_PORT: %w", err)
		}
		cfg.MetricsPort = p
	}

	if ep := os.Getenv("VCRTS_OTEL_ENDPOINT"); ep != "" {
		cfg.OTELEndpoint = ep
	}

	return cfg, nil
}
