// Package config loads the board's deployment configuration from the process
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the board
// service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration
	// TimeZone is the IANA zone used for day-window computations. It is an
	// explicit deployment value; the board never derives day boundaries from
	// the host's local clock.
	TimeZone string
	// SweepInterval controls the background expiration sweep. Zero disables
	// the ticker; reads still sweep on demand.
	SweepInterval time.Duration
}

// Load parses configuration values from the current process environment,
// applying defaults for optional fields and collecting invalid entries into a
// single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:roomboard.db?_txlock=immediate",
		SessionTTL:    12 * time.Hour,
		TimeZone:      "UTC",
		SweepInterval: time.Minute,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOARD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOARD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOARD_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROOMBOARD_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROOMBOARD_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if zone := strings.TrimSpace(os.Getenv("ROOMBOARD_TIME_ZONE")); zone != "" {
		if _, err := time.LoadLocation(zone); err != nil {
			invalid = append(invalid, "ROOMBOARD_TIME_ZONE")
		} else {
			cfg.TimeZone = zone
		}
	}

	if sweepValue := strings.TrimSpace(os.Getenv("ROOMBOARD_SWEEP_INTERVAL")); sweepValue != "" {
		interval, err := time.ParseDuration(sweepValue)
		if err != nil || interval < 0 {
			invalid = append(invalid, "ROOMBOARD_SWEEP_INTERVAL")
		} else {
			cfg.SweepInterval = interval
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
