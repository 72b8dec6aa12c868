package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	FCMServerKey          string
	PushBatchSize         int
	ReceiveAfter          time.Duration
	TimesaleSweepInterval time.Duration
	ShutdownTimeout       time.Duration
}

const (
	defaultRunAddress    = ":8080"
	defaultPushBatchSize = 1000
	// how long after ordering a delivery is expected when the caller
	// doesn't say
	defaultReceiveAfter          = 7 * 24 * time.Hour
	defaultTimesaleSweepInterval = 30 * time.Second
	defaultShutdownTimeout       = 10 * time.Second
)

// Load parses configuration from an optional .env file, environment
// variables, and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		FCMServerKey:          getString(lookup, "FCM_SERVER_KEY", ""),
		PushBatchSize:         getInt(lookup, "PUSH_BATCH_SIZE", defaultPushBatchSize),
		ReceiveAfter:          getDuration(lookup, "RECEIVE_AFTER", defaultReceiveAfter),
		TimesaleSweepInterval: getDuration(lookup, "TIMESALE_SWEEP_INTERVAL", defaultTimesaleSweepInterval),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("trailblazer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		receiveAfterStr    = cfg.ReceiveAfter.String()
		sweepIntervalStr   = cfg.TimesaleSweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.FCMServerKey, "fcm-key", cfg.FCMServerKey, "FCM server key for push notifications")
	fs.IntVar(&cfg.PushBatchSize, "push-batch", cfg.PushBatchSize, "Maximum device tokens per push broadcast")
	fs.StringVar(&receiveAfterStr, "receive-after", receiveAfterStr, "Default delivery window for new orders")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between timesale expiry sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReceiveAfter, err = time.ParseDuration(receiveAfterStr); err != nil {
		return nil, fmt.Errorf("invalid receive-after: %w", err)
	}

	if cfg.TimesaleSweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PushBatchSize <= 0 {
		cfg.PushBatchSize = defaultPushBatchSize
	}

	if cfg.ReceiveAfter <= 0 {
		cfg.ReceiveAfter = defaultReceiveAfter
	}

	if cfg.TimesaleSweepInterval <= 0 {
		cfg.TimesaleSweepInterval = defaultTimesaleSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
