package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"gopkg.in/yaml.v3"

	"github.com/talx-hub/points-ledger/internal/model"
)

const minSecretEntropyBits = 60

type Config struct {
	RunAddr              string        `env:"RUN_ADDRESS"            yaml:"run_address"`
	DatabaseURI          string        `env:"DATABASE_URI"           yaml:"database_uri"`
	SecretKey            string        `env:"SECRET_KEY"             yaml:"secret_key"`
	LogLevel             string        `env:"LOG_LEVEL"              yaml:"log_level"`
	ConfigFile           string        `env:"CONFIG_FILE"            yaml:"-"`
	SeedFile             string        `env:"SEED_FILE"              yaml:"seed_file"`
	WeekStart            string        `env:"WEEK_START"             yaml:"week_start"`
	Timezone             string        `env:"TIMEZONE"               yaml:"timezone"`
	AllowedOrigins       []string      `env:"ALLOWED_ORIGINS"        yaml:"allowed_origins" envSeparator:","`
	FeedInterval         time.Duration `env:"FEED_INTERVAL"          yaml:"feed_interval"`
	MaxTxAttempts        int           `env:"MAX_TX_ATTEMPTS"        yaml:"max_tx_attempts"`
	BatchErrorSample     int           `env:"BATCH_ERROR_SAMPLE"     yaml:"batch_error_sample"`
	MaxConcurrentBatches int           `env:"MAX_CONCURRENT_BATCHES" yaml:"max_concurrent_batches"`
}

type Builder struct {
	cfg *Config
	log *slog.Logger
	err error
}

func defaults() *Config {
	return &Config{
		RunAddr:              "localhost:8080",
		DatabaseURI:          "",
		SecretKey:            "",
		LogLevel:             "info",
		ConfigFile:           "",
		SeedFile:             "",
		WeekStart:            "monday",
		Timezone:             "UTC",
		AllowedOrigins:       []string{"http://localhost:5173"},
		FeedInterval:         model.DefaultFeedTickInterval,
		MaxTxAttempts:        model.DefaultMaxTxAttempts,
		BatchErrorSample:     model.DefaultErrorSampleSize,
		MaxConcurrentBatches: 2,
	}
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		cfg: defaults(),
		log: log,
	}
}

// FromFile merges a YAML file over the defaults. An empty path falls back
// to CONFIG_FILE and is a no-op when that is unset too.
func (b *Builder) FromFile(path string) *Builder {
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		return b
	}

	data, err := os.ReadFile(path)
	if err != nil {
		b.fail("Failed to read config file", fmt.Errorf("read %s: %w", path, err))
		return b
	}
	if err = yaml.Unmarshal(data, b.cfg); err != nil {
		b.fail("Failed to parse config file", fmt.Errorf("parse %s: %w", path, err))
		return b
	}
	b.cfg.ConfigFile = path
	return b
}

func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.fail("Failed to parse config", err)
	}
	return b
}

func (b *Builder) FromFlags() *Builder {
	return b.FromArgs(os.Args[1:])
}

func (b *Builder) FromArgs(args []string) *Builder {
	fs := flag.NewFlagSet("points-ledger", flag.ContinueOnError)
	fs.StringVar(&b.cfg.RunAddr, "a", b.cfg.RunAddr, "Run address")
	fs.StringVar(&b.cfg.DatabaseURI, "d", b.cfg.DatabaseURI, "Database URI, in-memory store when empty")
	fs.StringVar(&b.cfg.SecretKey, "k", b.cfg.SecretKey, "Token signing key")
	fs.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level")
	fs.StringVar(&b.cfg.SeedFile, "seed", b.cfg.SeedFile, "YAML seed for the in-memory store")
	fs.StringVar(&b.cfg.WeekStart, "w", b.cfg.WeekStart, "First day of the points week: monday or sunday")
	fs.StringVar(&b.cfg.Timezone, "tz", b.cfg.Timezone, "Timezone of the counter resets")
	fs.IntVar(&b.cfg.MaxTxAttempts, "tx-attempts", b.cfg.MaxTxAttempts, "Balance transaction attempts")
	fs.IntVar(&b.cfg.BatchErrorSample, "error-sample", b.cfg.BatchErrorSample, "Errors kept per batch record")
	fs.IntVar(&b.cfg.MaxConcurrentBatches, "batches", b.cfg.MaxConcurrentBatches, "Concurrent batch uploads")
	fs.DurationVar(&b.cfg.FeedInterval, "feed-interval", b.cfg.FeedInterval, "Live feed poll interval")
	fs.Func("o", "Comma separated allowed CORS origins", func(s string) error {
		b.cfg.AllowedOrigins = splitList(s)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		b.fail("Failed to parse flags", err)
	}
	return b
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the merged configuration. The first failure of any
// earlier step is reported as well.
func (b *Builder) Validate() *Builder {
	var errs []error
	if b.err != nil {
		errs = append(errs, b.err)
	}

	if err := passwordvalidator.Validate(b.cfg.SecretKey, minSecretEntropyBits); err != nil {
		errs = append(errs, fmt.Errorf("weak SECRET_KEY: %w", err))
	}
	b.cfg.WeekStart = strings.ToLower(strings.TrimSpace(b.cfg.WeekStart))
	if b.cfg.WeekStart != "monday" && b.cfg.WeekStart != "sunday" {
		errs = append(errs, fmt.Errorf("WEEK_START must be monday or sunday, got %q", b.cfg.WeekStart))
	}
	if _, err := time.LoadLocation(b.cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("bad TIMEZONE: %w", err))
	}
	if b.cfg.MaxTxAttempts < 1 {
		errs = append(errs, errors.New("MAX_TX_ATTEMPTS must be positive"))
	}
	if b.cfg.BatchErrorSample < model.DefaultErrorSampleSize {
		errs = append(errs, fmt.Errorf("BATCH_ERROR_SAMPLE must be at least %d", model.DefaultErrorSampleSize))
	}
	if b.cfg.MaxConcurrentBatches < 1 {
		errs = append(errs, errors.New("MAX_CONCURRENT_BATCHES must be positive"))
	}
	if b.cfg.FeedInterval <= 0 {
		errs = append(errs, errors.New("FEED_INTERVAL must be positive"))
	}

	b.err = errors.Join(errs...)
	return b
}

func (b *Builder) Error() error {
	return b.err
}

func (b *Builder) GetConfig() *Config {
	return b.cfg
}

func (b *Builder) fail(msg string, err error) {
	b.log.LogAttrs(context.Background(),
		slog.LevelError, msg, slog.Any(model.KeyLoggerError, err))
	if b.err == nil {
		b.err = err
	}
}

// Location returns the timezone of the counter resets.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
