package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Pool struct {
		Size int `yaml:"size" env:"POOL_SIZE"`
	} `yaml:"pool"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	Admin struct {
		Address string `yaml:"address" env:"ADMIN_ADDRESS"`
	} `yaml:"admin"`

	Load struct {
		Jobs        int           `yaml:"jobs" env:"LOAD_JOBS"`
		JobDuration time.Duration `yaml:"job_duration" env:"LOAD_JOB_DURATION"`
		PanicEvery  int           `yaml:"panic_every"`
		Rate        string        `yaml:"rate" env:"LOAD_RATE"`
		Interval    time.Duration `yaml:"interval"`
	} `yaml:"load"`

	Tracing struct {
		Enabled  bool   `yaml:"enabled" env:"TRACING_ENABLED"`
		Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	} `yaml:"tracing"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func Default() *Config {
	var cfg Config
	cfg.Pool.Size = 4
	cfg.Log.Level = "info"
	cfg.Admin.Address = ":6060"
	cfg.Load.Jobs = 100
	cfg.Load.JobDuration = 50 * time.Millisecond
	cfg.Load.Interval = 10 * time.Second
	cfg.Tracing.Endpoint = "localhost:4318"
	cfg.ShutdownTimeout = 30 * time.Second
	return &cfg
}

// Load reads the YAML file at path over the defaults and then applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read yaml")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var err error
	if c.Pool.Size <= 0 {
		err = multierr.Append(err, fmt.Errorf("pool.size must be greater than zero, got %d", c.Pool.Size))
	}
	if _, lerr := c.SlogLevel(); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	if c.Load.Jobs < 0 {
		err = multierr.Append(err, fmt.Errorf("load.jobs must not be negative, got %d", c.Load.Jobs))
	}
	if c.Load.JobDuration < 0 {
		err = multierr.Append(err, fmt.Errorf("load.job_duration must not be negative, got %s", c.Load.JobDuration))
	}
	if c.Load.PanicEvery < 0 {
		err = multierr.Append(err, fmt.Errorf("load.panic_every must not be negative, got %d", c.Load.PanicEvery))
	}
	if c.Load.Rate != "" {
		if _, rerr := limiter.NewRateFromFormatted(c.Load.Rate); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("load.rate %q: %w", c.Load.Rate, rerr))
		}
	}
	if c.ShutdownTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout))
	}
	return err
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
