// Package config holds the server settings and reads them from flags and
// CHESS_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// Config holds everything the server needs at startup.
type Config struct {
	Addr            string
	AllowOrigins    string
	IdleTimeout     time.Duration // sessions untouched this long are removed
	ReapInterval    time.Duration
	LogLevel        string
	ReadBufferSize  int
	WriteBufferSize int
}

// Default returns the settings used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:            ":3000",
		AllowOrigins:    "http://localhost:5173",
		IdleTimeout:     30 * time.Minute,
		ReapInterval:    time.Minute,
		LogLevel:        "info",
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Load builds a Config from defaults, then environment variables read
// through getenv, then command-line args. Flags win over the environment.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "remove sessions idle for this long")
	fs.DurationVar(&cfg.ReapInterval, "reap-interval", cfg.ReapInterval, "how often idle sessions are looked for")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace|debug|info|warn|error")
	fs.IntVar(&cfg.ReadBufferSize, "ws-read-buffer", cfg.ReadBufferSize, "websocket read buffer size")
	fs.IntVar(&cfg.WriteBufferSize, "ws-write-buffer", cfg.WriteBufferSize, "websocket write buffer size")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	durations := map[string]*time.Duration{
		"CHESS_IDLE_TIMEOUT":  &c.IdleTimeout,
		"CHESS_REAP_INTERVAL": &c.ReapInterval,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			*dst = d
		}
	}
	ints := map[string]*int{
		"CHESS_WS_READ_BUFFER":  &c.ReadBufferSize,
		"CHESS_WS_WRITE_BUFFER": &c.WriteBufferSize,
	}
	for key, dst := range ints {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
			}
			*dst = n
		}
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case c.IdleTimeout <= 0:
		return fmt.Errorf("%w: idle timeout must be positive", ErrInvalidConfig)
	case c.ReapInterval <= 0:
		return fmt.Errorf("%w: reap interval must be positive", ErrInvalidConfig)
	case len(c.Origins()) == 0:
		return fmt.Errorf("%w: at least one allowed origin is required", ErrInvalidConfig)
	case c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0:
		return fmt.Errorf("%w: websocket buffer sizes must be positive", ErrInvalidConfig)
	}
	for _, l := range logLevels {
		if c.LogLevel == l {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
