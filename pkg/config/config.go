package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultPort            = 8080
	DefaultDBURI           = "sqlite://build/numlab.db"
	DefaultRequestTimeout  = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	envPrefix              = "NUMLAB_"
)

// Config holds the externally configurable options of the service.
type Config struct {
	Host            string `validate:"omitempty,hostname|ip"`
	Port            int    `validate:"min=1,max=65535"`
	DBURI           string `validate:"required"`
	Debug           bool
	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:            DefaultPort,
		DBURI:           DefaultDBURI,
		RequestTimeout:  DefaultRequestTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load builds a Config from defaults, an optional dotenv file and the
// environment, in that order of precedence (later wins). A missing env file
// is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv applies environment overrides on top of Default using lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(envPrefix + "HOST"); ok {
		cfg.Host = strings.TrimSpace(v)
	}

	// PORT is honoured for platforms that inject it; NUMLAB_PORT wins.
	for _, key := range []string{"PORT", envPrefix + "PORT"} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			port, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.Port = port
		}
	}

	if v, ok := lookup(envPrefix + "DB_URI"); ok && strings.TrimSpace(v) != "" {
		cfg.DBURI = strings.TrimSpace(v)
	}

	if v, ok := lookup(envPrefix + "DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %sDEBUG: %w", envPrefix, err)
		}
		cfg.Debug = debug
	}

	durations := map[string]*time.Duration{
		envPrefix + "REQUEST_TIMEOUT":  &cfg.RequestTimeout,
		envPrefix + "SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	return cfg, nil
}

// Validate checks ranges and required fields.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
