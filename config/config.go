// Package config carries the service's recognized options and their
// environment bindings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the service recognizes.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// Language selects the recognition model.
	Language string
	// MaxUploadBytes is the upper bound on accepted payload size.
	MaxUploadBytes int64
	// MinDimension and MaxDimension bound accepted image pixel dimensions.
	MinDimension int
	MaxDimension int
	// Timeout is the per-request recognition budget.
	Timeout time.Duration
	// Binarize enables the contrast/binarization preprocessing step.
	Binarize bool
	// MaxConcurrent caps simultaneous recognition calls.
	MaxConcurrent int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Default returns the service defaults. The listen port matches the original
// deployment.
func Default() Config {
	return Config{
		Addr:           ":5000",
		Language:       "eng",
		MaxUploadBytes: 10 << 20,
		MinDimension:   8,
		MaxDimension:   10000,
		Timeout:        30 * time.Second,
		Binarize:       false,
		MaxConcurrent:  4,
		LogLevel:       "info",
	}
}

// FromEnv overlays OCRKIT_-prefixed environment variables onto the defaults.
func FromEnv() (Config, error) {
	cfg := Default()
	if v, ok := os.LookupEnv("OCRKIT_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("OCRKIT_LANGUAGE"); ok {
		cfg.Language = v
	}
	if v, ok := os.LookupEnv("OCRKIT_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	var err error
	if cfg.MaxUploadBytes, err = envInt64("OCRKIT_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return Config{}, err
	}
	if cfg.MinDimension, err = envInt("OCRKIT_MIN_DIMENSION", cfg.MinDimension); err != nil {
		return Config{}, err
	}
	if cfg.MaxDimension, err = envInt("OCRKIT_MAX_DIMENSION", cfg.MaxDimension); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrent, err = envInt("OCRKIT_MAX_CONCURRENT", cfg.MaxConcurrent); err != nil {
		return Config{}, err
	}
	timeoutMS, err := envInt64("OCRKIT_TIMEOUT_MS", int64(cfg.Timeout/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	cfg.Timeout = time.Duration(timeoutMS) * time.Millisecond
	if cfg.Binarize, err = envBool("OCRKIT_BINARIZE", cfg.Binarize); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if c.Language == "" {
		return fmt.Errorf("config: language must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MinDimension <= 0 || c.MaxDimension < c.MinDimension {
		return fmt.Errorf("config: dimension bounds [%d, %d] are invalid", c.MinDimension, c.MaxDimension)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("config: max concurrent must be positive, got %d", c.MaxConcurrent)
	}
	return nil
}

func envInt(name string, fallback int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", name, v)
	}
	return n, nil
}

func envInt64(name string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", name, v)
	}
	return n, nil
}

func envBool(name string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", name, v)
	}
	return b, nil
}
