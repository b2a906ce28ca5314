// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ErrInvalidMethod is returned when RECONSTRUCT_METHOD names no method.
var ErrInvalidMethod = errors.New("config: invalid method")

// Config holds the settings shared by every command.
type Config struct {
	DBPath string
	AlgDir string

	// Method is "cfop", "roux" or "both".
	Method string

	FirstMoveAdjustMs int64
	LogLevel          logrus.Level
}

// Load reads a .env file if one exists, then the process environment.
// Unset values keep their defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:   strings.TrimSpace(os.Getenv("RECONSTRUCT_DB")),
		AlgDir:   strings.TrimSpace(os.Getenv("RECONSTRUCT_ALG_DIR")),
		Method:   strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("RECONSTRUCT_METHOD")), "both")),
		LogLevel: logrus.WarnLevel,
	}

	switch cfg.Method {
	case "cfop", "roux", "both":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, cfg.Method)
	}

	if raw := strings.TrimSpace(os.Getenv("RECONSTRUCT_FIRST_MOVE_ADJUST_MS")); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid RECONSTRUCT_FIRST_MOVE_ADJUST_MS %q", raw)
		}
		cfg.FirstMoveAdjustMs = ms
	}

	if raw := strings.TrimSpace(os.Getenv("RECONSTRUCT_LOG_LEVEL")); raw != "" {
		lvl, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RECONSTRUCT_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

// Methods expands Method into the method names to analyze.
func (c *Config) Methods() []string {
	if c.Method == "both" {
		return []string{"cfop", "roux"}
	}
	return []string{c.Method}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
