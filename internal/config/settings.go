package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"txrecipe/internal/models"
)

// DefaultSettings returns a Settings with default values.
func DefaultSettings() models.Settings {
	return models.Settings{
		CloneTimeoutSec:    300.0,
		CheckoutTimeoutSec: 60.0,
		DownloadTimeoutSec: 30.0,
		DownloadChunkSize:  "8K",
		Retry: models.RetryPolicy{
			MaxAttempts:    3,
			InitialDelayMs: 2000,
			MaxDelayMs:     30000,
			Multiplier:     2.0,
		},
	}
}

// LoadSettings loads and parses a txrecipe.toml settings file. A
// missing file is not an error: the defaults are used as-is.
func LoadSettings(path string) (models.Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no settings file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}

	// Apply defaults for zeroed values
	if cfg.CloneTimeoutSec <= 0 {
		cfg.CloneTimeoutSec = 300.0
	}
	if cfg.CheckoutTimeoutSec <= 0 {
		cfg.CheckoutTimeoutSec = 60.0
	}
	if cfg.DownloadTimeoutSec <= 0 {
		cfg.DownloadTimeoutSec = 30.0
	}
	if cfg.DownloadChunkSize == "" {
		cfg.DownloadChunkSize = "8K"
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialDelayMs <= 0 {
		cfg.Retry.InitialDelayMs = 2000
	}
	if cfg.Retry.Multiplier <= 0 {
		cfg.Retry.Multiplier = 2.0
	}

	return cfg, nil
}
