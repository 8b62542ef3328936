package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/OpenGG/league-config-manager/internal/lcm/paths"
)

// Env holds settings read from the environment.
type Env struct {
	Home           string        `env:"LCM_HOME"`
	PasteURL       string        `env:"LCM_PASTE_URL"       envDefault:"https://dpaste.com/api/"`
	LogLevel       string        `env:"LCM_LOG_LEVEL"       envDefault:"info"`
	RetryWindow    time.Duration `env:"LCM_RETRY_WINDOW"    envDefault:"10s"`
	NonInteractive bool          `env:"LCM_NON_INTERACTIVE"`
}

// LoadEnv parses the environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RetryWindow <= 0 {
		cfg.RetryWindow = 10 * time.Second
	}
	return cfg, nil
}

// Level maps LogLevel onto a slog level. Unknown values mean info.
func (e Env) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(e.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DataDir returns the application data directory: LCM_HOME when set,
// otherwise league_config_manager under the user config directory.
func DataDir(e Env) (string, error) {
	if e.Home != "" {
		return e.Home, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, paths.AppDirName), nil
}
