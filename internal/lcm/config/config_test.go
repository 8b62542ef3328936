package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
)

const configPath = "/data/config.json"

func TestLoad_MissingWritesDefault(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := Load(storage.New(fs), configPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Path() != "" {
		t.Errorf("expected unset path, got %q", s.Path())
	}
	raw, err := afero.ReadFile(fs, configPath)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if string(raw) != `{"path":null}` {
		t.Errorf("default config = %s", raw)
	}
}

func TestLoad_CorruptResets(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, configPath, []byte("{{{"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s, err := Load(storage.New(fs), configPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Path() != "" {
		t.Errorf("expected unset path, got %q", s.Path())
	}
}

func TestSetPath_Persists(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := storage.New(fs)

	s, err := Load(st, configPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.SetPath("C:/Riot Games/League of Legends"); err != nil {
		t.Fatalf("SetPath: %v", err)
	}

	reloaded, err := Load(st, configPath, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Path() != "C:/Riot Games/League of Legends" {
		t.Errorf("path not persisted: %q", reloaded.Path())
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LCM_HOME", "/tmp/lcm")
	t.Setenv("LCM_LOG_LEVEL", "debug")
	t.Setenv("LCM_RETRY_WINDOW", "3s")
	t.Setenv("LCM_NON_INTERACTIVE", "1")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if e.Home != "/tmp/lcm" || e.RetryWindow != 3*time.Second || !e.NonInteractive {
		t.Errorf("unexpected env %+v", e)
	}
	if e.PasteURL != "https://dpaste.com/api/" {
		t.Errorf("PasteURL default = %q", e.PasteURL)
	}
	if e.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", e.Level())
	}

	dir, err := DataDir(e)
	if err != nil || dir != "/tmp/lcm" {
		t.Errorf("DataDir = %q, %v", dir, err)
	}
}

func TestDataDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/summoner")
	dir, err := DataDir(Env{})
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if filepath.Base(dir) != "league_config_manager" {
		t.Errorf("DataDir = %q", dir)
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Env{LogLevel: in}).Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}
