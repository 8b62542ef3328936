// Package gamesettings models the pair of files the game client reads its
// configuration from.
package gamesettings

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/paths"
	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
)

// Separator joins the two file bodies of a shared profile. Existing links
// depend on this exact literal.
const Separator = "<lcm-seperator>"

func init() {
	// game.cfg is written as Key=Value without padding.
	ini.PrettyFormat = false
}

// GameSettings is a validated game.cfg / PersistedSettings.json pair.
type GameSettings struct {
	storage  *storage.Storage
	Game     string
	Settings string
}

// FromDir validates that dir holds both files.
func FromDir(st *storage.Storage, dir string) (*GameSettings, error) {
	gs := &GameSettings{
		storage:  st,
		Game:     filepath.Join(dir, paths.GameFileName),
		Settings: filepath.Join(dir, paths.SettingsFileName),
	}
	for _, p := range gs.Files() {
		ok, err := st.Exists(p)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", p, err)
		}
		if !ok {
			return nil, domain.ErrWrongPath
		}
	}
	return gs, nil
}

// FromInstall validates the Config directory of a game install.
func FromInstall(st *storage.Storage, installDir string) (*GameSettings, error) {
	if strings.TrimSpace(installDir) == "" {
		return nil, domain.ErrMissingPath
	}
	return FromDir(st, paths.InstallConfig(installDir))
}

// Dir returns the directory holding both files.
func (g *GameSettings) Dir() string {
	return filepath.Dir(g.Game)
}

// Files returns both file paths, game.cfg first.
func (g *GameSettings) Files() []string {
	return []string{g.Game, g.Settings}
}

// Readonly reports the readonly attribute of game.cfg.
func (g *GameSettings) Readonly() (bool, error) {
	return g.storage.Readonly(g.Game)
}

// SetReadonly applies the readonly attribute to both files.
func (g *GameSettings) SetReadonly(readonly bool) error {
	for _, p := range g.Files() {
		if err := g.storage.SetReadonly(p, readonly); err != nil {
			return err
		}
	}
	return nil
}

// PasteString serializes both files into one blob for sharing.
func (g *GameSettings) PasteString() (string, error) {
	game, err := g.storage.ReadFile(g.Game)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", paths.GameFileName, err)
	}
	settings, err := g.storage.ReadFile(g.Settings)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", paths.SettingsFileName, err)
	}
	var b strings.Builder
	b.Grow(len(game) + len(Separator) + len(settings))
	b.Write(game)
	b.WriteString(Separator)
	b.Write(settings)
	return b.String(), nil
}

// WriteBlob splits a shared blob on the first separator and writes both
// halves into dir. Empty halves are accepted; a missing separator is not.
func WriteBlob(st *storage.Storage, dir, content string) (*GameSettings, error) {
	game, settings, found := strings.Cut(content, Separator)
	if !found {
		return nil, domain.ErrImport
	}
	if err := st.MkdirAll(dir); err != nil {
		return nil, err
	}
	if err := st.WriteFileAtomic(filepath.Join(dir, paths.GameFileName), []byte(game)); err != nil {
		return nil, err
	}
	if err := st.WriteFileAtomic(filepath.Join(dir, paths.SettingsFileName), []byte(settings)); err != nil {
		return nil, err
	}
	return FromDir(st, dir)
}

// ResetResolution removes Width and Height from the [General] section of
// game.cfg so the client falls back to the native resolution. The readonly
// attribute is restored afterwards.
func (g *GameSettings) ResetResolution() error {
	readonly, err := g.Readonly()
	if err != nil {
		return err
	}
	if err := g.SetReadonly(false); err != nil {
		return err
	}

	raw, err := g.storage.ReadFile(g.Game)
	if err != nil {
		return err
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{PreserveSurroundedQuote: true}, raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", paths.GameFileName, err)
	}
	general := cfg.Section("General")
	general.DeleteKey("Width")
	general.DeleteKey("Height")

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", paths.GameFileName, err)
	}
	if err := g.storage.WriteFileAtomic(g.Game, buf.Bytes()); err != nil {
		return err
	}

	return g.SetReadonly(readonly)
}
