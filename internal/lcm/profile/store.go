package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenGG/league-config-manager/internal/lcm/archive"
	"github.com/OpenGG/league-config-manager/internal/lcm/backup"
	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/paths"
	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
	"github.com/OpenGG/league-config-manager/internal/lcm/validator"
)

// MaxGeneratedNames bounds the profile_<n> name space.
const MaxGeneratedNames = 15

const generatedPrefix = "profile_"

// sidecar is the per-profile metadata stored next to the copied files.
type sidecar struct {
	Champion *uint32 `json:"champion"`
	LastLink string  `json:"last_link"`
}

// Store is a directory-backed repository of profiles.
type Store struct {
	storage   *storage.Storage
	paths     *paths.PathBuilder
	validator *validator.Validator
	backups   *backup.Service
	logger    *slog.Logger
}

// NewStore creates a Store rooted at the profile root of pb. backups may be
// nil, in which case active files are overwritten without a backup.
func NewStore(st *storage.Storage, pb *paths.PathBuilder, backups *backup.Service, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		storage:   st,
		paths:     pb,
		validator: validator.New(),
		backups:   backups,
		logger:    logger,
	}
}

// Root returns the profile root directory.
func (s *Store) Root() string {
	return s.paths.ProfileRoot()
}

// List loads every profile under the root, sorted by name. A missing or
// corrupt sidecar yields a profile with no binding and no link.
func (s *Store) List() ([]*Profile, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}
	profiles := make([]*Profile, 0, len(names))
	for _, name := range names {
		meta := s.loadMeta(name)
		profiles = append(profiles, &Profile{
			Name:     name,
			Champion: meta.Champion,
			LastLink: meta.LastLink,
		})
	}
	return profiles, nil
}

// Names returns the sorted profile directory names.
func (s *Store) Names() ([]string, error) {
	entries, err := s.storage.ReadDir(s.Root())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile root: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) loadMeta(name string) sidecar {
	var meta sidecar
	raw, err := s.storage.ReadFile(s.paths.SidecarPath(name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("profile metadata unreadable", "profile", name, "error", err)
		}
		return sidecar{}
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		s.logger.Warn("profile metadata corrupt, using defaults", "profile", name, "error", err)
		return sidecar{}
	}
	return meta
}

// SaveMeta persists the binding and last link of p. A profile deleted in the
// meantime stays deleted.
func (s *Store) SaveMeta(p *Profile) error {
	if ok, err := s.storage.IsDir(s.paths.ProfileDir(p.Name)); err != nil || !ok {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, p.Name)
	}
	raw, err := json.Marshal(sidecar{Champion: p.Champion, LastLink: p.LastLink})
	if err != nil {
		return err
	}
	if err := s.storage.WriteFileAtomic(s.paths.SidecarPath(p.Name), raw); err != nil {
		return fmt.Errorf("failed to save metadata of %s: %w", p.Name, err)
	}
	s.logger.Debug("profile metadata saved", "profile", p.Name, "binding", p.BindingLabel())
	return nil
}

// GenerateName returns the first free profile_<n> name.
func (s *Store) GenerateName() (string, error) {
	names, err := s.Names()
	if err != nil {
		return "", err
	}
	for i := 0; i < MaxGeneratedNames; i++ {
		name := fmt.Sprintf("%s%d", generatedPrefix, i)
		if !contains(names, name) {
			return name, nil
		}
	}
	return "", domain.ErrNoFreeName
}

// Create snapshots the given game settings into a new generated profile.
func (s *Store) Create(from *gamesettings.GameSettings) (*Profile, error) {
	name, err := s.GenerateName()
	if err != nil {
		return nil, err
	}
	dir := s.paths.ProfileDir(name)
	if err := s.storage.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	for _, src := range from.Files() {
		if err := s.storage.CopyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			if rmErr := s.storage.RemoveAll(dir); rmErr != nil {
				s.logger.Warn("failed to clean up partial profile", "profile", name, "error", rmErr)
			}
			return nil, fmt.Errorf("failed to snapshot %s: %w", filepath.Base(src), err)
		}
	}
	s.logger.Info("profile created", "profile", name, "from", from.Dir())
	return &Profile{Name: name}, nil
}

// ImportArchive creates a profile from a zip archive. The archive's file
// stem is used as name unless it is taken or invalid, in which case a
// generated name is used.
func (s *Store) ImportArchive(path string) (*Profile, error) {
	name, err := s.importName(path)
	if err != nil {
		return nil, err
	}
	dir := s.paths.ProfileDir(name)
	if err := s.storage.MkdirAll(s.Root()); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrZipImport, err)
	}
	if err := s.storage.Mkdir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrZipImport, err)
	}
	if _, err := archive.Extract(s.storage, path, dir); err != nil {
		s.storage.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", domain.ErrZipImport, err)
	}
	s.logger.Info("profile imported", "profile", name, "archive", path)
	return &Profile{Name: name}, nil
}

func (s *Store) importName(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	names, err := s.Names()
	if err != nil {
		return "", err
	}
	if ok, _ := s.validator.ValidateName(stem); ok && stem == strings.TrimSpace(stem) && !contains(names, stem) {
		return stem, nil
	}
	return s.GenerateName()
}

// ImportBlob creates a generated profile from a shared blob.
func (s *Store) ImportBlob(content string) (*Profile, error) {
	if !strings.Contains(content, gamesettings.Separator) {
		return nil, domain.ErrImport
	}
	name, err := s.GenerateName()
	if err != nil {
		return nil, err
	}
	dir := s.paths.ProfileDir(name)
	if _, err := gamesettings.WriteBlob(s.storage, dir, content); err != nil {
		s.storage.RemoveAll(dir)
		if errors.Is(err, domain.ErrImport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrImport, err)
	}
	s.logger.Info("profile imported from shared blob", "profile", name)
	return &Profile{Name: name}, nil
}

// Rename moves a profile to a new name. Renaming to the current name is a
// no-op; colliding with another profile fails with domain.ErrNameTaken.
func (s *Store) Rename(oldName, newName string) (string, error) {
	normalized, err := s.validator.NormalizeName(newName)
	if err != nil {
		return "", err
	}
	if normalized == oldName {
		return oldName, nil
	}
	names, err := s.Names()
	if err != nil {
		return "", err
	}
	if !contains(names, oldName) {
		return "", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, oldName)
	}
	if contains(names, normalized) {
		return "", domain.ErrNameTaken
	}
	if err := s.storage.Rename(s.paths.ProfileDir(oldName), s.paths.ProfileDir(normalized)); err != nil {
		return "", fmt.Errorf("failed to rename profile: %w", err)
	}
	s.logger.Info("profile renamed", "from", oldName, "to", normalized)
	return normalized, nil
}

// Delete removes a profile directory recursively.
func (s *Store) Delete(name string) error {
	dir := s.paths.ProfileDir(name)
	if ok, err := s.storage.IsDir(dir); err != nil || !ok {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}
	if err := s.storage.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.logger.Info("profile deleted", "profile", name)
	return nil
}

// ExportArchive writes <name>.zip with both settings files into destDir and
// returns the archive path.
func (s *Store) ExportArchive(name, destDir string) (string, error) {
	settings, err := s.Settings(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrZipExport, err)
	}
	dest := filepath.Join(destDir, name+".zip")
	if err := archive.Write(s.storage, dest, settings.Files()); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrZipExport, err)
	}
	s.logger.Info("profile exported", "profile", name, "archive", dest)
	return dest, nil
}

// Settings returns the stored file pair of a profile.
func (s *Store) Settings(name string) (*gamesettings.GameSettings, error) {
	gs, err := gamesettings.FromDir(s.storage, s.paths.ProfileDir(name))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	return gs, nil
}

// Apply copies the stored files of a profile over the active game settings.
// The readonly attribute of the active files is cleared first and is left
// cleared; restoring it is up to the caller.
func (s *Store) Apply(name string, active *gamesettings.GameSettings) error {
	source, err := s.Settings(name)
	if err != nil {
		return err
	}
	if s.backups != nil {
		if err := s.backups.BackupFiles(active.Files()...); err != nil {
			return fmt.Errorf("failed to back up active settings: %w", err)
		}
	}
	if err := active.SetReadonly(false); err != nil {
		return fmt.Errorf("failed to clear readonly: %w", err)
	}
	if err := s.storage.CopyFile(source.Game, active.Game); err != nil {
		return fmt.Errorf("failed to apply %s: %w", paths.GameFileName, err)
	}
	if err := s.storage.CopyFile(source.Settings, active.Settings); err != nil {
		return fmt.Errorf("failed to apply %s: %w", paths.SettingsFileName, err)
	}
	s.logger.Info("profile applied", "profile", name, "target", active.Dir())
	return nil
}

// Share serializes the stored files of a profile into a paste blob.
func (s *Store) Share(name string) (string, error) {
	settings, err := s.Settings(name)
	if err != nil {
		return "", err
	}
	return settings.PasteString()
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
