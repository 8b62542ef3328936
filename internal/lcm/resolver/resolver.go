// Package resolver maps a champion selection to the profile that should be
// swapped in, and performs the swap.
package resolver

import (
	"io"
	"log/slog"

	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
)

// Resolve picks the profile for a selected champion. A selection of 0 means
// nothing is selected and never resolves. Otherwise an exact binding wins
// over the default profile.
func Resolve(profiles []*profile.Profile, id uint32) (*profile.Profile, bool) {
	if id == champion.DefaultID {
		return nil, false
	}
	for _, p := range profiles {
		if p.BoundTo(id) {
			return p, true
		}
	}
	for _, p := range profiles {
		if p.IsDefault() {
			return p, true
		}
	}
	return nil, false
}

// Applier copies a stored profile over the active game settings.
type Applier interface {
	Apply(name string, active *gamesettings.GameSettings) error
}

// Swapper applies profiles and re-applies the global readonly lock.
type Swapper struct {
	applier Applier
	logger  *slog.Logger
}

// NewSwapper creates a Swapper on top of a profile store.
func NewSwapper(applier Applier, logger *slog.Logger) *Swapper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Swapper{applier: applier, logger: logger}
}

// Use applies the named profile and then sets the readonly attribute of the
// active files to readonly.
func (s *Swapper) Use(name string, active *gamesettings.GameSettings, readonly bool) error {
	if err := s.applier.Apply(name, active); err != nil {
		return err
	}
	if err := active.SetReadonly(readonly); err != nil {
		return err
	}
	s.logger.Info("profile applied", "profile", name, "readonly", readonly)
	return nil
}
