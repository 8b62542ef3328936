package app

import (
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

// Msg is an input to Update. User actions clear the status line; completions
// and watcher events do not.
type Msg interface{ isMsg() }

// User actions.
type (
	// FindLocation asks the user for the game install directory.
	FindLocation struct{}
	// SetLocation validates and saves a known install directory.
	SetLocation struct{ Path string }
	// SetReadonly toggles the global readonly lock.
	SetReadonly struct{ Readonly bool }
	// Refresh reloads profiles from disk.
	Refresh struct{}
	// AddProfile snapshots the active settings into a new profile.
	AddProfile struct{}
	// RemoveProfile deletes a profile.
	RemoveProfile struct{ Name string }
	// UseProfile swaps a profile in manually.
	UseProfile struct{ Name string }
	// EditStart opens the rename buffer of a profile.
	EditStart struct{ Name string }
	// EditChange updates the rename buffer.
	EditChange struct{ Name, Value string }
	// EditConfirm renames a profile to its buffer.
	EditConfirm struct{ Name string }
	// EditReset closes the rename buffer without renaming.
	EditReset struct{ Name string }
	// Export asks for a directory and writes <name>.zip into it.
	Export struct{ Name string }
	// Import asks for an archive and imports it.
	Import struct{}
	// BindChampion sets the auto-swap option of a profile.
	BindChampion struct{ Name, Option string }
	// Share uploads a profile to the paste service.
	Share struct{ Name string }
	// ImportLink imports a profile shared with Share.
	ImportLink struct{ Link string }
	// ResetResolution drops the stored resolution from the active game.cfg.
	ResetResolution struct{}
)

// Task completions.
type (
	// LocationSet reports the validated install directory.
	LocationSet struct {
		Path     string
		Settings *gamesettings.GameSettings
		Readonly bool
		Err      error
	}
	// ReadonlyApplied reports the readonly lock written to disk.
	ReadonlyApplied struct {
		Readonly bool
		Err      error
	}
	// ProfilesLoaded carries a fresh profile listing.
	ProfilesLoaded struct {
		Profiles []*profile.Profile
		Err      error
	}
	// ProfileAdded carries a created profile.
	ProfileAdded struct {
		Profile *profile.Profile
		Err     error
	}
	// ProfileRemoved reports a deleted profile.
	ProfileRemoved struct {
		Name string
		Err  error
	}
	// ProfileApplied reports a manual swap.
	ProfileApplied struct {
		Name string
		Err  error
	}
	// ProfileRenamed reports a rename.
	ProfileRenamed struct {
		Old, New string
		Err      error
	}
	// ExportDirPicked carries the export directory chosen by the user.
	ExportDirPicked struct {
		Name, Dir string
		Err       error
	}
	// Exported reports a written archive.
	Exported struct {
		Name, Path string
		Err        error
	}
	// ArchivePicked carries the archive chosen by the user.
	ArchivePicked struct {
		Path string
		Err  error
	}
	// Imported carries a profile imported from an archive.
	Imported struct {
		Profile *profile.Profile
		Err     error
	}
	// BindingSaved reports persisted binding metadata.
	BindingSaved struct {
		Name string
		Err  error
	}
	// Shared carries the link of an uploaded profile.
	Shared struct {
		Name, Link string
		Err        error
	}
	// LinkFetched carries a profile imported from a link.
	LinkFetched struct {
		Profile *profile.Profile
		Err     error
	}
	// ResolutionReset reports the game.cfg edit.
	ResolutionReset struct{ Err error }
	// AutoSwapped reports a swap triggered by a champion selection.
	AutoSwapped struct {
		Champion uint32
		Name     string
		Err      error
	}
)

// WatcherEvent wraps an event of the selection watcher.
type WatcherEvent struct{ Event watcher.Event }

func (FindLocation) isMsg()    {}
func (SetLocation) isMsg()     {}
func (SetReadonly) isMsg()     {}
func (Refresh) isMsg()         {}
func (AddProfile) isMsg()      {}
func (RemoveProfile) isMsg()   {}
func (UseProfile) isMsg()      {}
func (EditStart) isMsg()       {}
func (EditChange) isMsg()      {}
func (EditConfirm) isMsg()     {}
func (EditReset) isMsg()       {}
func (Export) isMsg()          {}
func (Import) isMsg()          {}
func (BindChampion) isMsg()    {}
func (Share) isMsg()           {}
func (ImportLink) isMsg()      {}
func (ResetResolution) isMsg() {}

func (LocationSet) isMsg()     {}
func (ReadonlyApplied) isMsg() {}
func (ProfilesLoaded) isMsg()  {}
func (ProfileAdded) isMsg()    {}
func (ProfileRemoved) isMsg()  {}
func (ProfileApplied) isMsg()  {}
func (ProfileRenamed) isMsg()  {}
func (ExportDirPicked) isMsg() {}
func (Exported) isMsg()        {}
func (ArchivePicked) isMsg()   {}
func (Imported) isMsg()        {}
func (BindingSaved) isMsg()    {}
func (Shared) isMsg()          {}
func (LinkFetched) isMsg()     {}
func (ResolutionReset) isMsg() {}
func (AutoSwapped) isMsg()     {}

func (WatcherEvent) isMsg() {}
