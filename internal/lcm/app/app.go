// Package app is the single-writer state machine behind every lcm front end.
// Update never performs I/O; it returns Tasks whose results re-enter as
// messages.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
	"github.com/OpenGG/league-config-manager/internal/lcm/resolver"
	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

// Dialogs picks paths interactively. Implementations return
// domain.ErrDialogClosed when the user cancels.
type Dialogs interface {
	PickInstallDir() (string, error)
	PickExportDir(profile string) (string, error)
	PickArchive() (string, error)
}

// ConfigStore persists the install directory.
type ConfigStore interface {
	Path() string
	SetPath(p string) error
}

// Paste shares profile blobs.
type Paste interface {
	Create(ctx context.Context, content string) (string, error)
	Fetch(ctx context.Context, link string) (string, error)
}

// Services are the collaborators tasks run against.
type Services struct {
	Storage *storage.Storage
	Config  ConfigStore
	Store   *profile.Store
	Swapper *resolver.Swapper
	Dialogs Dialogs
	Paste   Paste
	Logger  *slog.Logger
}

// Conn is the watcher connection state.
type Conn struct {
	Connected bool
	// RetryIn is set only while disconnected and counting down.
	RetryIn *int
	// SelectedChampion is nil when nothing is selected.
	SelectedChampion *uint32
}

// Task is a unit of I/O started by Update.
type Task struct {
	Name string
	Run  func(ctx context.Context) Msg
}

// App is the application state. It must only be touched by one goroutine.
type App struct {
	svc    Services
	logger *slog.Logger

	InstallPath string
	Active      *gamesettings.GameSettings
	Readonly    bool
	Profiles    []*profile.Profile
	Conn        Conn

	// Err and Success form the status line; at most one of each is shown.
	Err     error
	Success string
}

// New creates an App with no install directory and no profiles; run the
// tasks of Init to load them.
func New(svc Services) *App {
	logger := svc.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{svc: svc, logger: logger}
}

// Init loads the saved install directory and the profile list.
func (a *App) Init() []Task {
	return []Task{
		a.locate(a.svc.Config.Path(), false),
		a.loadProfiles(),
	}
}

// Profile returns the profile with the exact name, or nil.
func (a *App) Profile(name string) *profile.Profile {
	return profile.Find(a.Profiles, name)
}

func (a *App) clearStatus() {
	a.Err = nil
	a.Success = ""
}

// fail records err in the status line, keeping any success message.
func (a *App) fail(op string, err error) {
	a.logger.Warn("operation failed", "op", op, "error", err)
	a.Err = err
}

// Update applies msg and returns follow-up tasks.
func (a *App) Update(msg Msg) []Task {
	switch m := msg.(type) {
	case FindLocation:
		a.clearStatus()
		return []Task{a.pickInstallDir()}

	case SetLocation:
		a.clearStatus()
		return []Task{a.locate(m.Path, true)}

	case LocationSet:
		if m.Err != nil {
			if !errors.Is(m.Err, domain.ErrDialogClosed) {
				a.Active = nil
			}
			a.fail("locate", m.Err)
			return nil
		}
		a.InstallPath = m.Path
		a.Active = m.Settings
		a.Readonly = m.Readonly
		return nil

	case SetReadonly:
		a.clearStatus()
		if a.Active == nil {
			a.fail("readonly", domain.ErrMissingPath)
			return nil
		}
		return []Task{a.applyReadonly(m.Readonly)}

	case ReadonlyApplied:
		if m.Err != nil {
			a.fail("readonly", m.Err)
			return nil
		}
		a.Readonly = m.Readonly
		return nil

	case Refresh:
		a.clearStatus()
		return []Task{a.loadProfiles()}

	case ProfilesLoaded:
		if m.Err != nil {
			a.fail("list", m.Err)
			return nil
		}
		a.Profiles = m.Profiles
		return nil

	case AddProfile:
		a.clearStatus()
		if a.Active == nil {
			a.fail("create", domain.ErrMissingPath)
			return nil
		}
		return []Task{a.createProfile()}

	case ProfileAdded:
		if m.Err != nil {
			a.fail("create", m.Err)
			return nil
		}
		a.Profiles = append(a.Profiles, m.Profile)
		a.Success = fmt.Sprintf("Created %q", m.Profile.Name)
		return nil

	case RemoveProfile:
		a.clearStatus()
		return []Task{a.deleteProfile(m.Name)}

	case ProfileRemoved:
		if m.Err != nil {
			a.fail("delete", m.Err)
			return nil
		}
		if i := profile.Index(a.Profiles, m.Name); i >= 0 {
			a.Profiles = append(a.Profiles[:i], a.Profiles[i+1:]...)
		}
		a.Success = fmt.Sprintf("Deleted %q", m.Name)
		return nil

	case UseProfile:
		a.clearStatus()
		if a.Active == nil {
			a.fail("use", domain.ErrMissingPath)
			return nil
		}
		if a.Profile(m.Name) == nil {
			a.fail("use", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, m.Name))
			return nil
		}
		return []Task{a.useProfile(m.Name)}

	case ProfileApplied:
		if m.Err != nil {
			a.fail("use", m.Err)
			return nil
		}
		a.Success = fmt.Sprintf("Using %q", m.Name)
		return nil

	case EditStart:
		a.clearStatus()
		if p := a.Profile(m.Name); p != nil {
			p.StartEdit()
		}
		return nil

	case EditChange:
		if p := a.Profile(m.Name); p != nil {
			p.SetEditName(m.Value)
		}
		return nil

	case EditReset:
		a.clearStatus()
		if p := a.Profile(m.Name); p != nil {
			p.ResetEdit()
		}
		return nil

	case EditConfirm:
		a.clearStatus()
		p := a.Profile(m.Name)
		if p == nil {
			a.fail("rename", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, m.Name))
			return nil
		}
		if !p.Editing {
			return nil
		}
		return []Task{a.renameProfile(p.Name, p.EditName)}

	case ProfileRenamed:
		if m.Err != nil {
			a.fail("rename", m.Err)
			return nil
		}
		if p := a.Profile(m.Old); p != nil {
			p.Name = m.New
			p.ResetEdit()
		}
		a.Success = fmt.Sprintf("Changed name to %s", m.New)
		return nil

	case Export:
		a.clearStatus()
		if a.Profile(m.Name) == nil {
			a.fail("export", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, m.Name))
			return nil
		}
		return []Task{a.pickExportDir(m.Name)}

	case ExportDirPicked:
		if m.Err != nil {
			a.fail("export", m.Err)
			return nil
		}
		return []Task{a.exportProfile(m.Name, m.Dir)}

	case Exported:
		if m.Err != nil {
			a.fail("export", m.Err)
			return nil
		}
		a.Success = fmt.Sprintf("Exported profile to %s", m.Path)
		return nil

	case Import:
		a.clearStatus()
		return []Task{a.pickArchive()}

	case ArchivePicked:
		if m.Err != nil {
			a.fail("import", m.Err)
			return nil
		}
		return []Task{a.importArchive(m.Path)}

	case Imported:
		if m.Err != nil {
			a.fail("import", m.Err)
			return nil
		}
		a.Profiles = append(a.Profiles, m.Profile)
		a.Success = fmt.Sprintf("Imported %q", m.Profile.Name)
		return nil

	case BindChampion:
		a.clearStatus()
		return a.bind(m.Name, m.Option)

	case BindingSaved:
		if errors.Is(m.Err, domain.ErrProfileNotFound) {
			a.logger.Debug("profile deleted before its metadata was saved", "profile", m.Name)
			return nil
		}
		if m.Err != nil {
			a.fail("bind", m.Err)
			return nil
		}
		if p := a.Profile(m.Name); p != nil {
			a.Success = fmt.Sprintf("%s swaps on %s", p.Name, p.BindingLabel())
		}
		return nil

	case Share:
		a.clearStatus()
		p := a.Profile(m.Name)
		if p == nil {
			a.fail("share", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, m.Name))
			return nil
		}
		return []Task{a.shareProfile(*p)}

	case Shared:
		if errors.Is(m.Err, domain.ErrProfileNotFound) {
			a.logger.Debug("profile deleted before its metadata was saved", "profile", m.Name)
			return nil
		}
		if m.Err != nil {
			a.fail("share", m.Err)
			return nil
		}
		if p := a.Profile(m.Name); p != nil {
			p.LastLink = m.Link
		}
		a.Success = fmt.Sprintf("Link: %s", m.Link)
		return nil

	case ImportLink:
		a.clearStatus()
		return []Task{a.importLink(m.Link)}

	case LinkFetched:
		if m.Err != nil {
			a.fail("fetch", m.Err)
			return nil
		}
		a.Profiles = append(a.Profiles, m.Profile)
		a.Success = fmt.Sprintf("Imported %q", m.Profile.Name)
		return nil

	case ResetResolution:
		a.clearStatus()
		if a.Active == nil {
			a.fail("reset-resolution", domain.ErrMissingPath)
			return nil
		}
		return []Task{a.resetResolution()}

	case ResolutionReset:
		if m.Err != nil {
			a.fail("reset-resolution", m.Err)
			return nil
		}
		a.Success = "Resolution reset"
		return nil

	case WatcherEvent:
		return a.onWatcherEvent(m.Event)

	case AutoSwapped:
		if m.Err != nil {
			a.fail("auto-swap", m.Err)
			return nil
		}
		a.Success = fmt.Sprintf("Swapped to %q for %s", m.Name, champion.Label(&m.Champion))
		return nil

	default:
		a.logger.Warn("unhandled message", "type", fmt.Sprintf("%T", msg))
		return nil
	}
}

func (a *App) bind(name, option string) []Task {
	p := a.Profile(name)
	if p == nil {
		a.fail("bind", fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name))
		return nil
	}
	binding, err := champion.ParseOption(option)
	if err != nil {
		a.fail("bind", err)
		return nil
	}
	if binding != nil {
		for _, other := range a.Profiles {
			if other != p && other.BoundTo(*binding) {
				a.fail("bind", domain.ErrChampionTaken)
				return nil
			}
		}
	}
	p.Champion = binding
	return []Task{a.saveMeta(*p)}
}

func (a *App) onWatcherEvent(ev watcher.Event) []Task {
	switch e := ev.(type) {
	case watcher.Connected:
		a.Conn.Connected = true
		a.Conn.RetryIn = nil
	case watcher.Disconnected:
		a.Conn.Connected = false
		a.Conn.RetryIn = nil
	case watcher.Retrying:
		seconds := e.Seconds
		a.Conn.RetryIn = &seconds
	case watcher.Selected:
		a.Conn.SelectedChampion = nil
		if e.ChampionID == champion.DefaultID {
			return nil
		}
		id := e.ChampionID
		a.Conn.SelectedChampion = &id
		p, ok := resolver.Resolve(a.Profiles, id)
		if !ok || a.Active == nil {
			return nil
		}
		return []Task{a.autoSwap(id, p.Name)}
	}
	return nil
}
