package app

import (
	"context"
	"fmt"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
)

// Task constructors capture everything they need by value so they can run on
// another goroutine.

func (a *App) locate(path string, save bool) Task {
	svc := a.svc
	return Task{Name: "locate", Run: func(context.Context) Msg {
		gs, err := gamesettings.FromInstall(svc.Storage, path)
		if err != nil {
			return LocationSet{Path: path, Err: err}
		}
		readonly, err := gs.Readonly()
		if err != nil {
			return LocationSet{Path: path, Err: err}
		}
		if save {
			if err := svc.Config.SetPath(path); err != nil {
				return LocationSet{Path: path, Err: err}
			}
		}
		return LocationSet{Path: path, Settings: gs, Readonly: readonly}
	}}
}

func (a *App) pickInstallDir() Task {
	pick := a.locate
	dialogs := a.svc.Dialogs
	return Task{Name: "pick-install-dir", Run: func(ctx context.Context) Msg {
		if dialogs == nil {
			return LocationSet{Err: domain.ErrDialogClosed}
		}
		path, err := dialogs.PickInstallDir()
		if err != nil {
			return LocationSet{Err: err}
		}
		return pick(path, true).Run(ctx)
	}}
}

func (a *App) applyReadonly(readonly bool) Task {
	active := a.Active
	return Task{Name: "set-readonly", Run: func(context.Context) Msg {
		return ReadonlyApplied{Readonly: readonly, Err: active.SetReadonly(readonly)}
	}}
}

func (a *App) loadProfiles() Task {
	store := a.svc.Store
	return Task{Name: "list-profiles", Run: func(context.Context) Msg {
		profiles, err := store.List()
		return ProfilesLoaded{Profiles: profiles, Err: err}
	}}
}

func (a *App) createProfile() Task {
	store, active := a.svc.Store, a.Active
	return Task{Name: "create-profile", Run: func(context.Context) Msg {
		p, err := store.Create(active)
		return ProfileAdded{Profile: p, Err: err}
	}}
}

func (a *App) deleteProfile(name string) Task {
	store := a.svc.Store
	return Task{Name: "delete-profile", Run: func(context.Context) Msg {
		return ProfileRemoved{Name: name, Err: store.Delete(name)}
	}}
}

func (a *App) useProfile(name string) Task {
	swapper, active, readonly := a.svc.Swapper, a.Active, a.Readonly
	return Task{Name: "use-profile", Run: func(context.Context) Msg {
		return ProfileApplied{Name: name, Err: swapper.Use(name, active, readonly)}
	}}
}

func (a *App) autoSwap(id uint32, name string) Task {
	swapper, active, readonly := a.svc.Swapper, a.Active, a.Readonly
	return Task{Name: "auto-swap", Run: func(context.Context) Msg {
		return AutoSwapped{Champion: id, Name: name, Err: swapper.Use(name, active, readonly)}
	}}
}

func (a *App) renameProfile(oldName, newName string) Task {
	store := a.svc.Store
	return Task{Name: "rename-profile", Run: func(context.Context) Msg {
		renamed, err := store.Rename(oldName, newName)
		return ProfileRenamed{Old: oldName, New: renamed, Err: err}
	}}
}

func (a *App) pickExportDir(name string) Task {
	dialogs := a.svc.Dialogs
	return Task{Name: "pick-export-dir", Run: func(context.Context) Msg {
		if dialogs == nil {
			return ExportDirPicked{Name: name, Err: domain.ErrDialogClosed}
		}
		dir, err := dialogs.PickExportDir(name)
		return ExportDirPicked{Name: name, Dir: dir, Err: err}
	}}
}

func (a *App) exportProfile(name, dir string) Task {
	store := a.svc.Store
	return Task{Name: "export-profile", Run: func(context.Context) Msg {
		path, err := store.ExportArchive(name, dir)
		return Exported{Name: name, Path: path, Err: err}
	}}
}

func (a *App) pickArchive() Task {
	dialogs := a.svc.Dialogs
	return Task{Name: "pick-archive", Run: func(context.Context) Msg {
		if dialogs == nil {
			return ArchivePicked{Err: domain.ErrDialogClosed}
		}
		path, err := dialogs.PickArchive()
		return ArchivePicked{Path: path, Err: err}
	}}
}

func (a *App) importArchive(path string) Task {
	store := a.svc.Store
	return Task{Name: "import-archive", Run: func(context.Context) Msg {
		p, err := store.ImportArchive(path)
		return Imported{Profile: p, Err: err}
	}}
}

func (a *App) saveMeta(snapshot profile.Profile) Task {
	store := a.svc.Store
	return Task{Name: "save-binding", Run: func(context.Context) Msg {
		return BindingSaved{Name: snapshot.Name, Err: store.SaveMeta(&snapshot)}
	}}
}

func (a *App) shareProfile(snapshot profile.Profile) Task {
	store, paste := a.svc.Store, a.svc.Paste
	return Task{Name: "share-profile", Run: func(ctx context.Context) Msg {
		blob, err := store.Share(snapshot.Name)
		if err != nil {
			return Shared{Name: snapshot.Name, Err: err}
		}
		link, err := paste.Create(ctx, blob)
		if err != nil {
			return Shared{Name: snapshot.Name, Err: err}
		}
		snapshot.LastLink = link
		if err := store.SaveMeta(&snapshot); err != nil {
			return Shared{Name: snapshot.Name, Err: err}
		}
		return Shared{Name: snapshot.Name, Link: link}
	}}
}

func (a *App) importLink(link string) Task {
	store, paste := a.svc.Store, a.svc.Paste
	return Task{Name: "import-link", Run: func(ctx context.Context) Msg {
		content, err := paste.Fetch(ctx, link)
		if err != nil {
			return LinkFetched{Err: fmt.Errorf("%w: %v", domain.ErrImport, err)}
		}
		p, err := store.ImportBlob(content)
		return LinkFetched{Profile: p, Err: err}
	}}
}

func (a *App) resetResolution() Task {
	active := a.Active
	return Task{Name: "reset-resolution", Run: func(context.Context) Msg {
		return ResolutionReset{Err: active.ResetResolution()}
	}}
}
