package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/OpenGG/league-config-manager/internal/lcm/app"
	"github.com/OpenGG/league-config-manager/internal/lcm/backup"
	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

// Runtime holds the services every command runs against.
type Runtime struct {
	// Services is copied for every command; Dialogs is filled per command.
	Services app.Services
	Backups  *backup.Service
	// Events starts the champion select watcher. It may be nil.
	Events func(ctx context.Context) <-chan watcher.Event
	// NonInteractive disables prompts; dialogs report domain.ErrDialogClosed.
	NonInteractive bool
	Logger         *slog.Logger
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return rt.Logger
}

// open builds an App and loads the saved install path and the profiles. A
// missing or stale install path is left for the command to report.
func (rt *Runtime) open(ctx context.Context, dialogs app.Dialogs) (*app.App, error) {
	svc := rt.Services
	svc.Dialogs = dialogs
	if svc.Logger == nil {
		svc.Logger = rt.Logger
	}
	a := app.New(svc)
	err := a.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMissingPath), errors.Is(err, domain.ErrWrongPath):
		rt.logger().Debug("install path unavailable", "error", err)
	default:
		return nil, err
	}
	return a, nil
}

func (rt *Runtime) events(ctx context.Context) <-chan watcher.Event {
	if rt.Events == nil {
		return nil
	}
	return rt.Events(ctx)
}
