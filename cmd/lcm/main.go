package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/OpenGG/league-config-manager/internal/cli"
	"github.com/OpenGG/league-config-manager/internal/lcm/app"
	"github.com/OpenGG/league-config-manager/internal/lcm/backup"
	"github.com/OpenGG/league-config-manager/internal/lcm/config"
	"github.com/OpenGG/league-config-manager/internal/lcm/paste"
	"github.com/OpenGG/league-config-manager/internal/lcm/paths"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
	"github.com/OpenGG/league-config-manager/internal/lcm/resolver"
	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	dataDir, err := config.DataDir(env)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	st := storage.New(fs)
	pb := paths.New(dataDir)
	if err := st.MkdirAll(pb.DataDir()); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, closeLog, err := newLogger(fs, pb, env, interactive(args), stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load(st, pb.ConfigFile(), logger)
	if err != nil {
		return err
	}
	backups := backup.New(st, pb.BackupDir(), logger)
	store := profile.NewStore(st, pb, backups, logger)

	rt := &cli.Runtime{
		Services: app.Services{
			Storage: st,
			Config:  cfg,
			Store:   store,
			Swapper: resolver.NewSwapper(store, logger),
			Paste:   paste.New(env.PasteURL, logger),
			Logger:  logger,
		},
		Backups:        backups,
		NonInteractive: env.NonInteractive,
		Logger:         logger,
		Events: func(ctx context.Context) <-chan watcher.Event {
			locator := watcher.FirstOf(
				watcher.NewLockfileLocator(fs, func() string {
					if dir := cfg.Path(); dir != "" {
						return paths.Lockfile(dir)
					}
					return ""
				}),
				watcher.NewProcessLocator(),
			)
			w := watcher.New(watcher.NewLCUDialer(locator, logger),
				watcher.WithRetryWindow(env.RetryWindow),
				watcher.WithLogger(logger),
			)
			return w.Run(ctx)
		},
	}

	root := cli.NewRootCommand(rt, cli.NewPromptUIWithIO(stdin, stdout), stdout, stderr)
	root.SetIn(stdin)
	root.SetArgs(args)
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}

// interactive reports whether args open the full-screen UI.
func interactive(args []string) bool {
	return len(args) == 0 || args[0] == "run"
}

// newLogger logs to stderr, or to the log file while the full-screen UI owns
// the terminal.
func newLogger(fs afero.Fs, pb *paths.PathBuilder, env config.Env, toFile bool, stderr io.Writer) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: env.Level()}
	if !toFile {
		return slog.New(slog.NewTextHandler(stderr, opts)), func() {}, nil
	}
	f, err := fs.OpenFile(pb.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
}
