package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OpenGG/league-config-manager/internal/lcm/app"
	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
	"github.com/OpenGG/league-config-manager/internal/tui"
)

func newRunCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive manager and swap profiles during champion select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(commandContext(cmd))
			defer cancel()

			// The TUI asks for paths itself, so the App runs without dialogs.
			svc := rt.Services
			svc.Dialogs = nil
			if svc.Logger == nil {
				svc.Logger = rt.Logger
			}
			model := tui.New(ctx, app.New(svc), rt.events(ctx))
			program := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

func newWatchCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Swap profiles during champion select without the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.Events == nil {
				return errors.New("champion select watcher is not available")
			}
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			if a.Active == nil {
				fmt.Fprintf(stdout, "Warning: %v; swaps are skipped until 'lcm path' is set\n", requireInstall(a))
			} else {
				fmt.Fprintf(stdout, "Watching %s with %d profile(s)\n", a.InstallPath, len(a.Profiles))
			}
			printer := &statusPrinter{out: stdout}
			loop := app.NewLoop(a, printer.observe)

			g, ctx := errgroup.WithContext(commandContext(cmd))
			g.Go(func() error {
				return loop.Run(ctx)
			})
			g.Go(func() error {
				loop.Attach(ctx, rt.Events(ctx))
				return nil
			})
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// statusPrinter writes a line for every state change worth reporting while
// watching. It runs on the loop goroutine.
type statusPrinter struct {
	out io.Writer
}

func (p *statusPrinter) observe(msg app.Msg, a *app.App) {
	line := ""
	switch m := msg.(type) {
	case app.WatcherEvent:
		switch m.Event.(type) {
		case watcher.Connected:
			line = "Connected to the League client"
		case watcher.Disconnected:
			line = "Disconnected from the League client"
		case watcher.Selected:
			if a.Conn.SelectedChampion != nil {
				line = "Selected " + champion.Label(a.Conn.SelectedChampion)
			}
		}
	case app.AutoSwapped:
		if m.Err != nil {
			line = "Error: " + m.Err.Error()
		} else {
			line = a.Success
		}
	}
	if line == "" {
		return
	}
	fmt.Fprintln(p.out, line)
}
