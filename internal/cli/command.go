package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenGG/league-config-manager/internal/lcm/app"
	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
	"github.com/OpenGG/league-config-manager/internal/lcm/validator"
)

// NewRootCommand constructs the root Cobra command for lcm. Without a
// subcommand it opens the interactive manager.
func NewRootCommand(rt *Runtime, prompter Prompter, stdout, stderr io.Writer) *cobra.Command {
	run := newRunCommand(rt)
	cmd := &cobra.Command{
		Use:          "lcm",
		Short:        "League Config Manager",
		Long:         "lcm keeps named copies of the League of Legends game settings and swaps them in when a champion is picked.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         run.RunE,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(run)
	cmd.AddCommand(newWatchCommand(rt, stdout))
	cmd.AddCommand(newPathCommand(rt, prompter, stdout))
	cmd.AddCommand(newListCommand(rt, stdout))
	cmd.AddCommand(newCreateCommand(rt, stdout))
	cmd.AddCommand(newUseCommand(rt, prompter, stdout))
	cmd.AddCommand(newRenameCommand(rt, prompter, stdout))
	cmd.AddCommand(newDeleteCommand(rt, prompter, stdout))
	cmd.AddCommand(newBindCommand(rt, prompter, stdout))
	cmd.AddCommand(newExportCommand(rt, prompter, stdout))
	cmd.AddCommand(newImportCommand(rt, prompter, stdout))
	cmd.AddCommand(newShareCommand(rt, prompter, stdout))
	cmd.AddCommand(newFetchCommand(rt, stdout))
	cmd.AddCommand(newReadonlyCommand(rt, stdout))
	cmd.AddCommand(newResetResolutionCommand(rt, stdout))
	cmd.AddCommand(newPruneCommand(rt, prompter, stdout))

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (rt *Runtime) dialogs(prompter Prompter) *promptDialogs {
	return &promptDialogs{prompter: prompter, disabled: rt.NonInteractive}
}

// settle feeds msgs to a and prints the resulting success message.
func settle(cmd *cobra.Command, a *app.App, stdout io.Writer, msgs ...app.Msg) error {
	if err := a.Settle(commandContext(cmd), msgs...); err != nil {
		return err
	}
	if a.Success != "" {
		fmt.Fprintln(stdout, a.Success)
	}
	return nil
}

// requireInstall reports why the active game settings are unavailable.
func requireInstall(a *app.App) error {
	if a.Active != nil {
		return nil
	}
	if a.Err != nil {
		return a.Err
	}
	return domain.ErrMissingPath
}

func profileNames(profiles []*profile.Profile) []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}

// defaultProfile returns the name of the fallback profile, if any.
func defaultProfile(profiles []*profile.Profile) string {
	for _, p := range profiles {
		if p.IsDefault() {
			return p.Name
		}
	}
	return ""
}

// pickProfile returns the profile named in args or asks for one.
func (rt *Runtime) pickProfile(a *app.App, prompter Prompter, args []string, label string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if rt.NonInteractive {
		return "", errors.New("profile name required")
	}
	names := profileNames(a.Profiles)
	if len(names) == 0 {
		return "", fmt.Errorf("no profiles in %s. Use 'lcm create' first", rt.Services.Store.Root())
	}
	def := defaultProfile(a.Profiles)
	names = reorderWithDefault(names, def)
	_, selected, err := prompter.Select(label, names, def)
	if err != nil {
		return "", err
	}
	return selected, nil
}

func newPathCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	var find bool
	cmd := &cobra.Command{
		Use:   "path [dir]",
		Short: "Show or set the League of Legends install directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), rt.dialogs(prompter))
			if err != nil {
				return err
			}
			switch {
			case len(args) == 1:
				if err := settle(cmd, a, stdout, app.SetLocation{Path: args[0]}); err != nil {
					return err
				}
			case find:
				if err := settle(cmd, a, stdout, app.FindLocation{}); err != nil {
					return err
				}
			default:
				if a.InstallPath == "" {
					if err := requireInstall(a); err != nil {
						return fmt.Errorf("%w. Use 'lcm path <dir>'", err)
					}
				}
				fmt.Fprintln(stdout, a.InstallPath)
				return nil
			}
			fmt.Fprintf(stdout, "Install directory set to %s\n", a.InstallPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&find, "find", false, "Prompt for the install directory")
	return cmd
}

func newListCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles and their champion bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			if len(a.Profiles) == 0 {
				fmt.Fprintln(stdout, "No profiles found. Use 'lcm create' to add one.")
				return nil
			}
			width := 0
			for _, p := range a.Profiles {
				if n := len([]rune(p.Name)); n > width {
					width = n
				}
			}
			for _, p := range a.Profiles {
				line := fmt.Sprintf("%-*s  %s", width, p.Name, p.BindingLabel())
				if p.LastLink != "" {
					line += "  " + p.LastLink
				}
				fmt.Fprintln(stdout, strings.TrimRight(line, " "))
			}
			return nil
		},
	}
}

func newCreateCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Save the active game settings as a new profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			if err := settle(cmd, a, stdout, app.AddProfile{}); err != nil {
				return err
			}
			if len(args) == 0 {
				return nil
			}
			created := a.Profiles[len(a.Profiles)-1].Name
			return settle(cmd, a, stdout,
				app.EditStart{Name: created},
				app.EditChange{Name: created, Value: args[0]},
				app.EditConfirm{Name: created},
			)
		},
	}
}

func newUseCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Copy a profile over the active game settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to use")
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.UseProfile{Name: name})
		},
	}
}

func newRenameCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name] [new-name]",
		Short: "Rename a profile",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to rename")
			if err != nil {
				return err
			}

			target := ""
			if len(args) == 2 {
				target = args[1]
			} else {
				if rt.NonInteractive {
					return errors.New("new name required")
				}
				v := validator.New()
				for {
					value, err := prompter.Prompt("Enter a new name", name)
					if err != nil {
						return err
					}
					value = strings.TrimSpace(value)
					if valid, vErr := v.ValidateName(value); !valid {
						fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", vErr.Error())
						continue
					}
					if value != name && a.Profile(value) != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Error: Profile '%s' already exists.\n", value)
						continue
					}
					target = value
					break
				}
			}

			return settle(cmd, a, stdout,
				app.EditStart{Name: name},
				app.EditChange{Name: name, Value: target},
				app.EditConfirm{Name: name},
			)
		},
	}
}

func newDeleteCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to delete")
			if err != nil {
				return err
			}
			if !force {
				if rt.NonInteractive {
					return errors.New("refusing to delete without --force")
				}
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete %s? (y/N)", name), false)
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(stdout, "Delete cancelled.")
					return nil
				}
			}
			return settle(cmd, a, stdout, app.RemoveProfile{Name: name})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Do not prompt for confirmation")
	return cmd
}

func newBindCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "bind [name] [champion]",
		Short: "Swap to a profile when a champion is picked",
		Long: "bind sets the champion a profile is swapped in for. Use \"Default\" for the\n" +
			"profile used when no other profile matches and \"Disabled\" to stop swapping.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to bind")
			if err != nil {
				return err
			}
			option := ""
			if len(args) == 2 {
				option = args[1]
			} else {
				if rt.NonInteractive {
					return errors.New("champion required")
				}
				current := champion.Disabled
				if p := a.Profile(name); p != nil {
					current = p.BindingLabel()
				}
				_, option, err = prompter.Select(fmt.Sprintf("Swap to %s when picking", name), champion.Options(), current)
				if err != nil {
					return err
				}
			}
			return settle(cmd, a, stdout, app.BindChampion{Name: name, Option: option})
		},
	}
}

func newExportCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Write a profile to a zip archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialogs := rt.dialogs(prompter)
			dialogs.exportDir = dir
			a, err := rt.open(commandContext(cmd), dialogs)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to export")
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.Export{Name: name})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write <name>.zip to")
	return cmd
}

func newImportCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "import [archive]",
		Short: "Add a profile from a zip archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialogs := rt.dialogs(prompter)
			if len(args) == 1 {
				dialogs.archive = args[0]
			}
			a, err := rt.open(commandContext(cmd), dialogs)
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.Import{})
		},
	}
}

func newShareCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "share [name]",
		Short: "Upload a profile and print its link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			name, err := rt.pickProfile(a, prompter, args, "Select profile to share")
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.Share{Name: name})
		},
	}
}

func newFetchCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <link>",
		Short: "Add a profile from a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.ImportLink{Link: strings.TrimSpace(args[0])})
		},
	}
}

func newReadonlyCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "readonly [on|off]",
		Short: "Show or set the read-only flag of the active game settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			if err := requireInstall(a); err != nil {
				return err
			}
			if len(args) == 1 {
				readonly, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				if err := settle(cmd, a, stdout, app.SetReadonly{Readonly: readonly}); err != nil {
					return err
				}
			}
			state := "off"
			if a.Readonly {
				state = "on"
			}
			fmt.Fprintf(stdout, "Read-only: %s\n", state)
			return nil
		},
	}
}

func newResetResolutionCommand(rt *Runtime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-resolution",
		Short: "Reset the window size in the active game.cfg",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.open(commandContext(cmd), nil)
			if err != nil {
				return err
			}
			return settle(cmd, a, stdout, app.ResetResolution{})
		},
	}
}

func newPruneCommand(rt *Runtime, prompter Prompter, stdout io.Writer) *cobra.Command {
	var olderThanStr string
	var force bool

	cmd := &cobra.Command{
		Use:   "prune-backups",
		Short: "Remove outdated backup files",
		RunE: func(cmd *cobra.Command, args []string) error {
			var duration time.Duration
			var err error

			if olderThanStr != "" {
				duration, err = parseHumanDuration(olderThanStr)
				if err != nil {
					return err
				}
			} else {
				if rt.NonInteractive {
					return errors.New("--older-than required")
				}
				options := []string{"30d", "90d", "180d", "Cancel"}
				_, choice, err := prompter.Select("Prune backups older than", options, "30d")
				if err != nil {
					return err
				}
				if choice == "Cancel" {
					fmt.Fprintln(stdout, "Prune cancelled.")
					return nil
				}
				duration, err = parseHumanDuration(choice)
				if err != nil {
					return err
				}
			}

			if !force {
				if rt.NonInteractive {
					return errors.New("refusing to prune without --force")
				}
				confirm, err := prompter.Confirm(fmt.Sprintf("Delete backups older than %s? (y/N)", duration), false)
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(stdout, "Prune cancelled.")
					return nil
				}
			}

			count, err := rt.Backups.PruneBackups(duration)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted %d backup(s).\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThanStr, "older-than", "", "Delete backups older than the specified duration (e.g. 30d)")
	cmd.Flags().BoolVar(&force, "force", false, "Do not prompt for confirmation")

	return cmd
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
	return b, nil
}

func parseHumanDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return 0, errors.New("duration cannot be empty")
	}
	if strings.HasSuffix(value, "d") {
		days := strings.TrimSuffix(value, "d")
		v, err := parseDays(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration: %w", err)
		}
		return v, nil
	}
	if strings.HasSuffix(value, "h") || strings.HasSuffix(value, "m") || strings.HasSuffix(value, "s") {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return 0, err
		}
		if dur < 0 {
			return 0, fmt.Errorf("duration cannot be negative")
		}
		return dur, nil
	}
	return 0, fmt.Errorf("unsupported duration format: %s", value)
}

func parseDays(value string) (time.Duration, error) {
	d, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid day duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid day duration: %d", d)
	}
	return time.Duration(d) * 24 * time.Hour, nil
}

// reorderWithDefault moves the default value to the front of the list.
// If defaultValue is empty or not found, or already first, returns items unchanged.
func reorderWithDefault(items []string, defaultValue string) []string {
	if defaultValue == "" {
		return items
	}

	idx := -1
	for i, item := range items {
		if item == defaultValue {
			idx = i
			break
		}
	}

	if idx <= 0 {
		return items
	}

	reordered := make([]string, 0, len(items))
	reordered = append(reordered, defaultValue)
	reordered = append(reordered, items[:idx]...)
	reordered = append(reordered, items[idx+1:]...)

	return reordered
}
