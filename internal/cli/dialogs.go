package cli

import (
	"errors"
	"strings"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
)

// promptDialogs answers app.Dialogs from flags first and the prompter second.
type promptDialogs struct {
	prompter Prompter
	disabled bool

	installDir string
	exportDir  string
	archive    string
}

func (d *promptDialogs) PickInstallDir() (string, error) {
	return d.ask(d.installDir, "League of Legends install directory", "")
}

func (d *promptDialogs) PickExportDir(profile string) (string, error) {
	return d.ask(d.exportDir, "Export "+profile+" to directory", ".")
}

func (d *promptDialogs) PickArchive() (string, error) {
	return d.ask(d.archive, "Profile archive (.zip)", "")
}

func (d *promptDialogs) ask(preset, label, defaultValue string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	if d.disabled || d.prompter == nil {
		return "", domain.ErrDialogClosed
	}
	value, err := d.prompter.Prompt(label, defaultValue)
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			return "", domain.ErrDialogClosed
		}
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.ErrDialogClosed
	}
	return value, nil
}
