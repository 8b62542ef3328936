package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
)

var (
	accent = lipgloss.Color("#7D56F4")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	faintStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	rowStyle   = lipgloss.NewStyle().PaddingLeft(2)
	cursorRow  = lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(accent).
			PaddingLeft(1).
			Bold(true)
)

const help = "↑/↓ select • enter use • n new • x delete • e rename • [/] bind • s share • l link • E export • I import • r readonly • R reset resolution • o locate • f refresh • q quit"

// View satisfies tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("League Config Manager"))
	b.WriteString("\n")
	b.WriteString(m.connectionLine())
	b.WriteString("\n")
	b.WriteString(m.installLine())
	b.WriteString("\n\n")
	b.WriteString(m.profileTable())
	b.WriteString("\n")
	if line := m.statusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.input == inputText {
		b.WriteString(fmt.Sprintf("%s: %s█\n", m.prompt.label, m.prompt.value))
	}
	b.WriteString(faintStyle.Render(help))
	return b.String()
}

func (m Model) connectionLine() string {
	c := m.app.Conn
	var state string
	switch {
	case c.Connected:
		state = okStyle.Render("● connected")
	case c.RetryIn != nil:
		state = errStyle.Render(fmt.Sprintf("○ disconnected, retrying in %ds", *c.RetryIn))
	default:
		state = errStyle.Render("○ disconnected")
	}
	selected := "none"
	if c.SelectedChampion != nil {
		selected = champion.Label(c.SelectedChampion)
	}
	return fmt.Sprintf("%s  champion: %s", state, selected)
}

func (m Model) installLine() string {
	if m.app.Active == nil {
		return faintStyle.Render("install: not set (press o)")
	}
	mode := "writable"
	if m.app.Readonly {
		mode = "readonly"
	}
	return fmt.Sprintf("install: %s [%s]", m.app.InstallPath, mode)
}

func (m Model) profileTable() string {
	if len(m.app.Profiles) == 0 {
		return faintStyle.Render("  no profiles (press n)") + "\n"
	}
	width := 0
	for _, p := range m.app.Profiles {
		if n := len([]rune(p.Name)); n > width {
			width = n
		}
	}
	var rows []string
	for i, p := range m.app.Profiles {
		name := p.Name
		if p.Editing {
			name = p.EditName + "█"
		}
		line := fmt.Sprintf("%-*s  %s", width+1, name, p.BindingLabel())
		if i == m.cursor {
			rows = append(rows, cursorRow.Render(line))
		} else {
			rows = append(rows, rowStyle.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (m Model) statusLine() string {
	if m.app.Err != nil {
		return errStyle.Render(m.app.Err.Error())
	}
	if m.app.Success != "" {
		return okStyle.Render(m.app.Success)
	}
	return ""
}
