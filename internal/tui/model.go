// Package tui renders the application state machine as a bubbletea program.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/OpenGG/league-config-manager/internal/lcm/app"
	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/profile"
	"github.com/OpenGG/league-config-manager/internal/lcm/watcher"
)

// appMsg carries a task result back into Update.
type appMsg struct{ msg app.Msg }

// eventMsg carries one watcher event; ok is false once the stream closed.
type eventMsg struct {
	ev watcher.Event
	ok bool
}

// inputMode is the text field currently receiving keystrokes.
type inputMode int

const (
	inputNone inputMode = iota
	inputRename
	inputText
)

// textPrompt is a one-line input that turns its value into a message.
type textPrompt struct {
	label  string
	value  string
	submit func(value string) app.Msg
}

// Model adapts app.App to tea.Model. bubbletea calls Update on one
// goroutine, so the App keeps a single writer.
type Model struct {
	ctx    context.Context
	app    *app.App
	events <-chan watcher.Event

	cursor   int
	input    inputMode
	prompt   textPrompt
	width    int
	quitting bool
}

// New creates the model. events may be nil to run without a watcher.
func New(ctx context.Context, a *app.App, events <-chan watcher.Event) Model {
	return Model{ctx: ctx, app: a, events: events}
}

// Init satisfies tea.Model. Loads the install path and the profiles and
// starts listening to the watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.app.Init()), m.waitEvent())
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case appMsg:
		cmd := m.dispatch(msg.msg)
		m.clampCursor()
		return m, cmd
	case eventMsg:
		if !msg.ok {
			return m, nil
		}
		return m, tea.Batch(m.dispatch(app.WatcherEvent{Event: msg.ev}), m.waitEvent())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) dispatch(msg app.Msg) tea.Cmd {
	return m.run(m.app.Update(msg))
}

func (m Model) run(tasks []app.Task) tea.Cmd {
	if len(tasks) == 0 {
		return nil
	}
	ctx := m.ctx
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		t := t
		cmds = append(cmds, func() tea.Msg { return appMsg{msg: t.Run(ctx)} })
	}
	return tea.Batch(cmds...)
}

func (m Model) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{ev: ev, ok: ok}
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.app.Profiles) {
		m.cursor = len(m.app.Profiles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() *profile.Profile {
	if m.cursor < 0 || m.cursor >= len(m.app.Profiles) {
		return nil
	}
	return m.app.Profiles[m.cursor]
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	switch m.input {
	case inputRename:
		return m.handleRenameKey(msg)
	case inputText:
		return m.handleTextKey(msg)
	}

	p := m.selected()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.app.Profiles)-1 {
			m.cursor++
		}
		return m, nil
	case "n":
		return m, m.dispatch(app.AddProfile{})
	case "r":
		return m, m.dispatch(app.SetReadonly{Readonly: !m.app.Readonly})
	case "R":
		return m, m.dispatch(app.ResetResolution{})
	case "f":
		return m, m.dispatch(app.Refresh{})
	case "o":
		return m.ask("Install directory", m.app.InstallPath, func(v string) app.Msg {
			return app.SetLocation{Path: v}
		}), nil
	case "I":
		return m.ask("Archive", "", func(v string) app.Msg {
			return app.ArchivePicked{Path: v}
		}), nil
	case "l":
		return m.ask("Link", "", func(v string) app.Msg {
			return app.ImportLink{Link: v}
		}), nil
	}
	if p == nil {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		return m, m.dispatch(app.UseProfile{Name: p.Name})
	case "x":
		return m, m.dispatch(app.RemoveProfile{Name: p.Name})
	case "e":
		m.input = inputRename
		return m, m.dispatch(app.EditStart{Name: p.Name})
	case "s":
		return m, m.dispatch(app.Share{Name: p.Name})
	case "E":
		name := p.Name
		return m.ask("Export directory", ".", func(v string) app.Msg {
			return app.ExportDirPicked{Name: name, Dir: v}
		}), nil
	case "]":
		return m, m.dispatch(app.BindChampion{Name: p.Name, Option: cycleOption(p, 1)})
	case "[":
		return m, m.dispatch(app.BindChampion{Name: p.Name, Option: cycleOption(p, -1)})
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.selected()
	if p == nil {
		m.input = inputNone
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		m.input = inputNone
		return m, m.dispatch(app.EditConfirm{Name: p.Name})
	case tea.KeyEsc:
		m.input = inputNone
		return m, m.dispatch(app.EditReset{Name: p.Name})
	case tea.KeyBackspace:
		value := []rune(p.EditName)
		if len(value) > 0 {
			value = value[:len(value)-1]
		}
		return m, m.dispatch(app.EditChange{Name: p.Name, Value: string(value)})
	case tea.KeyRunes, tea.KeySpace:
		return m, m.dispatch(app.EditChange{Name: p.Name, Value: p.EditName + string(msg.Runes)})
	}
	return m, nil
}

func (m Model) ask(label, value string, submit func(string) app.Msg) Model {
	m.input = inputText
	m.prompt = textPrompt{label: label, value: value, submit: submit}
	return m
}

func (m Model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input = inputNone
		value := strings.TrimSpace(m.prompt.value)
		if value == "" {
			return m, nil
		}
		return m, m.dispatch(m.prompt.submit(value))
	case tea.KeyEsc:
		m.input = inputNone
	case tea.KeyBackspace:
		if r := []rune(m.prompt.value); len(r) > 0 {
			m.prompt.value = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.prompt.value += string(msg.Runes)
	}
	return m, nil
}

// cycleOption returns the champion option step places away from the current
// binding of p.
func cycleOption(p *profile.Profile, step int) string {
	options := champion.Options()
	current := p.BindingLabel()
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(options)) % len(options)
	return options[idx]
}

// Ensure Model satisfies tea.Model at compile time.
var _ tea.Model = Model{}
