// Package ui provides the interactive terminal front end.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todos/internal/controller"
	"todos/internal/service"
)

// Run starts the terminal UI on ctl and blocks until the user quits or ctx
// is cancelled. The controller is closed on return.
func Run(ctx context.Context, ctl *controller.Controller) error {
	defer ctl.Close()

	program := tea.NewProgram(newModel(ctx, ctl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// doneMsg reports the completion of a controller operation.
type doneMsg struct {
	op  controller.Op
	err error
}

type model struct {
	ctx    context.Context
	ctl    *controller.Controller
	input  textinput.Model
	adding bool
	cursor int
}

func newModel(ctx context.Context, ctl *controller.Controller) *model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = service.MaxTextLength
	ti.Prompt = "> "

	return &model{
		ctx:   ctx,
		ctl:   ctl,
		input: ti,
	}
}

func (m *model) Init() tea.Cmd {
	return m.run(controller.OpLoad, m.ctl.Load)
}

// run executes fn off the update loop and reports back with a doneMsg.
func (m *model) run(op controller.Op, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: op, err: fn(ctx)}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		if msg.op == controller.OpAdd && msg.err == nil {
			m.input.Reset()
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()
	case "esc":
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, m.run(controller.OpAdd, func(ctx context.Context) error {
			return m.ctl.Add(ctx, text)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ctl.Filtered())-1 {
			m.cursor++
		}
	case " ", "enter":
		if todo, ok := m.selected(); ok {
			return m, m.run(controller.OpToggle, func(ctx context.Context) error {
				return m.ctl.Toggle(ctx, todo.ID)
			})
		}
	case "d", "x":
		if todo, ok := m.selected(); ok {
			return m, m.run(controller.OpDelete, func(ctx context.Context) error {
				return m.ctl.Delete(ctx, todo.ID)
			})
		}
	case "a":
		m.adding = true
		return m, m.input.Focus()
	case "1":
		m.setFilter(service.FilterAll)
	case "2":
		m.setFilter(service.FilterActive)
	case "3":
		m.setFilter(service.FilterCompleted)
	case "c":
		if m.ctl.HasCompleted() {
			return m, m.run(controller.OpClear, m.ctl.ClearCompleted)
		}
	case "r":
		return m, m.run(controller.OpLoad, m.ctl.Load)
	}
	return m, nil
}

func (m *model) quit() tea.Cmd {
	m.ctl.Close()
	return tea.Quit
}

func (m *model) setFilter(f service.Filter) {
	m.ctl.SetFilter(f)
	m.cursor = 0
}

func (m *model) selected() (service.Todo, bool) {
	filtered := m.ctl.Filtered()
	if m.cursor < 0 || m.cursor >= len(filtered) {
		return service.Todo{}, false
	}
	return filtered[m.cursor], true
}

func (m *model) clampCursor() {
	n := len(m.ctl.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
