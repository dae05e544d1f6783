package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itsdinok/rekordscratch/internal/keymap"
)

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWidth(msg.Width)
		return m, nil

	case tickMsg:
		st := m.ctrl.State()
		st.ClearErrorOlderThan(m.errorTTL)
		m.snap = st.Snapshot()
		return m, m.tick()

	case actionDoneMsg:
		m.snap = m.ctrl.State().Snapshot()
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mainKeys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case keymap.ActionScan:
		return m, m.call(keymap.ActionScan, func() error {
			_, err := m.ctrl.Scan()
			return err
		})

	case keymap.ActionRun:
		return m, m.call(keymap.ActionRun, m.ctrl.StartRun)

	case keymap.ActionPlaylists:
		m.prompting = true
		m.prompt.SetValue(m.snap.Playlists)
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.promptKeys.Resolve(msg.String()) {
	case keymap.ActionCancel:
		m.closePrompt()
		return m, nil

	case keymap.ActionConfirm:
		path := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if path == "" {
			return m, nil
		}
		return m, m.call(keymap.ActionPlaylists, func() error {
			return m.ctrl.SetPlaylistsPath(path)
		})
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
}

// call runs a controller action off the update loop.
func (m Model) call(action keymap.Action, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn()}
	}
}
