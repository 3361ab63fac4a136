package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/restchat/internal/keybinds"
	"github.com/studiowebux/restchat/internal/session"
)

// keyContext returns the keybind context for the focused widget
func (m *Model) keyContext() keybinds.Context {
	if m.session.Tab() == session.TabChat {
		return keybinds.ContextChat
	}
	switch m.focus {
	case FocusFilter:
		return keybinds.ContextFilter
	case FocusEditor:
		return keybinds.ContextEditor
	}
	return keybinds.ContextAPI
}

// handleKeyPress resolves the key through the keybind registry. Unbound keys
// go to the focused text widget.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	context := m.keyContext()

	if action, ok := m.keybinds.Match(context, msg.String()); ok {
		if cmd, handled := m.handleAction(context, action); handled {
			return cmd
		}
	}

	return m.forwardKey(context, msg)
}

func (m *Model) handleAction(context keybinds.Context, action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		m.shutdown()
		return tea.Quit, true
	case keybinds.ActionSwitchTab:
		m.switchTab()
		return nil, true
	}

	switch context {
	case keybinds.ContextChat:
		return m.handleChatAction(action)
	case keybinds.ContextAPI:
		return m.handleAPIAction(action)
	case keybinds.ContextFilter:
		return m.handleFilterAction(action)
	case keybinds.ContextEditor:
		return m.handleEditorAction(action)
	}
	return nil, false
}

func (m *Model) handleChatAction(action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionSendMessage:
		return m.sendChat(), true
	case keybinds.ActionClearChat:
		m.clearChat()
		return nil, true
	case keybinds.ActionScrollUp:
		m.chatView.ScrollUp(max(1, m.chatView.Height/2))
		return nil, true
	case keybinds.ActionScrollDown:
		m.chatView.ScrollDown(max(1, m.chatView.Height/2))
		return nil, true
	}
	return nil, false
}

func (m *Model) handleAPIAction(action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionNavigateUp:
		m.navigate(-1)
	case keybinds.ActionNavigateDown:
		m.navigate(1)
	case keybinds.ActionOpenFilter:
		m.focus = FocusFilter
		return m.filterInput.Focus(), true
	case keybinds.ActionEditBody:
		return m.openEditor(), true
	case keybinds.ActionRunTest:
		return m.runTest(), true
	case keybinds.ActionLoadSample:
		m.loadSample()
	case keybinds.ActionToggleCollapse:
		if v := m.currentView(); v != nil {
			v.Toggle()
			m.refreshResult()
		}
	case keybinds.ActionCopyResult:
		m.copyResult()
	case keybinds.ActionScrollUp:
		m.resultView.ScrollUp(max(1, m.resultView.Height/2))
	case keybinds.ActionScrollDown:
		m.resultView.ScrollDown(max(1, m.resultView.Height/2))
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handleFilterAction(action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionApplyFilter:
		m.closeFilter()
		return nil, true
	case keybinds.ActionCancelFilter:
		m.filterInput.SetValue("")
		m.applyFilter("")
		m.closeFilter()
		return nil, true
	}
	return nil, false
}

func (m *Model) handleEditorAction(action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionCloseEditor:
		m.closeEditor()
		return nil, true
	case keybinds.ActionRunTest:
		m.storeBody()
		return m.runTest(), true
	case keybinds.ActionLoadSample:
		m.loadSample()
		return nil, true
	}
	return nil, false
}

// forwardKey passes an unbound key to the focused text widget
func (m *Model) forwardKey(context keybinds.Context, msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch context {
	case keybinds.ContextChat:
		m.input, cmd = m.input.Update(msg)
	case keybinds.ContextFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter(m.filterInput.Value())
	case keybinds.ContextEditor:
		m.bodyEditor, cmd = m.bodyEditor.Update(msg)
		m.storeBody()
	}

	return cmd
}
