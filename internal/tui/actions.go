package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/restchat/internal/session"
	"github.com/studiowebux/restchat/internal/types"
)

// sendChat appends the typed message and returns the command that waits for
// the reply. Nothing is sent while a reply is pending or the input is blank.
func (m *Model) sendChat() tea.Cmd {
	if m.chatPending {
		m.statusMsg = "Waiting for the previous reply"
		return nil
	}

	call, ok := m.session.PrepareChat(m.input.Value())
	if !ok {
		return nil
	}

	m.input.Reset()
	m.chatPending = true
	m.statusMsg = ""
	m.refreshChat()

	ctx := m.ctx
	m.logger.Debug().Int("history", len(call.History())).Msg("sending chat message")
	return func() tea.Msg {
		return chatResponseMsg{outcome: call.Do(ctx)}
	}
}

// clearChat drops the transcript. A reply still in flight is cancelled and
// discarded when it arrives.
func (m *Model) clearChat() {
	m.session.ClearChat()
	m.rendered = make(map[int]string)
	m.statusMsg = "Conversation cleared"
	m.refreshChat()
}

func (m *Model) switchTab() {
	tab := m.session.ToggleTab()
	if tab == session.TabChat {
		m.filterInput.Blur()
		m.bodyEditor.Blur()
		m.input.Focus()
	} else {
		m.input.Blur()
		switch m.focus {
		case FocusFilter:
			m.filterInput.Focus()
		case FocusEditor:
			m.bodyEditor.Focus()
		}
	}
	m.statusMsg = ""
	m.updateLayout()
}

func (m *Model) navigate(delta int) {
	if len(m.endpoints) == 0 {
		return
	}
	m.selectEndpoint(m.cursor + delta)
	m.refreshResult()
}

// applyFilter narrows the endpoint list, keeping the selection when it is
// still visible
func (m *Model) applyFilter(query string) {
	selected, hadSelection := m.currentEndpoint()

	m.endpoints = m.session.Registry().Search(query)

	index := 0
	if hadSelection {
		for i, e := range m.endpoints {
			if e.Path == selected.Path {
				index = i
				break
			}
		}
	}
	m.selectEndpoint(index)
	m.refreshResult()
}

func (m *Model) closeFilter() {
	m.filterInput.Blur()
	m.focus = FocusList
}

func (m *Model) openEditor() tea.Cmd {
	endpoint, ok := m.currentEndpoint()
	if !ok {
		return nil
	}
	if endpoint.Method != types.MethodPost {
		m.statusMsg = endpoint.Label() + " takes no request body"
		return nil
	}

	m.bodyEditor.SetValue(m.bodies[endpoint.Path])
	m.focus = FocusEditor
	m.statusMsg = ""
	m.updateLayout()
	return m.bodyEditor.Focus()
}

func (m *Model) closeEditor() {
	m.storeBody()
	m.bodyEditor.Blur()
	m.focus = FocusList
	m.updateLayout()
}

// storeBody saves the editor content for the selected endpoint
func (m *Model) storeBody() {
	if m.focus != FocusEditor {
		return
	}
	if endpoint, ok := m.currentEndpoint(); ok {
		m.bodies[endpoint.Path] = m.bodyEditor.Value()
	}
}

func (m *Model) loadSample() {
	endpoint, ok := m.currentEndpoint()
	if !ok {
		return
	}
	if !endpoint.HasSample() {
		m.statusMsg = "No sample body for " + endpoint.Label()
		return
	}

	m.bodies[endpoint.Path] = endpoint.SampleBody
	if m.focus == FocusEditor {
		m.bodyEditor.SetValue(endpoint.SampleBody)
	}
	m.statusMsg = "Sample body loaded"
}

// runTest executes the selected endpoint. Only one test runs at a time.
func (m *Model) runTest() tea.Cmd {
	endpoint, ok := m.currentEndpoint()
	if !ok {
		return nil
	}

	body := ""
	if endpoint.Method == types.MethodPost {
		body = m.bodies[endpoint.Path]
	}

	ctx, cancel := context.WithCancel(m.ctx)
	if !m.requestState.Start(endpoint.Path, cancel) {
		cancel()
		m.statusMsg = "Testing " + m.requestState.Path() + "..."
		return nil
	}

	m.errorMsg = ""
	m.statusMsg = "Testing " + endpoint.Label() + "..."
	m.refreshResult()

	sess := m.session
	path := endpoint.Path
	return func() tea.Msg {
		result, err := sess.TestEndpoint(ctx, path, body)
		return testResultMsg{path: path, result: result, err: err}
	}
}

func (m *Model) copyResult() {
	v := m.currentView()
	if v == nil {
		m.statusMsg = "No result to copy"
		return
	}
	v.Copy(m.clipboard)
	m.statusMsg = "Result copied to clipboard"
}

// shutdown cancels every request started from the TUI
func (m *Model) shutdown() {
	m.requestState.Cancel()
	m.cancel()
}
