package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/keybinds"
	"github.com/studiowebux/restchat/internal/render"
	"github.com/studiowebux/restchat/internal/session"
	"github.com/studiowebux/restchat/internal/types"
)

// Focus is the widget receiving keys on the API tab
type Focus int

const (
	FocusList Focus = iota
	FocusFilter
	FocusEditor
)

// MarkdownRenderer turns an assistant reply into terminal output
type MarkdownRenderer func(text string) string

// Model represents the TUI state
type Model struct {
	// Core state
	session   *session.Session
	keybinds  *keybinds.Registry
	clipboard render.ClipboardWriter
	markdown  MarkdownRenderer
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string

	// Chat tab
	chatView    viewport.Model
	input       textarea.Model
	chatPending bool
	rendered    map[int]string // Markdown cache by turn index, reset on clear

	// API tab
	endpoints    []types.Endpoint // Registry order, narrowed by the filter
	cursor       int
	focus        Focus
	filterInput  textinput.Model
	bodyEditor   textarea.Model
	bodies       map[string]string       // Request body per POST endpoint
	views        map[string]*render.View // Rendered latest result per endpoint
	resultView   viewport.Model
	requestState *RequestState
}

type chatResponseMsg struct {
	outcome session.ChatOutcome
}

type testResultMsg struct {
	path   string
	result types.Result
	err    error
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case chatResponseMsg:
		m.chatPending = false
		switch {
		case msg.outcome.Stale:
			m.statusMsg = "Reply discarded after clear"
		case msg.outcome.Result.IsError():
			m.statusMsg = ""
		default:
			m.statusMsg = "Reply received"
		}
		m.refreshChat()

	case testResultMsg:
		m.requestState.Finish()
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			break
		}
		m.errorMsg = ""
		m.views[msg.path] = render.Render(msg.path, msg.result)
		if msg.result.IsError() {
			m.statusMsg = "Test failed: " + msg.path
		} else {
			m.statusMsg = "Test completed: " + msg.path
		}
		m.refreshResult()

	default:
		// Cursor blink and other widget messages
		if m.session.Tab() == session.TabChat {
			m.input, cmd = m.input.Update(msg)
		} else if m.focus == FocusEditor {
			m.bodyEditor, cmd = m.bodyEditor.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current state
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	if m.session.Tab() == session.TabChat {
		body = m.renderChat()
	} else {
		body = m.renderAPI()
	}

	return strings.Join([]string{m.renderTabs(), body, m.renderStatusBar()}, "\n")
}

// currentEndpoint returns the endpoint under the cursor
func (m *Model) currentEndpoint() (types.Endpoint, bool) {
	if m.cursor < 0 || m.cursor >= len(m.endpoints) {
		return types.Endpoint{}, false
	}
	return m.endpoints[m.cursor], true
}

// currentView returns the rendered latest result of the selected endpoint
func (m *Model) currentView() *render.View {
	endpoint, ok := m.currentEndpoint()
	if !ok {
		return nil
	}
	return m.views[endpoint.Path]
}

func glamourMarkdown(text string) string {
	out, err := glamour.Render(text, "dark")
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
