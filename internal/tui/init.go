package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/keybinds"
	"github.com/studiowebux/restchat/internal/render"
	"github.com/studiowebux/restchat/internal/session"
	"github.com/studiowebux/restchat/internal/types"
)

// Options configures a Model
type Options struct {
	Session *session.Session

	// Keybinds defaults to keybinds.NewDefaultRegistry()
	Keybinds *keybinds.Registry

	// Clipboard defaults to the system clipboard
	Clipboard render.ClipboardWriter

	// Markdown defaults to glamour with the dark style
	Markdown MarkdownRenderer

	Logger zerolog.Logger
}

// New creates a new TUI model. Requests run under ctx and are cancelled
// when the user quits.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Session == nil {
		return Model{}, errors.New("tui: session is required")
	}
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = render.SystemClipboard
	}
	if opts.Markdown == nil {
		opts.Markdown = glamourMarkdown
	}

	input := textarea.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 5000
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.Focus()

	filter := textinput.New()
	filter.Placeholder = "filter endpoints"
	filter.Prompt = "/"

	editor := textarea.New()
	editor.Placeholder = "JSON request body"
	editor.SetHeight(8)

	runCtx, cancel := context.WithCancel(ctx)

	m := Model{
		session:      opts.Session,
		keybinds:     opts.Keybinds,
		clipboard:    opts.Clipboard,
		markdown:     opts.Markdown,
		logger:       opts.Logger,
		ctx:          runCtx,
		cancel:       cancel,
		chatView:     viewport.New(80, 20),
		input:        input,
		rendered:     make(map[int]string),
		endpoints:    opts.Session.Registry().All(),
		focus:        FocusList,
		filterInput:  filter,
		bodyEditor:   editor,
		bodies:       make(map[string]string),
		views:        make(map[string]*render.View),
		resultView:   viewport.New(80, 20),
		requestState: &RequestState{},
	}

	m.selectEndpoint(0)
	m.refreshChat()
	m.refreshResult()

	return m, nil
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer m.cancel()

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}

// selectEndpoint moves the cursor and preloads the sample body the first
// time a POST endpoint is selected
func (m *Model) selectEndpoint(index int) {
	if len(m.endpoints) == 0 {
		m.cursor = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(m.endpoints) {
		index = len(m.endpoints) - 1
	}
	m.cursor = index

	endpoint := m.endpoints[index]
	if endpoint.Method != types.MethodPost {
		return
	}
	if _, ok := m.bodies[endpoint.Path]; !ok {
		m.bodies[endpoint.Path] = endpoint.SampleBody
	}
}
