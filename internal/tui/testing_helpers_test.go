package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/restchat/internal/executor"
	"github.com/studiowebux/restchat/internal/registry"
	"github.com/studiowebux/restchat/internal/session"
)

// recordingClipboard records what the model copies
type recordingClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (c *recordingClipboard) write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = append(c.copied, text)
	return nil
}

func (c *recordingClipboard) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.copied) == 0 {
		return ""
	}
	return c.copied[len(c.copied)-1]
}

// CreateTestModel creates a Model talking to handler through a real executor
func CreateTestModel(t *testing.T, handler http.Handler) (*Model, *recordingClipboard) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	exec, err := executor.New(srv.URL)
	if err != nil {
		t.Fatalf("Failed to create executor: %v", err)
	}

	clip := &recordingClipboard{}
	m, err := New(context.Background(), Options{
		Session:   session.New(exec, registry.Default()),
		Clipboard: clip.write,
		Markdown:  func(text string) string { return text },
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.cancel)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m, clip
}

// PressKey feeds a key to the model and returns the resulting command
func PressKey(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// TypeText feeds each rune as a key press
func TypeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// RunCmd executes cmd synchronously and feeds its message back to the model
func RunCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

// AssertModelField compares a model field value
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
