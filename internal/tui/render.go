package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/restchat/internal/keybinds"
	"github.com/studiowebux/restchat/internal/session"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleUser = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
			Background(colorCyan)

	styleTabInactive = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(colorGray)

	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)
)

// Layout sizes
const (
	inputHeight  = 3
	editorHeight = 8
	borderSize   = 2
)

// renderTabs renders the tab bar
func (m *Model) renderTabs() string {
	chat, api := styleTabInactive, styleTabInactive
	if m.session.Tab() == session.TabChat {
		chat = styleTabActive
	} else {
		api = styleTabActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		chat.Render("Chat"),
		" ",
		api.Render("API Tester"),
	)
}

// renderStatusBar renders key hints on the left and the latest message on
// the right
func (m *Model) renderStatusBar() string {
	left := styleSubtle.Render(m.hints())

	right := ""
	if m.errorMsg != "" {
		right = styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		if strings.Contains(m.statusMsg, "copied") || strings.Contains(m.statusMsg, "completed") ||
			strings.Contains(m.statusMsg, "loaded") || strings.Contains(m.statusMsg, "received") {
			right = styleSuccess.Render(m.statusMsg)
		} else if strings.HasPrefix(m.statusMsg, "Testing") || strings.HasPrefix(m.statusMsg, "Waiting") {
			right = styleWarning.Render(m.statusMsg)
		} else {
			right = m.statusMsg
		}
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

// hints lists the main bindings of the current context
func (m *Model) hints() string {
	context := m.keyContext()

	var actions []keybinds.Action
	switch context {
	case keybinds.ContextChat:
		actions = []keybinds.Action{keybinds.ActionSendMessage, keybinds.ActionClearChat, keybinds.ActionSwitchTab, keybinds.ActionQuitForce}
	case keybinds.ContextAPI:
		actions = []keybinds.Action{keybinds.ActionOpenFilter, keybinds.ActionEditBody, keybinds.ActionRunTest, keybinds.ActionToggleCollapse, keybinds.ActionCopyResult, keybinds.ActionSwitchTab, keybinds.ActionQuit}
	case keybinds.ContextFilter:
		actions = []keybinds.Action{keybinds.ActionApplyFilter, keybinds.ActionCancelFilter}
	case keybinds.ContextEditor:
		actions = []keybinds.Action{keybinds.ActionRunTest, keybinds.ActionLoadSample, keybinds.ActionCloseEditor}
	}

	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		keys := m.keybinds.GetBindingString(context, action)
		if keys == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", keys, strings.ReplaceAll(string(action), "_", " ")))
	}
	return strings.Join(parts, " • ")
}

// contentHeight is the height left for the active tab
func (m *Model) contentHeight() int {
	return max(1, m.height-2) // tab bar + status bar
}

// listWidth is the width of the endpoint column on the API tab
func (m *Model) listWidth() int {
	if m.width < 80 {
		return m.width / 2
	}
	return max(30, m.width*35/100)
}

// updateLayout resizes widgets after a window or focus change
func (m *Model) updateLayout() {
	if m.width == 0 {
		return
	}

	m.input.SetWidth(max(10, m.width-2))
	m.chatView.Width = m.width
	m.chatView.Height = max(1, m.contentHeight()-inputHeight-2)

	rightWidth := m.width - m.listWidth() - borderSize*2
	m.bodyEditor.SetWidth(max(10, rightWidth-borderSize))
	m.filterInput.Width = max(10, m.listWidth()-borderSize*2)
	m.resultView.Width = max(10, rightWidth-borderSize)

	m.refreshChat()
	m.refreshResult()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
