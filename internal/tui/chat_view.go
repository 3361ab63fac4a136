package tui

import (
	"strings"

	"github.com/studiowebux/restchat/internal/types"
)

// refreshChat rebuilds the transcript viewport and keeps it at the bottom
func (m *Model) refreshChat() {
	turns := m.session.Turns()

	var b strings.Builder
	if len(turns) == 0 && !m.chatPending {
		b.WriteString(styleSubtle.Render("Start a conversation with the AI backend."))
	}

	for i, turn := range turns {
		switch turn.Role {
		case types.RoleUser:
			b.WriteString(styleUser.Render("You: " + turn.Content))
			b.WriteString("\n\n")
		case types.RoleAssistant:
			b.WriteString(m.renderReply(i, turn.Content))
			b.WriteString("\n")
			b.WriteString(styleSubtle.Render(strings.Repeat("─", max(1, m.chatView.Width))))
			b.WriteString("\n\n")
		}
	}

	if m.chatPending {
		b.WriteString(styleSubtle.Render("Thinking..."))
	}

	m.chatView.SetContent(b.String())
	if m.chatView.Height > 0 && m.chatView.Width > 0 {
		m.chatView.GotoBottom()
	}
}

// renderReply renders an assistant turn as markdown. Turns never change once
// appended, so the output is cached by index.
func (m *Model) renderReply(index int, content string) string {
	if out, ok := m.rendered[index]; ok {
		return out
	}
	out := m.markdown(content)
	m.rendered[index] = out
	return out
}

// renderChat renders the chat tab
func (m *Model) renderChat() string {
	banner := ""
	if msg := m.session.ChatError(); msg != "" {
		banner = styleBanner.Render("Error: " + msg)
	}

	return strings.Join([]string{
		m.chatView.View(),
		banner,
		m.input.View(),
	}, "\n")
}
