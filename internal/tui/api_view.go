package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/restchat/internal/render"
	"github.com/studiowebux/restchat/internal/types"
)

// renderAPI renders the endpoint tester: endpoint list and latest results on
// the left, body editor and result panel on the right
func (m *Model) renderAPI() string {
	height := m.contentHeight()
	listWidth := m.listWidth()
	rightWidth := max(10, m.width-listWidth-borderSize*2)

	listBorder, resultBorder := colorGray, colorGray
	if m.focus == FocusList || m.focus == FocusFilter {
		listBorder = colorGreen
	}

	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(listBorder).
		Width(listWidth).
		Height(max(1, height-borderSize)).
		Render(m.renderEndpointList(listWidth))

	var right []string
	if endpoint, ok := m.currentEndpoint(); ok && endpoint.Method == types.MethodPost {
		editorBorder := colorGray
		if m.focus == FocusEditor {
			editorBorder = colorGreen
		}
		right = append(right, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(editorBorder).
			Width(rightWidth).
			Render(m.renderEditor()))
	}

	right = append(right, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(resultBorder).
		Width(rightWidth).
		Height(m.resultView.Height+1).
		Render(m.renderResultPanel()))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebar,
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)
}

func (m *Model) renderEndpointList(width int) string {
	var lines []string

	lines = append(lines, styleTitle.Render("Endpoints"))
	if m.focus == FocusFilter || m.filterInput.Value() != "" {
		lines = append(lines, m.filterInput.View())
	}
	lines = append(lines, "")

	if len(m.endpoints) == 0 {
		lines = append(lines, styleSubtle.Render("No matching endpoints"))
	}

	for i, endpoint := range m.endpoints {
		line := fmt.Sprintf("%s %s", methodBadge(endpoint.Method), endpoint.Path)
		desc := "  " + truncate(endpoint.Description, width-4)
		if i == m.cursor {
			line = styleSelected.Render("> ") + line
			desc = styleSelected.Render(desc)
		} else {
			line = "  " + line
			desc = styleSubtle.Render(desc)
		}
		lines = append(lines, line)
		if endpoint.Description != "" {
			lines = append(lines, desc)
		}
	}

	if results := m.session.Results(); len(results) > 0 {
		lines = append(lines, "", styleTitle.Render("Latest results"))
		for _, r := range results {
			lines = append(lines, resultLine(r.Path, r.Result, width-2))
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderEditor() string {
	title := styleTitle.Render("Request body")
	if m.focus != FocusEditor {
		endpoint, _ := m.currentEndpoint()
		body := m.bodies[endpoint.Path]
		if strings.TrimSpace(body) == "" {
			body = styleSubtle.Render("(empty, press e to edit)")
		}
		lines := strings.Split(body, "\n")
		if len(lines) > editorHeight {
			lines = append(lines[:editorHeight-1], styleSubtle.Render("..."))
		}
		return title + "\n" + strings.Join(lines, "\n")
	}
	return title + "\n" + m.bodyEditor.View()
}

func (m *Model) renderResultPanel() string {
	return styleTitle.Render("Result") + "\n" + m.resultView.View()
}

// resultHeight is the viewport height of the result panel
func (m *Model) resultHeight() int {
	height := m.contentHeight() - borderSize - 1 // border + title
	if endpoint, ok := m.currentEndpoint(); ok && endpoint.Method == types.MethodPost {
		height -= editorHeight + 1 + borderSize // editor + title + border
	}
	return max(1, height)
}

// refreshResult rebuilds the result panel for the selected endpoint
func (m *Model) refreshResult() {
	m.resultView.Height = m.resultHeight()

	endpoint, ok := m.currentEndpoint()
	if !ok {
		m.resultView.SetContent(styleSubtle.Render("No endpoint selected"))
		return
	}

	if m.requestState.IsActive() && m.requestState.Path() == endpoint.Path {
		m.resultView.SetContent(styleSubtle.Render("Testing " + endpoint.Label() + "..."))
		return
	}

	view := m.views[endpoint.Path]
	if view == nil {
		m.resultView.SetContent(styleSubtle.Render("No result yet\n\nPress ctrl+r to test " + endpoint.Label()))
		return
	}

	m.resultView.SetContent(renderView(view))
	m.resultView.GotoTop()
}

// renderView formats a rendered result: status, summary and body
func renderView(v *render.View) string {
	var lines []string

	header := styleSuccess.Render("success")
	if v.Class == render.StatusError {
		header = styleError.Render("error")
	}
	if v.ShowStatus() {
		header = fmt.Sprintf("%s %s", statusBadge(v.Result.Status, v.Class), header)
	}
	header += styleSubtle.Render(" " + v.Path + " @ " + v.Result.Timestamp.Local().Format("15:04:05"))
	lines = append(lines, header)

	if len(v.Summary) > 0 {
		lines = append(lines, "", styleTitle.Render("Response Summary:"))
		for _, s := range v.Summary {
			lines = append(lines, fmt.Sprintf("  %s: %s", s.Label, s.Value))
		}
	}

	lines = append(lines, "")
	if v.Collapsed() {
		lines = append(lines, styleSubtle.Render("(collapsed, press c to expand)"))
	} else {
		lines = append(lines, render.Highlight(v.Body))
	}

	return strings.Join(lines, "\n")
}

func resultLine(path string, result types.Result, width int) string {
	if result.IsError() {
		return styleError.Render("✗ ") + truncate(path+"  "+result.Error, width-2)
	}
	return styleSuccess.Render("✓ ") + truncate(fmt.Sprintf("%d %s", result.Status, path), width-2)
}

func methodBadge(method types.Method) string {
	style := lipgloss.NewStyle().Bold(true).Width(4)
	switch method {
	case types.MethodGet:
		style = style.Foreground(colorGreen)
	case types.MethodPost:
		style = style.Foreground(colorYellow)
	}
	return style.Render(string(method))
}

func statusBadge(status int, class render.StatusClass) string {
	if class == render.StatusError {
		return styleError.Render(fmt.Sprintf("[%d]", status))
	}
	return styleSuccess.Render(fmt.Sprintf("[%d]", status))
}
