package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ListEndpoints prints the registry, fuzzy-filtered by query
func ListEndpoints(app *App, query string) error {
	endpoints := app.Registry.Search(query)
	if len(endpoints) == 0 {
		app.printf("no endpoints match %q\n", query)
		return nil
	}

	rows := make([][]string, 0, len(endpoints))
	for _, ep := range endpoints {
		sample := ""
		if ep.HasSample() {
			sample = "yes"
		}
		rows = append(rows, []string{string(ep.Method), ep.Path, ep.Description, sample})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("METHOD", "PATH", "DESCRIPTION", "SAMPLE").
		Rows(rows...)

	app.printf("%s\n", t.String())
	return nil
}
