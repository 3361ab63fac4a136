package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/studiowebux/restchat/internal/filter"
	"github.com/studiowebux/restchat/internal/render"
	"github.com/studiowebux/restchat/internal/types"
	"gopkg.in/yaml.v3"
)

// RunOptions contains options for testing one endpoint
type RunOptions struct {
	Path         string
	Body         string // "-" reads stdin
	Sample       bool   // use the endpoint sample when Body is empty
	OutputFormat string // text, json, yaml
	Query        string // JMESPath applied to a successful response
}

// Run executes one endpoint and prints the rendered result
func Run(ctx context.Context, app *App, opts RunOptions) error {
	endpoint, err := resolveEndpoint(app, opts.Path)
	if err != nil {
		return err
	}

	var query *filter.Query
	if opts.Query != "" {
		if query, err = filter.Compile(opts.Query); err != nil {
			return err
		}
	}

	body, err := readBody(opts.Body, os.Stdin)
	if err != nil {
		return err
	}
	if body == "" && opts.Sample {
		body = endpoint.SampleBody
	}

	result := app.Executor.Execute(ctx, endpoint, body)

	if query != nil && !result.IsError() {
		return printQuery(app, query, result.Data, opts.OutputFormat)
	}

	output, err := formatOutput(app, render.Render(endpoint.Path, result), opts.OutputFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(app.Out, output)

	if result.IsError() {
		return ErrRequestFailed
	}
	return nil
}

// printQuery prints only the part of data selected by query
func printQuery(app *App, query *filter.Query, data any, format string) error {
	selected, err := query.Apply(data)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		out, err := yaml.Marshal(selected)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		fmt.Fprint(app.Out, string(out))
	case "", "text", "json":
		out := render.PrettyJSON(selected)
		if app.Color && format != "json" {
			out = render.Highlight(out)
		}
		fmt.Fprintln(app.Out, out)
	default:
		return fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
	}
	return nil
}

func resolveEndpoint(app *App, path string) (types.Endpoint, error) {
	if path == "" {
		if !isInteractive() {
			return types.Endpoint{}, fmt.Errorf("no endpoint given (use one of: %s)", pathList(app))
		}
		return promptForEndpoint(app.Registry)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint, ok := app.Registry.Lookup(path)
	if !ok {
		return types.Endpoint{}, fmt.Errorf("unknown endpoint %s (use one of: %s)", path, pathList(app))
	}
	return endpoint, nil
}

func pathList(app *App) string {
	var paths []string
	for _, ep := range app.Registry.All() {
		paths = append(paths, ep.Path)
	}
	return strings.Join(paths, ", ")
}

func readBody(body string, stdin io.Reader) (string, error) {
	if body != "-" {
		return body, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read body from stdin: %w", err)
	}
	return string(data), nil
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// formatOutput formats the view based on the output format
func formatOutput(app *App, view *render.View, format string) (string, error) {
	switch format {
	case "json":
		return view.Full() + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(view.Result)
		if err != nil {
			return "", fmt.Errorf("failed to encode yaml: %w", err)
		}
		return string(data), nil

	case "", "text":
		return formatText(app, view), nil

	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
	}
}

func formatText(app *App, view *render.View) string {
	p := app.palette()
	var sb strings.Builder

	sb.WriteString(p.title.Sprint(view.Path))
	if view.ShowStatus() {
		sb.WriteString("  ")
		sb.WriteString(p.success.Sprintf("%d", view.Result.Status))
	}
	if view.Class == render.StatusError {
		sb.WriteString("  ")
		sb.WriteString(p.failure.Sprint("ERROR"))
	}
	sb.WriteString("\n")
	sb.WriteString(p.subtle.Sprint(view.Result.Timestamp.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString("\n\n")

	body := view.Body
	if app.Color {
		body = render.Highlight(body)
	}
	sb.WriteString(body)
	sb.WriteString("\n")

	if len(view.Summary) > 0 {
		sb.WriteString("\n")
		sb.WriteString(p.label.Sprint("Response Summary:"))
		sb.WriteString("\n")
		for _, line := range view.Summary {
			sb.WriteString(fmt.Sprintf("  %s %s\n", p.label.Sprint(line.Label+":"), line.Value))
		}
	}

	return sb.String()
}
