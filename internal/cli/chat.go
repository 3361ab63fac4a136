package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
)

// ChatOptions contains options for a one-shot chat message
type ChatOptions struct {
	Message string
	Raw     bool // print the reply without markdown rendering
}

// Chat sends one message without history and prints the reply
func Chat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}

	reply, result := app.Executor.Chat(ctx, opts.Message, nil)
	if result.IsError() {
		fmt.Fprintln(app.Err, app.palette().failure.Sprint("Error: "+result.Error))
		return ErrRequestFailed
	}

	if opts.Raw || !app.Color {
		fmt.Fprintln(app.Out, reply)
		return nil
	}

	out, err := glamour.Render(reply, "dark")
	if err != nil {
		app.Logger.Debug().Err(err).Msg("markdown rendering failed")
		fmt.Fprintln(app.Out, reply)
		return nil
	}
	fmt.Fprint(app.Out, out)
	return nil
}
