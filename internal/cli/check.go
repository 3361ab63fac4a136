package cli

import (
	"context"
	"fmt"

	"github.com/studiowebux/restchat/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckMessage is sent when checking the chat route
const DefaultCheckMessage = "Hello! Can you tell me a joke?"

const checkConcurrency = 4

// CheckOptions selects what the smoke test covers
type CheckOptions struct {
	Chat    bool
	Message string
}

// CheckResult is the outcome for one endpoint
type CheckResult struct {
	Endpoint types.Endpoint
	Result   types.Result
}

// Passed reports whether the endpoint answered with a 2xx JSON body
func (c CheckResult) Passed() bool {
	return !c.Result.IsError()
}

// Check calls every GET endpoint, and optionally the chat route, concurrently.
// Results keep registry order.
func Check(ctx context.Context, app *App, opts CheckOptions) ([]CheckResult, error) {
	var endpoints []types.Endpoint
	for _, ep := range app.Registry.All() {
		if ep.Method == types.MethodGet {
			endpoints = append(endpoints, ep)
		}
	}

	results := make([]CheckResult, len(endpoints), len(endpoints)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	for i, ep := range endpoints {
		g.Go(func() error {
			results[i] = CheckResult{Endpoint: ep, Result: app.Executor.Execute(gctx, ep, "")}
			return nil
		})
	}

	var chatResult CheckResult
	if opts.Chat {
		message := opts.Message
		if message == "" {
			message = DefaultCheckMessage
		}
		g.Go(func() error {
			_, res := app.Executor.Chat(gctx, message, nil)
			chatResult = CheckResult{
				Endpoint: types.Endpoint{Path: "/chat", Method: types.MethodPost},
				Result:   res,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if opts.Chat {
		results = append(results, chatResult)
	}

	return results, nil
}

// PrintCheck writes the PASS/FAIL report and returns ErrRequestFailed if
// anything failed
func PrintCheck(app *App, results []CheckResult) error {
	p := app.palette()
	failed := 0

	app.printf("%s\n", p.title.Sprintf("Checking %s", app.Executor.BaseURL()))
	for _, r := range results {
		status := p.success.Sprint("PASS")
		if !r.Passed() {
			status = p.failure.Sprint("FAIL")
			failed++
		}
		app.printf("%-16s %s", r.Endpoint.Label(), status)
		if r.Result.IsError() {
			app.printf("  %s", p.subtle.Sprint(r.Result.Error))
		} else {
			app.printf("  %s", p.subtle.Sprintf("HTTP %d", r.Result.Status))
		}
		app.printf("\n")

		if !r.Passed() && r.Endpoint.Method == types.MethodPost {
			app.printf("%s\n", p.warn.Sprint("  chat failed - make sure the backend has its AI provider key configured"))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d checks failed", ErrRequestFailed, failed, len(results))
	}
	return nil
}
