package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/config"
	"github.com/studiowebux/restchat/internal/executor"
	"github.com/studiowebux/restchat/internal/registry"
)

// ErrRequestFailed is returned when a command ran but the backend call did
// not succeed. The result has already been printed.
var ErrRequestFailed = errors.New("request failed")

// App bundles what every command needs
type App struct {
	Config   *config.Config
	Registry *registry.Registry
	Executor *executor.Executor
	Logger   zerolog.Logger

	Out   io.Writer
	Err   io.Writer
	Color bool
}

// NewApp wires the registry and executor described by cfg
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	reg := registry.Default()
	if cfg.Endpoints.File != "" {
		loaded, err := registry.Load(cfg.Endpoints.File)
		if err != nil {
			return nil, err
		}
		reg = loaded
		logger.Debug().Str("file", cfg.Endpoints.File).Int("count", reg.Len()).Msg("loaded endpoints")
	}

	exec, err := executor.New(cfg.Backend.BaseURL, ExecutorOptions(cfg, logger)...)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Registry: reg,
		Executor: exec,
		Logger:   logger,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Color:    !color.NoColor,
	}, nil
}

// ExecutorOptions translates backend config into executor options
func ExecutorOptions(cfg *config.Config, logger zerolog.Logger) []executor.Option {
	opts := []executor.Option{
		executor.WithHeaders(cfg.Backend.Headers),
		executor.WithLogger(logger),
	}

	b := cfg.Backend
	if b.CAFile != "" || b.CertFile != "" || b.InsecureSkipVerify {
		opts = append(opts, executor.WithTLS(&executor.TLSConfig{
			CAFile:             b.CAFile,
			CertFile:           b.CertFile,
			KeyFile:            b.KeyFile,
			InsecureSkipVerify: b.InsecureSkipVerify,
		}))
	}

	return opts
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// palette returns color printers, disabled when colors are off
func (a *App) palette() palette {
	p := palette{
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
		subtle:  color.New(color.FgHiBlack),
		title:   color.New(color.FgCyan, color.Bold),
		label:   color.New(color.Bold),
	}
	if !a.Color {
		for _, c := range []*color.Color{p.success, p.failure, p.warn, p.subtle, p.title, p.label} {
			c.DisableColor()
		}
	}
	return p
}

type palette struct {
	success *color.Color
	failure *color.Color
	warn    *color.Color
	subtle  *color.Color
	title   *color.Color
	label   *color.Color
}
