package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/studiowebux/restchat/internal/cli"
	"github.com/studiowebux/restchat/internal/config"
	"github.com/studiowebux/restchat/internal/keybinds"
	"github.com/studiowebux/restchat/internal/logging"
	"github.com/studiowebux/restchat/internal/mock"
	"github.com/studiowebux/restchat/internal/proxy"
	"github.com/studiowebux/restchat/internal/session"
	"github.com/studiowebux/restchat/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "restchat",
	Short: "restchat - terminal client for an AI chat backend",
	Long: `restchat talks to an AI chat backend from the terminal.

Run without arguments to start the interactive TUI with a chat tab and an
endpoint tester. The subcommands cover the same ground non-interactively.

Examples:
  restchat                                  # Start interactive TUI
  restchat run /health                      # Test one endpoint
  restchat run /chat --sample -o json       # POST the sample body
  restchat run /health -q status            # Print one field
  restchat chat "Tell me a joke"            # One-shot chat message
  restchat check --chat                     # Smoke test the backend
  restchat endpoints chat                   # Fuzzy search endpoints
  restchat proxy --listen :3000             # Serve the backend under /api
  restchat mock --delay 2s                  # Stand-in backend for offline use`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Test one registered endpoint",
	Long: `Test one registered endpoint and print the rendered result.

Without a path an endpoint picker is shown when the terminal is interactive.
The command exits non-zero when the result is an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeLog, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		opts := cli.RunOptions{
			Body:         flagBody,
			Sample:       flagSample,
			OutputFormat: flagOutput,
			Query:        flagQuery,
		}
		if len(args) > 0 {
			opts.Path = args[0]
		}
		return cli.Run(cmd.Context(), app, opts)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Send one chat message without history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeLog, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		return cli.Chat(cmd.Context(), app, cli.ChatOptions{
			Message: strings.TrimSpace(strings.Join(args, " ")),
			Raw:     flagRaw,
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Smoke test every GET endpoint and optionally chat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeLog, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		results, err := cli.Check(cmd.Context(), app, cli.CheckOptions{
			Chat:    flagCheckChat,
			Message: flagCheckMessage,
		})
		if err != nil {
			return err
		}
		return cli.PrintCheck(app, results)
	},
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints [query]",
	Short: "List registered endpoints",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeLog, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return cli.ListEndpoints(app, query)
	},
}

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve the backend under the frontend /api paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeLog, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		srv, err := proxy.New(app.Config.Backend.BaseURL, proxy.WithLogger(app.Logger))
		if err != nil {
			return err
		}
		return srv.ListenAndServe(cmd.Context(), app.Config.Proxy.Listen)
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a stand-in backend with echo replies",
	Long: `Run a stand-in for the AI chat backend. It serves /health, / and /chat
with canned data and markdown echo replies, so the client can be tried
without an AI provider.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.Console(os.Stderr, flagLogLevel)
		if err != nil {
			return err
		}

		srv := mock.NewServer(mock.Config{
			Delay:        flagMockDelay,
			Unconfigured: flagMockUnconfigured,
		}, logger)
		return srv.ListenAndServe(cmd.Context(), flagMockListen)
	},
}

// Global flags
var (
	flagConfig    string
	flagEnvFile   string
	flagBaseURL   string
	flagEndpoints string
	flagLogLevel  string
)

// Command flags
var (
	flagBody         string
	flagSample       bool
	flagOutput       string
	flagQuery        string
	flagRaw          bool
	flagCheckChat    bool
	flagCheckMessage string
	flagListen       string

	flagMockListen       string
	flagMockDelay        time.Duration
	flagMockUnconfigured bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ./restchat.yaml or ~/.restchat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from file (default .env)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", config.DefaultBaseURL, "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&flagEndpoints, "endpoints", "", "Endpoint file (.yaml, .json, .jsonc)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", config.DefaultLogLevel, "Log level (debug/info/warn/error)")

	runCmd.Flags().StringVarP(&flagBody, "body", "b", "", "Request body for POST endpoints ('-' reads stdin)")
	runCmd.Flags().BoolVar(&flagSample, "sample", false, "Use the endpoint sample body when no body is given")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	runCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression selecting part of a successful response")

	chatCmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the reply without markdown rendering")

	checkCmd.Flags().BoolVar(&flagCheckChat, "chat", false, "Also send a chat message")
	checkCmd.Flags().StringVar(&flagCheckMessage, "message", cli.DefaultCheckMessage, "Chat message used by --chat")

	proxyCmd.Flags().StringVar(&flagListen, "listen", config.DefaultProxyListen, "Proxy listen address")

	mockCmd.Flags().StringVar(&flagMockListen, "listen", ":8000", "Mock backend listen address")
	mockCmd.Flags().DurationVar(&flagMockDelay, "delay", 0, "Delay before each chat reply")
	mockCmd.Flags().BoolVar(&flagMockUnconfigured, "unconfigured", false, "Fail chat like a backend without an AI key")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(endpointsCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(mockCmd)
}

// setup loads configuration and builds the app. Interactive sessions log to
// the log file; other commands log to stderr.
func setup(cmd *cobra.Command, interactive bool) (*cli.App, func(), error) {
	if err := config.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfig,
		EnvFile:    flagEnvFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, nil, err
	}

	var (
		logger zerolog.Logger
		closer io.Closer
	)
	if interactive {
		logger, closer, err = logging.File(cfg.Log.File, cfg.Log.Level)
	} else {
		logger, err = logging.Console(os.Stderr, cfg.Log.Level)
	}
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}

	if cfg.Source != "" {
		logger.Debug().Str("file", cfg.Source).Msg("loaded config")
	}

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return app, closeLog, nil
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command) error {
	app, closeLog, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	registry, err := keybinds.Load(keybinds.Config(app.Config.Keybinds))
	if err != nil {
		return fmt.Errorf("invalid keybinds: %w", err)
	}
	for _, w := range keybinds.Check(registry) {
		app.Logger.Warn().Msg(w.String())
	}

	sess := session.New(app.Executor, app.Registry,
		session.WithHistoryWindow(app.Config.Chat.HistoryWindow),
		session.WithLogger(app.Logger),
	)

	return tui.Run(cmd.Context(), tui.Options{
		Session:  sess,
		Keybinds: registry,
		Logger:   app.Logger,
	})
}
