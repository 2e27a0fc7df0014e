package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamasvc/internal/config"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type rootOptions struct {
	configPath  string
	logLevel    string
	metricsAddr string
	demo        bool
}

// NewRootCmd builds the command tree. With no flags the root command runs the
// interactive session on in/out with built-in defaults.
func NewRootCmd(log zerolog.Logger, in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	var app *App

	root := &cobra.Command{
		Use:           "llamasvc",
		Short:         "Set up a model and generate text from an interactive session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			app, err = NewApp(cfg, withLevel(log, cfg.LogLevel))
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.WithOps(cmd.Context(), func(ctx context.Context) error {
				if opts.demo {
					if err := Demo(ctx, app.Manager, out, DefaultDemoModel); err != nil {
						return err
					}
					fmt.Fprintln(out, "\n4. Starting CLI interface...")
				}
				s := &Session{Service: app.Manager, In: in, Out: out, Log: app.Log}
				return s.Run(ctx)
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (default warn)")
	pf.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /healthz, /readyz, /status, /models and /metrics on this address")
	root.Flags().BoolVar(&opts.demo, "demo", false, "Run the scripted demo before the interactive session")

	demoCmd := &cobra.Command{
		Use:     "demo [model]",
		Short:   "Set up a model, print its status and generate one response",
		Example: "  llamasvc demo\n  llamasvc demo llama-13b",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := DefaultDemoModel
			if len(args) == 1 {
				model = args[0]
			}
			return app.WithOps(cmd.Context(), func(ctx context.Context) error {
				return Demo(ctx, app.Manager, out, model)
			})
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Nothing to wire for printing the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "llamasvc %s\n", Version)
		},
	}

	root.AddCommand(demoCmd, versionCmd)
	return root
}

// resolveConfig loads --config (or defaults) and lets explicit flags win.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func withLevel(log zerolog.Logger, level string) zerolog.Logger {
	if strings.TrimSpace(level) == "" {
		return log.Level(zerolog.WarnLevel)
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.Level(zerolog.WarnLevel)
	}
	return log.Level(lvl)
}
