package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tb0hdan/numlab/pkg/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Debug   bool
	EnvFile string
}

// NewRootCommand creates the numlab command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   ServerName,
		Short: ServiceName,
		Long: `Numerical Methods Lab solves root finding, linear systems, interpolation,
regression, integration and differentiation problems over HTTP, MCP or
straight from the command line, and keeps a history of saved computations.`,
		Version: version(),
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "debug mode")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with NUMLAB_* settings")
	cmd.SetVersionTemplate(fmt.Sprintf("%s Version: {{.Version}}\n", ServiceName))

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewMethodsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints the embedded version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Version: %s\n", ServiceName, version())
		},
	}
}

// loadConfig reads the env file and environment, then lets --debug win.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newLogger(debug bool) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger.Debug().Msg("debug mode enabled")
	}
	return logger
}
