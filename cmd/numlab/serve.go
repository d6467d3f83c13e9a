package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/tb0hdan/numlab/pkg/server"
	"github.com/tb0hdan/numlab/pkg/storage"
	"github.com/tb0hdan/numlab/pkg/tools"
	"github.com/tb0hdan/numlab/pkg/tools/catalog"
	"github.com/tb0hdan/numlab/pkg/tools/history"
	"github.com/tb0hdan/numlab/pkg/tools/solve"
)

type serveOptions struct {
	bind  string
	dbURI string
}

// NewServeCommand starts the HTTP API and the MCP endpoint.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API and MCP endpoint",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.bind, "bind", "", "bind address (host:port), overrides NUMLAB_HOST and NUMLAB_PORT")
	cmd.Flags().StringVar(&opts.dbURI, "db", "", "database URI (sqlite://path, a file path or mongodb://...), overrides NUMLAB_DB_URI")

	return cmd
}

func runServe(signalCtx context.Context, rootOpts *RootOptions, opts *serveOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	if opts.dbURI != "" {
		cfg.DBURI = opts.dbURI
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	bindAddr := cfg.Addr()
	if opts.bind != "" {
		bindAddr = opts.bind
	}

	logger := newLogger(cfg.Debug)

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: version(),
	}

	// Initialize storage
	store, err := storage.Open(signalCtx, storage.Config{
		URI:   cfg.DBURI,
		Debug: cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info().Msgf("Database initialized at %s", cfg.DBURI)

	srv := server.NewServer(impl, store, logger, cfg.RequestTimeout)
	if cfg.Debug {
		srv.EnableProfiler()
		logger.Debug().Msgf("pprof available at: http://%s/debug/pprof/", bindAddr)
	}

	toolList := []tools.Tool{
		solve.New(logger),
		catalog.New(logger),
		history.New(logger),
	}

	// Register all tools
	for _, tool := range toolList {
		if err := tool.Register(srv); err != nil {
			logger.Error().Msgf("Failed to register tool: %v", err)
		}
	}

	httpServer := &http.Server{
		Addr:              bindAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Msgf("%s starting on address %s", ServiceName, bindAddr)
	logger.Info().Msgf("MCP endpoint available at: http://%s/mcp", bindAddr)

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("%s failed to start: %w", ServerName, err)
	case <-signalCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Msgf("HTTP shutdown error: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Msgf("%s shutdown error: %v", ServiceName, err)
		return err
	}
	logger.Info().Msgf("%s shutdown complete", ServiceName)

	return nil
}
