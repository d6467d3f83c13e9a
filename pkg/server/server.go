package server

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/history"
	"github.com/tb0hdan/numlab/pkg/storage"
)

// Server owns the storage handle and the history service built on it. The
// embedded MCP server is where tools register; Handler exposes both the MCP
// endpoint and the REST routes.
type Server struct {
	mcp.Server
	storage storage.Storage
	history *history.Service
	logger  zerolog.Logger
	version string
	// profiler mounts net/http/pprof under /debug.
	profiler bool
}

func NewServer(impl *mcp.Implementation, store storage.Storage, logger zerolog.Logger, requestTimeout time.Duration) *Server {
	return &Server{
		Server:  *mcp.NewServer(impl, nil),
		storage: store,
		history: history.NewService(store, logger, requestTimeout),
		logger:  logger,
		version: impl.Version,
	}
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

func (s *Server) History() *history.Service {
	return s.history
}

func (s *Server) Logger() zerolog.Logger {
	return s.logger
}

// EnableProfiler exposes the pprof handlers at /debug/pprof/ on the next
// Handler call.
func (s *Server) EnableProfiler() {
	s.profiler = true
}

// Shutdown waits for in-flight background saves, bounded by ctx, then releases
// the storage handle.
func (s *Server) Shutdown(ctx context.Context) error {
	drainErr := s.history.Drain(ctx)
	if drainErr != nil {
		s.logger.Warn().Err(drainErr).Msg("background saves still pending at shutdown")
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return err
		}
	}
	return drainErr
}
