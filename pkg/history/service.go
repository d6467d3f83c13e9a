// Package history is the append-only log of computation runs: it validates
// save requests, applies a per-call storage deadline and hides storage
// failures behind ErrStorageUnavailable.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/models"
	"github.com/tb0hdan/numlab/pkg/storage"
)

const DefaultTimeout = 5 * time.Second

var (
	// ErrStorageUnavailable is returned for any storage failure; the cause is
	// logged, never returned.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("record not found")
	ErrDraining           = errors.New("history is shutting down")
)

type Service struct {
	store   storage.Storage
	logger  zerolog.Logger
	timeout time.Duration

	mu       sync.Mutex
	draining bool
	pending  sync.WaitGroup
}

func NewService(store storage.Storage, logger zerolog.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		store:   store,
		logger:  logger.With().Str("component", "history").Logger(),
		timeout: timeout,
	}
}

// Save validates req and appends exactly one record. On a ValidationErrors
// result nothing is written.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*models.ComputationRecord, error) {
	rec, err := req.Validate()
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected save request")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.CreateComputation(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("equation", rec.Equation).Msg("failed to save computation")
		return nil, ErrStorageUnavailable
	}
	s.logger.Info().Str("id", rec.ID).Str("method", rec.Method).Msg("computation saved")
	return rec, nil
}

// SaveAsync runs Save in the background. The write is tracked so Drain can
// wait for it; once Drain has started new writes are refused with ErrDraining.
func (s *Service) SaveAsync(req SaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining {
		return ErrDraining
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if _, err := s.Save(context.Background(), req); err != nil {
			s.logger.Warn().Err(err).Msg("background save failed")
		}
	}()
	return nil
}

// Drain stops accepting background saves and waits for the in-flight ones
// until ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain background saves: %w", ctx.Err())
	}
}

// List returns every record in insertion order; an empty history is an empty
// non-nil slice.
func (s *Service) List(ctx context.Context) ([]models.ComputationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.store.ListComputations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load history")
		return nil, ErrStorageUnavailable
	}
	if records == nil {
		records = []models.ComputationRecord{}
	}
	return records, nil
}

// Page is one newest-first slice of the history.
type Page struct {
	Total   int64                      `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
	Records []models.ComputationRecord `json:"records"`
}

func (s *Service) Page(ctx context.Context, limit, offset int) (*Page, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("invalid page limit=%d offset=%d", limit, offset)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, total, err := s.store.GetComputations(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to page history")
		return nil, ErrStorageUnavailable
	}
	if records == nil {
		records = []models.ComputationRecord{}
	}
	return &Page{Total: total, Limit: limit, Offset: offset, Records: records}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ComputationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.store.GetComputation(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		s.logger.Error().Err(err).Str("id", id).Msg("failed to load computation")
		return nil, ErrStorageUnavailable
	}
	return rec, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("storage ping failed")
		return ErrStorageUnavailable
	}
	return nil
}
