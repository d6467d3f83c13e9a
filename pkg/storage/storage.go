package storage

import (
	"context"
	"errors"

	"github.com/tb0hdan/numlab/pkg/models"
)

var ErrNotFound = errors.New("computation not found")

// Storage is an append-only store of computation records. Records are never
// updated or deleted once created.
type Storage interface {
	// Computation record operations
	CreateComputation(ctx context.Context, rec *models.ComputationRecord) error
	GetComputation(ctx context.Context, id string) (*models.ComputationRecord, error)
	ListComputations(ctx context.Context) ([]models.ComputationRecord, error)
	GetComputations(ctx context.Context, limit, offset int) ([]models.ComputationRecord, int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
