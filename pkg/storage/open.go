package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedURI = errors.New("unsupported database uri")

// Open picks a backend from cfg.URI. An empty URI falls back to
// cfg.DatabasePath on SQLite.
func Open(ctx context.Context, cfg Config) (Storage, error) {
	uri := strings.TrimSpace(cfg.URI)
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return NewMongoStorage(ctx, cfg)
	case strings.HasPrefix(uri, "sqlite://"):
		cfg.DatabasePath = strings.TrimPrefix(uri, "sqlite://")
	case uri == "":
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, schemeOf(uri))
	default:
		cfg.DatabasePath = uri
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrUnsupportedURI)
	}
	return NewSQLiteStorage(cfg)
}

func schemeOf(uri string) string {
	scheme, _, _ := strings.Cut(uri, "://")
	return scheme
}
