package server

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/numlab/pkg/history"
	"github.com/tb0hdan/numlab/pkg/models"
	"github.com/tb0hdan/numlab/pkg/storage"
)

func setupTestStorage(t *testing.T) (storage.Storage, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "server-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	cfg := storage.Config{
		DatabasePath: tmpFile.Name(),
		Debug:        false,
	}

	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return store, cleanup
}

func testImpl() *mcp.Implementation {
	return &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}
}

func TestNewServer(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	srv := NewServer(testImpl(), store, zerolog.Nop(), time.Second)

	if srv == nil {
		t.Fatal("expected non-nil server")
	}
	if srv.storage == nil {
		t.Fatal("expected non-nil storage in server")
	}
	if srv.History() == nil {
		t.Fatal("expected non-nil history service")
	}
	if srv.version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", srv.version)
	}
}

func TestNewServer_NilStorage(t *testing.T) {
	srv := NewServer(testImpl(), nil, zerolog.Nop(), time.Second)

	if srv == nil {
		t.Fatal("expected non-nil server even with nil storage")
	}
	if srv.storage != nil {
		t.Error("expected nil storage when nil is passed")
	}
}

func TestServer_Storage(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	srv := NewServer(testImpl(), store, zerolog.Nop(), time.Second)

	retrievedStorage := srv.Storage()
	if retrievedStorage == nil {
		t.Fatal("Storage() returned nil")
	}

	// Verify it's the same storage by using it
	ctx := context.Background()
	rec := &models.ComputationRecord{
		Equation: "x^2-4",
		B:        5,
		Epsilon:  0.0001,
	}
	if err := retrievedStorage.CreateComputation(ctx, rec); err != nil {
		t.Fatalf("failed to use retrieved storage: %v", err)
	}

	records, err := srv.History().List(ctx)
	if err != nil {
		t.Fatalf("failed to list through history service: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestServer_Shutdown(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	srv := NewServer(testImpl(), store, zerolog.Nop(), time.Second)

	ctx := context.Background()
	err := srv.Shutdown(ctx)
	if err != nil {
		t.Fatalf("Shutdown() returned error: %v", err)
	}
	if err := store.Ping(ctx); err == nil {
		t.Error("expected storage to be closed after Shutdown()")
	}
}

func TestServer_Shutdown_NilStorage(t *testing.T) {
	srv := NewServer(testImpl(), nil, zerolog.Nop(), time.Second)

	ctx := context.Background()
	err := srv.Shutdown(ctx)
	if err != nil {
		t.Fatalf("Shutdown() with nil storage returned error: %v", err)
	}
}

func TestServer_ShutdownDrainsBackgroundSaves(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "server-drain-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	cfg := storage.Config{DatabasePath: tmpFile.Name()}
	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	srv := NewServer(testImpl(), store, zerolog.Nop(), time.Second)
	for i := 0; i < 5; i++ {
		req := history.SaveRequest{
			Equation: "x^2-4",
			A:        history.NumberOf(float64(i)),
			B:        history.NumberOf(5),
			Epsilon:  history.NumberOf(0.001),
		}
		if err := srv.History().SaveAsync(req); err != nil {
			t.Fatalf("SaveAsync() returned error: %v", err)
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() returned error: %v", err)
	}

	reopened, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.ListComputations(context.Background())
	if err != nil {
		t.Fatalf("failed to list computations: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records written before shutdown, got %d", len(records))
	}
}
