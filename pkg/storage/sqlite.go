package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tb0hdan/numlab/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteBusyTimeoutMs = 5000

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	// URI selects the backend: mongodb:// and mongodb+srv:// open MongoDB,
	// sqlite:// or a bare file path open SQLite.
	URI string
	// DatabasePath is used by the SQLite backend when URI is empty.
	DatabasePath string
	// DatabaseName overrides the Mongo database when the URI carries none.
	DatabaseName string
	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration
	Debug          bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	if dir := filepath.Dir(cfg.DatabasePath); !strings.HasPrefix(cfg.DatabasePath, ":memory:") && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DatabasePath)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// SQLite has a single writer; one pooled connection serialises concurrent inserts.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	// Auto-migrate schema
	if err := database.AutoMigrate(&models.ComputationRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("%s?_busy_timeout=%d", path, sqliteBusyTimeoutMs)
}

func (s *SQLiteStorage) CreateComputation(ctx context.Context, rec *models.ComputationRecord) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}
		rec.ID = id.String()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *SQLiteStorage) GetComputation(ctx context.Context, id string) (*models.ComputationRecord, error) {
	var rec models.ComputationRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStorage) ListComputations(ctx context.Context) ([]models.ComputationRecord, error) {
	records := []models.ComputationRecord{}
	err := s.db.WithContext(ctx).Order("seq ASC").Find(&records).Error
	return records, err
}

func (s *SQLiteStorage) GetComputations(ctx context.Context, limit, offset int) ([]models.ComputationRecord, int64, error) {
	records := []models.ComputationRecord{}
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.ComputationRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&records).Error
	return records, total, err
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
