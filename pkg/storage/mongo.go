package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tb0hdan/numlab/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	DefaultDatabaseName   = "numlab"
	DefaultConnectTimeout = 5 * time.Second
	computationCollection = "computations"
)

// MongoStorage keeps computation records in a single MongoDB collection.
// Identifiers are UUIDv7 strings stored as _id, so sorting on _id yields
// insertion order.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(ctx context.Context, cfg Config) (*MongoStorage, error) {
	connStr, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}

	dbName := connStr.Database
	if dbName == "" {
		dbName = cfg.DatabaseName
	}
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(dbName).Collection(computationCollection),
	}, nil
}

func (s *MongoStorage) CreateComputation(ctx context.Context, rec *models.ComputationRecord) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		// Mongo stores milliseconds; truncate so the returned record matches what is read back.
		rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	_, err := s.collection.InsertOne(ctx, rec)
	return err
}

func (s *MongoStorage) GetComputation(ctx context.Context, id string) (*models.ComputationRecord, error) {
	var rec models.ComputationRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStorage) ListComputations(ctx context.Context) ([]models.ComputationRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	records := []models.ComputationRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoStorage) GetComputations(ctx context.Context, limit, offset int) ([]models.ComputationRecord, int64, error) {
	total, err := s.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if offset > 0 {
		findOpts.SetSkip(int64(offset))
	}

	cursor, err := s.collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, 0, err
	}

	records := []models.ComputationRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *MongoStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
