package repository

import (
	"context"
	"time"

	"airfare-service/internal/domain/entity"
	"airfare-service/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPredictionRepository implements PredictionRepository
type MongoPredictionRepository struct {
	collection *mongo.Collection
}

// NewMongoPredictionRepository creates a new prediction repository
func NewMongoPredictionRepository(db *mongo.Database) repository.PredictionRepository {
	collection := db.Collection("predictions")

	// Index on createdAt for time-range queries
	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"createdAt": -1}},
		{Keys: bson.D{
			{Key: "model", Value: 1},
			{Key: "createdAt", Value: -1},
		}},
	})

	return &MongoPredictionRepository{
		collection: collection,
	}
}

// Save inserts a prediction record
func (r *MongoPredictionRepository) Save(ctx context.Context, record *entity.PredictionRecord) error {
	prepareRecord(record)
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func prepareRecord(record *entity.PredictionRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
}

// NoopPredictionRepository drops records; used when MongoDB is not configured
type NoopPredictionRepository struct{}

// NewNoopPredictionRepository creates a prediction repository that stores nothing
func NewNoopPredictionRepository() repository.PredictionRepository {
	return NoopPredictionRepository{}
}

// Save assigns the ID and timestamp and discards the record
func (NoopPredictionRepository) Save(ctx context.Context, record *entity.PredictionRecord) error {
	prepareRecord(record)
	return nil
}
