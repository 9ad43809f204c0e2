package repository

import (
	"context"

	"airfare-service/internal/domain/entity"
)

// PredictionRepository defines the interface for the prediction audit log
type PredictionRepository interface {
	Save(ctx context.Context, record *entity.PredictionRecord) error
}
