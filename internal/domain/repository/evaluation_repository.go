package repository

import (
	"context"

	"airfare-service/internal/domain/entity"
)

// EvaluationRepository defines the interface for evaluation history
type EvaluationRepository interface {
	SaveRun(ctx context.Context, run *entity.EvaluationRun) error
}
