package repository

import (
	"context"
	"time"

	"airfare-service/internal/domain/entity"
	"airfare-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEvaluationRepository implements the EvaluationRepository interface
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRepository creates a new GORM evaluation repository and migrates its tables
func NewGormEvaluationRepository(db *gorm.DB) (repository.EvaluationRepository, error) {
	if err := db.AutoMigrate(&EvaluationRuns{}, &ModelScores{}); err != nil {
		return nil, err
	}
	return &GormEvaluationRepository{
		db: db,
	}, nil
}

// EvaluationRuns GORM model for database mapping
type EvaluationRuns struct {
	ID        string        `gorm:"column:id;primaryKey"`
	BestModel string        `gorm:"column:best_model"`
	TrainRows int           `gorm:"column:train_rows"`
	TestRows  int           `gorm:"column:test_rows"`
	Scores    []ModelScores `gorm:"foreignKey:RunID"`
	CreatedAt time.Time     `gorm:"index"`
}

// TableName overrides the default table name
func (EvaluationRuns) TableName() string {
	return "t_evaluation_runs"
}

// ModelScores GORM model for database mapping
type ModelScores struct {
	ID    uint    `gorm:"primaryKey"`
	RunID string  `gorm:"column:run_id;index"`
	Model string  `gorm:"column:model"`
	MAE   float64 `gorm:"column:mae"`
	RMSE  float64 `gorm:"column:rmse"`
	R2    float64 `gorm:"column:r2"`
}

// TableName overrides the default table name
func (ModelScores) TableName() string {
	return "t_model_scores"
}

// SaveRun stores the run together with its scores
func (r *GormEvaluationRepository) SaveRun(ctx context.Context, run *entity.EvaluationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	// Convert domain entity to GORM model
	row := EvaluationRuns{
		ID:        run.ID,
		BestModel: run.BestModel,
		TrainRows: run.TrainRows,
		TestRows:  run.TestRows,
		CreatedAt: run.CreatedAt,
	}
	for _, s := range run.Scores {
		row.Scores = append(row.Scores, ModelScores{
			RunID: run.ID,
			Model: s.Model,
			MAE:   s.MAE,
			RMSE:  s.RMSE,
			R2:    s.R2,
		})
	}

	return r.db.WithContext(ctx).Create(&row).Error
}

// NoopEvaluationRepository drops runs; used when PostgreSQL is not configured
type NoopEvaluationRepository struct{}

// NewNoopEvaluationRepository creates an evaluation repository that stores nothing
func NewNoopEvaluationRepository() repository.EvaluationRepository {
	return NoopEvaluationRepository{}
}

// SaveRun assigns the ID and discards the run
func (NoopEvaluationRepository) SaveRun(ctx context.Context, run *entity.EvaluationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return nil
}
