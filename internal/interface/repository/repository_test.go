package repository

import (
	"context"
	"testing"

	"airfare-service/internal/domain/entity"
)

func TestNoopPredictionRepositoryAssignsIdentity(t *testing.T) {
	repo := NewNoopPredictionRepository()
	rec := &entity.PredictionRecord{Prediction: 420.5, Model: "WeightedEnsemble"}

	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	id := rec.ID
	repo.Save(context.Background(), rec)
	if rec.ID != id {
		t.Errorf("existing ID overwritten: %s -> %s", id, rec.ID)
	}
}

func TestNoopEvaluationRepository(t *testing.T) {
	run := &entity.EvaluationRun{BestModel: "GradientBoosting"}
	if err := NewNoopEvaluationRepository().SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if run.ID == "" {
		t.Error("expected ID to be assigned")
	}
}

func TestGormTableNames(t *testing.T) {
	if got := (EvaluationRuns{}).TableName(); got != "t_evaluation_runs" {
		t.Errorf("EvaluationRuns table = %q", got)
	}
	if got := (ModelScores{}).TableName(); got != "t_model_scores" {
		t.Errorf("ModelScores table = %q", got)
	}
}
