// internal/domain/entity/evaluation.go
package entity

import (
	"time"
)

// EvaluationRun summarizes one evaluation of a trained bundle
type EvaluationRun struct {
	ID        string
	BestModel string
	TrainRows int
	TestRows  int
	Scores    []ModelScore
	CreatedAt time.Time
}

// ModelScore holds held-out metrics of one model
type ModelScore struct {
	Model string
	MAE   float64
	RMSE  float64
	R2    float64
}
