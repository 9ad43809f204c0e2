// internal/domain/entity/prediction.go
package entity

import (
	"time"
)

// FareRequest is one serving request as posted by the form
type FareRequest struct {
	Class         string `json:"class" bson:"class"`
	Date          string `json:"date" bson:"date"`
	Airline       string `json:"airline" bson:"airline"`
	DepTime       string `json:"dep_time" bson:"depTime"`
	DepartureCity string `json:"departure_city" bson:"departureCity"`
	Stop          string `json:"stop" bson:"stop"`
	ArrTime       string `json:"arr_time" bson:"arrTime"`
	ArrivalCity   string `json:"arrival_city" bson:"arrivalCity"`
}

// Prediction is the outcome of a successful request
type Prediction struct {
	Price float64 `json:"prediction"`
	Model string  `json:"-"`
}

type PredictionRecord struct {
	ID         string             `bson:"_id"` // uuid
	Request    FareRequest        `bson:"request"`
	Features   map[string]float64 `bson:"features,omitempty"` // standardized numeric inputs
	Prediction float64            `bson:"prediction"`
	Model      string             `bson:"model"`
	Error      string             `bson:"error,omitempty"`
	LatencyMs  float64            `bson:"latencyMs"`
	CreatedAt  time.Time          `bson:"createdAt"`
}
