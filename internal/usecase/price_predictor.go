package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airfare-service/internal/domain/entity"
	"airfare-service/internal/domain/repository"
	"airfare-service/pkg/features"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/metrics"
	"airfare-service/pkg/model"
	"airfare-service/pkg/scaler"
	"airfare-service/pkg/utils"
)

// ErrNonFinitePrediction is returned when the model yields NaN or Inf
var ErrNonFinitePrediction = errors.New("model returned a non-finite prediction")

// Today returns the current calendar date at midnight UTC
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PricePredictor serves single-row predictions with the saved scaler and model
type PricePredictor struct {
	bundle    *model.Predictor
	scaler    *scaler.StandardScaler
	predRepo  repository.PredictionRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
	reference func() time.Time
}

// NewPricePredictor creates a new predictor. reference supplies the days_left
// reference date per request; metrics may be nil.
func NewPricePredictor(
	bundle *model.Predictor,
	sc *scaler.StandardScaler,
	predRepo repository.PredictionRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	reference func() time.Time,
) *PricePredictor {
	if reference == nil {
		reference = Today
	}
	return &PricePredictor{
		bundle:    bundle,
		scaler:    sc,
		predRepo:  predRepo,
		metrics:   metrics,
		logger:    logger,
		reference: reference,
	}
}

// Predict derives the features of req, standardizes them and predicts with the best model
func (pp *PricePredictor) Predict(ctx context.Context, req entity.FareRequest) (*entity.Prediction, error) {
	start := time.Now()
	record := &entity.PredictionRecord{Request: req, Model: pp.bundle.Best}

	price, scaled, err := pp.predict(req)
	record.Features = scaled
	record.LatencyMs = float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		record.Error = err.Error()
		pp.logger.Warn("Prediction failed", "error", err, "request", req)
		if pp.metrics != nil {
			pp.metrics.ErrorsCount.WithLabelValues("predict").Inc()
		}
	} else {
		record.Prediction = price
		if pp.metrics != nil {
			pp.metrics.PredictionsServed.Inc()
			pp.metrics.PredictionTime.Observe(time.Since(start).Seconds())
		}
	}

	if saveErr := pp.predRepo.Save(ctx, record); saveErr != nil {
		pp.logger.Error("Failed to store prediction record", "error", saveErr)
	}

	if err != nil {
		return nil, err
	}
	return &entity.Prediction{Price: price, Model: pp.bundle.Best}, nil
}

func (pp *PricePredictor) predict(req entity.FareRequest) (float64, map[string]float64, error) {
	f, err := features.Derive(features.RawFare{
		Class:         req.Class,
		Airline:       req.Airline,
		Date:          req.Date,
		DepartureCity: req.DepartureCity,
		ArrivalCity:   req.ArrivalCity,
		DepTime:       req.DepTime,
		ArrTime:       req.ArrTime,
		Stop:          req.Stop,
	}, features.Options{
		DateLayout:         utils.FORM_DATE_LAYOUT,
		ReferenceDate:      pp.reference(),
		AcceptNumericStops: true,
	})
	if err != nil {
		return 0, nil, err
	}

	scaled, err := pp.scaler.TransformValues(f.NumericValues())
	if err != nil {
		return 0, nil, err
	}

	df := features.Frame([]features.Features{f}, false)
	for _, col := range pp.scaler.Columns {
		df = df.Mutate(utils.FloatSeries(col, []float64{scaled[col]}))
	}
	if df.Err != nil {
		return 0, scaled, fmt.Errorf("failed to build model input: %w", df.Err)
	}

	preds, err := pp.bundle.PredictBest(df)
	if err != nil {
		return 0, scaled, err
	}
	if len(preds) != 1 || !model.IsFinite(preds) {
		return 0, scaled, ErrNonFinitePrediction
	}
	return preds[0], scaled, nil
}
