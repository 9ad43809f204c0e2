package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"airfare-service/internal/domain/entity"
	"airfare-service/pkg/logger"
	"airfare-service/templates"

	"github.com/go-chi/chi/v5"
)

// FarePredictor predicts the price of one fare request
type FarePredictor interface {
	Predict(ctx context.Context, req entity.FareRequest) (*entity.Prediction, error)
}

// Handler serves the form and the prediction endpoint
type Handler struct {
	predictor FarePredictor
	logger    logger.Logger
}

// NewHandler creates a new web handler
func NewHandler(predictor FarePredictor, logger logger.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		logger:    logger,
	}
}

// RegisterRoutes mounts the handler's routes on r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/predict", h.Predict)
	r.Get("/health", h.HealthCheck)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Index renders the request form
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := templates.Index.Execute(&buf, templates.DefaultIndexData()); err != nil {
		h.logger.Error("Failed to render index", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Predict answers {"prediction": x} or a 500 with the failure details
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, err)
		return
	}

	req := entity.FareRequest{
		Class:         r.PostForm.Get("class"),
		Date:          r.PostForm.Get("date"),
		Airline:       r.PostForm.Get("airline"),
		DepTime:       r.PostForm.Get("dep_time"),
		DepartureCity: r.PostForm.Get("departure_city"),
		Stop:          r.PostForm.Get("stop"),
		ArrTime:       r.PostForm.Get("arr_time"),
		ArrivalCity:   r.PostForm.Get("arrival_city"),
	}

	pred, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   "Prediction failed",
		Details: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
