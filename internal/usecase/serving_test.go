package usecase

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"airfare-service/internal/infrastructure/router"
	"airfare-service/internal/interface/web"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/metrics"
	"airfare-service/pkg/model"
	"airfare-service/pkg/scaler"

	"github.com/prometheus/client_golang/prometheus"
)

// TestServeSavedArtifacts posts the web form through the router to a
// predictor built from the artifacts written by the offline stages.
func TestServeSavedArtifacts(t *testing.T) {
	dir, _, _ := trainedArtifacts(t)

	sc, err := scaler.Load(filepath.Join(dir, "scaler.gob"))
	if err != nil {
		t.Fatalf("Load scaler: %v", err)
	}
	bundle, err := model.LoadPredictor(filepath.Join(dir, "model.gob"))
	if err != nil {
		t.Fatalf("LoadPredictor: %v", err)
	}

	log := logger.NewNopLogger()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("airfare_test", reg)
	records := &recordingPredictionRepo{}
	pp := NewPricePredictor(bundle, sc, records, m, log, func() time.Time { return sc.ReferenceDate })

	srv := httptest.NewServer(router.NewRouter(log, reg, web.NewHandler(pp, log)))
	defer srv.Close()

	form := url.Values{
		"class":          {ClassEconomy},
		"date":           {sc.ReferenceDate.AddDate(0, 0, 10).Format("2006-01-02")},
		"airline":        {"Indigo"},
		"dep_time":       {"23:50"},
		"departure_city": {"Delhi"},
		"stop":           {"0"},
		"arr_time":       {"00:10"},
		"arrival_city":   {"Mumbai"},
	}

	resp, err := http.PostForm(srv.URL+"/predict", form)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var ok map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	pred, found := ok["prediction"]
	if !found || math.IsNaN(pred) || math.IsInf(pred, 0) {
		t.Fatalf("prediction = %v", ok)
	}

	form.Set("stop", "maybe")
	failed, err := http.PostForm(srv.URL+"/predict", form)
	if err != nil {
		t.Fatal(err)
	}
	defer failed.Body.Close()
	if failed.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", failed.StatusCode)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(failed.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error != "Prediction failed" || body.Details == "" {
		t.Errorf("error body = %+v", body)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	served := -1.0
	for _, f := range families {
		if f.GetName() == "airfare_test_predictions_served_total" {
			served = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if served != 1 {
		t.Errorf("predictions served = %v, want 1", served)
	}
	if len(records.records) != 2 {
		t.Errorf("stored %d records, want 2", len(records.records))
	}
}
