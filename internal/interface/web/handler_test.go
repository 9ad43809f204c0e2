package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"airfare-service/internal/domain/entity"
	"airfare-service/internal/infrastructure/router"
	"airfare-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

type stubPredictor struct {
	got entity.FareRequest
}

func (s *stubPredictor) Predict(ctx context.Context, req entity.FareRequest) (*entity.Prediction, error) {
	s.got = req
	switch req.Stop {
	case "0", "1", "2":
		return &entity.Prediction{Price: 412.75, Model: "WeightedEnsemble"}, nil
	case "panic":
		panic("boom")
	}
	return nil, fmt.Errorf("field stop: unparseable stop description: %q", req.Stop)
}

func newTestServer(p FarePredictor) *httptest.Server {
	log := logger.NewNopLogger()
	return httptest.NewServer(router.NewRouter(log, prometheus.NewRegistry(), NewHandler(p, log)))
}

func formValues(stop string) url.Values {
	return url.Values{
		"class":          {"economy"},
		"date":           {"2024-03-16"},
		"airline":        {"Vistara"},
		"dep_time":       {"23:50"},
		"departure_city": {"Delhi"},
		"stop":           {stop},
		"arr_time":       {"00:10"},
		"arrival_city":   {"Mumbai"},
	}
}

func TestIndexServesForm(t *testing.T) {
	srv := newTestServer(&stubPredictor{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := readAll(t, resp)
	for _, field := range []string{`name="class"`, `name="stop"`, `name="arrival_city"`, `action="/predict"`} {
		if !strings.Contains(body, field) {
			t.Errorf("form is missing %s", field)
		}
	}
}

func TestPredictReturnsJSON(t *testing.T) {
	stub := &stubPredictor{}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/predict", formValues("1"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	pred, ok := body["prediction"].(float64)
	if !ok || math.IsNaN(pred) || math.IsInf(pred, 0) {
		t.Fatalf("prediction = %v", body["prediction"])
	}
	if pred != 412.75 {
		t.Errorf("prediction = %v", pred)
	}
	if len(body) != 1 {
		t.Errorf("unexpected extra fields: %v", body)
	}

	if stub.got.DepartureCity != "Delhi" || stub.got.ArrTime != "00:10" || stub.got.Date != "2024-03-16" {
		t.Errorf("form not mapped: %+v", stub.got)
	}
}

func TestPredictFailureReturns500(t *testing.T) {
	srv := newTestServer(&stubPredictor{})
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/predict", formValues("maybe"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error != "Prediction failed" {
		t.Errorf("error = %q", body.Error)
	}
	if body.Details == "" {
		t.Error("details must not be empty")
	}
}

func TestPanicDoesNotKillServer(t *testing.T) {
	srv := newTestServer(&stubPredictor{})
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/predict", formValues("panic"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || readAll(t, resp) != "Healthy" {
		t.Error("server unhealthy after a panicking request")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubPredictor{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
