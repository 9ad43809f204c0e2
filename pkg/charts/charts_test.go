package charts

import (
	"os"
	"path/filepath"
	"testing"

	"airfare-service/pkg/model"
)

func TestMetricChartWritesPNG(t *testing.T) {
	scores := []model.Scores{
		{Model: model.NameLinear, MAE: 12.5, RMSE: 20.1, R2: 0.71},
		{Model: model.NameForest, MAE: 6.2, RMSE: 11.0, R2: 0.93},
		{Model: model.NameEnsemble, MAE: 5.9, RMSE: 10.4, R2: 0.94},
	}

	dir := t.TempDir()
	for _, metric := range []string{MetricMAE, MetricRMSE, MetricR2} {
		path := filepath.Join(dir, metric+".png")
		if err := MetricChart(metric, scores, path); err != nil {
			t.Fatalf("MetricChart(%s) error: %v", metric, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("chart %s not written: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("chart %s is empty", path)
		}
	}
}

func TestMetricChartErrors(t *testing.T) {
	dir := t.TempDir()
	if err := MetricChart(MetricMAE, nil, filepath.Join(dir, "x.png")); err == nil {
		t.Error("expected error for empty scores")
	}
	scores := []model.Scores{{Model: "m", MAE: 1}}
	if err := MetricChart("mape", scores, filepath.Join(dir, "y.png")); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestImportanceChartWritesPNG(t *testing.T) {
	imps := []model.Importance{
		{Feature: "days_left", Importance: 40},
		{Feature: "class", Importance: 300},
		{Feature: "airline", Importance: 5},
	}
	path := filepath.Join(t.TempDir(), "importance_GradientBoosting.png")
	if err := ImportanceChart(model.NameBoosting, imps, path); err != nil {
		t.Fatalf("ImportanceChart error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("chart not written: %v", err)
	}
}
