// Package charts renders model comparison charts as PNG files with gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"airfare-service/pkg/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Metric names accepted by MetricChart
const (
	MetricMAE  = "mae"
	MetricRMSE = "rmse"
	MetricR2   = "r2"
)

var barColor = color.RGBA{R: 50, G: 110, B: 200, A: 255}

// MetricValue picks one metric out of a score row
func MetricValue(metric string, s model.Scores) (float64, error) {
	switch strings.ToLower(metric) {
	case MetricMAE:
		return s.MAE, nil
	case MetricRMSE:
		return s.RMSE, nil
	case MetricR2:
		return s.R2, nil
	}
	return 0, fmt.Errorf("charts: unknown metric %q", metric)
}

// MetricChart draws one bar per model for the given metric
func MetricChart(metric string, scores []model.Scores, path string) error {
	if len(scores) == 0 {
		return errors.New("charts: no scores to plot")
	}

	values := make(plotter.Values, len(scores))
	names := make([]string, len(scores))
	for i, s := range scores {
		v, err := MetricValue(metric, s)
		if err != nil {
			return err
		}
		values[i] = v
		names[i] = s.Model
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Model comparison: %s", strings.ToUpper(metric))
	p.Y.Label.Text = strings.ToUpper(metric)

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("charts: %w", err)
	}
	bars.Color = barColor
	p.Add(bars)
	p.NominalX(names...)

	return save(p, 6*vg.Inch, 4*vg.Inch, path)
}

// ImportanceChart draws horizontal bars of feature importances for one model
func ImportanceChart(modelName string, importances []model.Importance, path string) error {
	if len(importances) == 0 {
		return errors.New("charts: no importances to plot")
	}

	// bottom to top, so the most important feature ends up on top
	n := len(importances)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, imp := range importances {
		values[n-1-i] = imp.Importance
		names[n-1-i] = imp.Feature
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Permutation importance: %s", modelName)
	p.X.Label.Text = "RMSE increase"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("charts: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	p.Add(bars)
	p.NominalY(names...)

	return save(p, 7*vg.Inch, vg.Length(n)*0.35*vg.Inch+vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("charts: failed to create directory: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("charts: failed to save %s: %w", path, err)
	}
	return nil
}
