package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func TestCSVRoundTripKeepsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fares.csv")
	content := "airline,stop,price\nSpiceJet,non-stop,\"5,953\"\nVistara,1-stop,007\n"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	df, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("dims = %dx%d", df.Nrow(), df.Ncol())
	}

	prices, err := Column(df, "price")
	if err != nil {
		t.Fatal(err)
	}
	if prices[0] != "5,953" || prices[1] != "007" {
		t.Errorf("price records = %v, want raw strings", prices)
	}

	if _, err := Column(df, "missing"); err == nil {
		t.Error("expected error for missing column")
	}

	out := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	if err := WriteCSV(df, out); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	again, err := ReadCSV(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := again.Col("price").Records(); got[0] != "5,953" {
		t.Errorf("round trip price = %v", got)
	}
}

func TestFloats(t *testing.T) {
	df := dataframe.New(
		FloatSeries("x", []float64{1.5, -2, 493.8}),
		series.New([]string{"1", "oops", "3"}, series.String, "bad"),
	)

	got, err := Floats(df, "x")
	if err != nil {
		t.Fatalf("Floats error: %v", err)
	}
	want := []float64{1.5, -2, 493.8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Floats[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := Floats(df, "bad"); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveToExcel(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"RandomForest", "GradientBoosting"}, series.String, "model"),
		FloatSeries("rmse", []float64{10.5, 9.25}),
	)
	path := filepath.Join(t.TempDir(), "report", "metrics.xlsx")
	if err := SaveToExcel(df, path, "metrics"); err != nil {
		t.Fatalf("SaveToExcel error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}
