package model

import (
	"fmt"
	"sort"
	"strconv"

	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
)

// ColumnKind tells how a source column is encoded
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

// EncodedColumn describes one source column and where it lands in a row
type EncodedColumn struct {
	Name       string
	Kind       ColumnKind
	Categories []string // sorted; only for categorical columns
	Offset     int
}

// Width is the number of encoded features produced by the column
func (c EncodedColumn) Width() int {
	if c.Kind == Categorical {
		return len(c.Categories)
	}
	return 1
}

// Encoder maps a string frame to dense float rows. Numeric columns pass
// through and categorical columns are one-hot encoded.
type Encoder struct {
	Columns []EncodedColumn
	Width   int
}

// FitEncoder learns the column kinds and category vocabularies of df. A column
// is numeric when every value parses as a float.
func FitEncoder(df dataframe.DataFrame, exclude ...string) (*Encoder, error) {
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("encoder: empty frame")
	}

	enc := &Encoder{}
	for _, name := range df.Names() {
		if utils.Contains(exclude, name) {
			continue
		}
		records := df.Col(name).Records()

		col := EncodedColumn{Name: name, Kind: Numeric, Offset: enc.Width}
		if !allNumeric(records) {
			col.Kind = Categorical
			col.Categories = vocabulary(records)
		}
		enc.Columns = append(enc.Columns, col)
		enc.Width += col.Width()
	}

	if enc.Width == 0 {
		return nil, fmt.Errorf("encoder: no feature columns")
	}
	return enc, nil
}

// Encode turns df into rows of Width floats. Columns are addressed by name;
// unseen categories encode as all zeros.
func (e *Encoder) Encode(df dataframe.DataFrame) ([][]float64, error) {
	n := df.Nrow()
	X := make([][]float64, n)
	backing := make([]float64, n*e.Width)
	for i := range X {
		X[i] = backing[i*e.Width : (i+1)*e.Width]
	}

	for _, col := range e.Columns {
		records, err := utils.Column(df, col.Name)
		if err != nil {
			return nil, fmt.Errorf("encoder: %w", err)
		}

		switch col.Kind {
		case Numeric:
			for i, r := range records {
				v, err := strconv.ParseFloat(r, 64)
				if err != nil {
					return nil, fmt.Errorf("encoder: column %q row %d: %q is not numeric", col.Name, i, r)
				}
				X[i][col.Offset] = v
			}
		case Categorical:
			index := make(map[string]int, len(col.Categories))
			for k, c := range col.Categories {
				index[c] = k
			}
			for i, r := range records {
				if k, ok := index[r]; ok {
					X[i][col.Offset+k] = 1
				}
			}
		}
	}
	return X, nil
}

// FeatureNames returns a readable name per encoded feature
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.Width)
	for _, col := range e.Columns {
		if col.Kind == Numeric {
			names = append(names, col.Name)
			continue
		}
		for _, c := range col.Categories {
			names = append(names, col.Name+"="+c)
		}
	}
	return names
}

// Groups maps each source column to its encoded feature indices
func (e *Encoder) Groups() map[string][]int {
	groups := make(map[string][]int, len(e.Columns))
	for _, col := range e.Columns {
		idx := make([]int, col.Width())
		for k := range idx {
			idx[k] = col.Offset + k
		}
		groups[col.Name] = idx
	}
	return groups
}

func allNumeric(records []string) bool {
	for _, r := range records {
		if _, err := strconv.ParseFloat(r, 64); err != nil {
			return false
		}
	}
	return true
}

func vocabulary(records []string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
