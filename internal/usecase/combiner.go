package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"airfare-service/pkg/features"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Fare classes and the raw files they come from
const (
	ClassEconomy  = "economy"
	ClassBusiness = "business"
)

// Combiner merges the per-class raw listings into one file
type Combiner struct {
	dataDir    string
	outputPath string
	logger     logger.Logger
}

// NewCombiner creates a combiner reading <dataDir>/economy.csv and <dataDir>/business.csv
func NewCombiner(dataDir, outputPath string, logger logger.Logger) *Combiner {
	return &Combiner{
		dataDir:    dataDir,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Combine tags every row with its class and concatenates economy then business
func (c *Combiner) Combine(ctx context.Context) (int, error) {
	var combined dataframe.DataFrame
	for i, class := range []string{ClassEconomy, ClassBusiness} {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		path := filepath.Join(c.dataDir, class+".csv")
		df, err := utils.ReadCSV(path)
		if err != nil {
			return 0, fmt.Errorf("combine: %w", err)
		}
		if utils.HasColumn(df, features.ColClass) {
			return 0, fmt.Errorf("combine: %s already has a %q column", path, features.ColClass)
		}
		df = withClass(df, class)
		c.logger.Info("Loaded raw listings", "class", class, "rows", df.Nrow())

		if i == 0 {
			combined = df
			continue
		}
		combined = combined.RBind(df)
		if combined.Err != nil {
			return 0, fmt.Errorf("combine: %s does not match the economy columns: %w", path, combined.Err)
		}
	}

	if err := utils.WriteCSV(combined, c.outputPath); err != nil {
		return 0, fmt.Errorf("combine: %w", err)
	}
	c.logger.Info("Wrote combined listings", "path", c.outputPath, "rows", combined.Nrow())
	return combined.Nrow(), nil
}

func withClass(df dataframe.DataFrame, class string) dataframe.DataFrame {
	values := make([]string, df.Nrow())
	for i := range values {
		values[i] = class
	}
	return df.Mutate(series.New(values, series.String, features.ColClass))
}
