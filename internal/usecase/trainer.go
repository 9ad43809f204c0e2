package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"airfare-service/internal/domain/entity"
	"airfare-service/internal/domain/repository"
	"airfare-service/pkg/charts"
	"airfare-service/pkg/features"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/model"
	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// importanceRows caps the rows scored by permutation importance
const importanceRows = 5000

// ErrInvalidRatio rejects split ratios outside (0, 1)
var ErrInvalidRatio = errors.New("split ratio must be between 0 and 1")

// TrainerOptions configures a Trainer
type TrainerOptions struct {
	InputPath  string
	ModelPath  string
	ChartsDir  string
	ReportPath string
	TestRatio  float64
	Seed       int64
	Model      model.TrainOptions
	Importance bool
}

// Trainer fits or loads the model bundle and evaluates it on a held-out split
type Trainer struct {
	opts     TrainerOptions
	evalRepo repository.EvaluationRepository
	logger   logger.Logger
}

// NewTrainer creates a new trainer
func NewTrainer(opts TrainerOptions, evalRepo repository.EvaluationRepository, logger logger.Logger) *Trainer {
	return &Trainer{
		opts:     opts,
		evalRepo: evalRepo,
		logger:   logger,
	}
}

// Train splits the standardized data and fits a new bundle, or loads the saved
// one when retrain is false and it exists. The test split is returned for Evaluate.
func (t *Trainer) Train(ctx context.Context, retrain bool) (*model.Predictor, dataframe.DataFrame, error) {
	if r := t.opts.TestRatio; !(r > 0 && r < 1) {
		return nil, dataframe.DataFrame{}, fmt.Errorf("train: test ratio %v: %w", r, ErrInvalidRatio)
	}
	if r := t.opts.Model.ValidationRatio; !(r >= 0 && r < 1) {
		return nil, dataframe.DataFrame{}, fmt.Errorf("train: validation ratio %v: %w", r, ErrInvalidRatio)
	}

	df, err := utils.ReadCSV(t.opts.InputPath)
	if err != nil {
		return nil, dataframe.DataFrame{}, fmt.Errorf("train: %w", err)
	}

	trainIdx, testIdx := model.TrainTestSplit(df.Nrow(), t.opts.TestRatio, t.opts.Seed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, dataframe.DataFrame{}, fmt.Errorf("train: %d rows is too few to split", df.Nrow())
	}
	train, test := df.Subset(trainIdx), df.Subset(testIdx)
	t.logger.Info("Split dataset", "train", train.Nrow(), "test", test.Nrow())

	if !retrain {
		if _, err := os.Stat(t.opts.ModelPath); err == nil {
			p, err := model.LoadPredictor(t.opts.ModelPath)
			if err != nil {
				return nil, dataframe.DataFrame{}, fmt.Errorf("train: %w", err)
			}
			t.logger.Info("Loaded existing model", "path", t.opts.ModelPath, "best", p.Best, "trainedAt", p.TrainedAt)
			return p, test, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, dataframe.DataFrame{}, err
	}

	start := time.Now()
	p, err := model.Train(train, features.ColPrice, t.opts.Model)
	if err != nil {
		return nil, dataframe.DataFrame{}, err
	}
	t.logger.Info("Trained models",
		"duration", time.Since(start).String(),
		"best", p.Best,
		"validationRmse", p.ValidationRMSE,
		"ensembleWeights", p.Ensemble.Weights,
	)

	if err := p.Save(t.opts.ModelPath); err != nil {
		return nil, dataframe.DataFrame{}, fmt.Errorf("train: %w", err)
	}
	t.logger.Info("Saved model", "path", t.opts.ModelPath)
	return p, test, nil
}

// Evaluate scores every model on test, renders the comparison charts and
// writes the spreadsheet report.
func (t *Trainer) Evaluate(ctx context.Context, p *model.Predictor, test dataframe.DataFrame) (*entity.EvaluationRun, error) {
	y, err := utils.Floats(test, p.Label)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	names := p.ModelNames()
	scores := make([]model.Scores, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pred, err := p.Predict(test, name)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", name, err)
		}
		s := model.Score(name, y, pred)
		scores = append(scores, s)
		t.logger.Info("Model score", "model", name, "mae", s.MAE, "rmse", s.RMSE, "r2", s.R2)
	}

	ranked := append([]model.Scores(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].RMSE < ranked[j].RMSE })
	t.logger.Info("Best model on test split", "model", ranked[0].Model, "rmse", ranked[0].RMSE, "servedModel", p.Best)

	for _, metric := range []string{charts.MetricMAE, charts.MetricRMSE, charts.MetricR2} {
		path := filepath.Join(t.opts.ChartsDir, metric+".png")
		if err := charts.MetricChart(metric, scores, path); err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
	}
	t.logger.Info("Saved metric charts", "dir", t.opts.ChartsDir)

	if t.opts.Importance {
		if err := t.importance(p, test); err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
	}

	if t.opts.ReportPath != "" {
		if err := utils.SaveToExcel(scoresFrame(scores), t.opts.ReportPath, "metrics"); err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		t.logger.Info("Saved metrics report", "path", t.opts.ReportPath)
	}

	run := &entity.EvaluationRun{
		BestModel: p.Best,
		TrainRows: p.TrainRows,
		TestRows:  test.Nrow(),
		CreatedAt: time.Now(),
	}
	for _, s := range scores {
		run.Scores = append(run.Scores, entity.ModelScore{Model: s.Model, MAE: s.MAE, RMSE: s.RMSE, R2: s.R2})
	}
	if err := t.evalRepo.SaveRun(ctx, run); err != nil {
		t.logger.Warn("Failed to store evaluation run", "error", err)
	}

	return run, nil
}

func (t *Trainer) importance(p *model.Predictor, test dataframe.DataFrame) error {
	sample := test
	if test.Nrow() > importanceRows {
		idx := make([]int, importanceRows)
		for i := range idx {
			idx[i] = i
		}
		sample = test.Subset(idx)
	}

	for _, name := range p.ModelNames() {
		imps, err := model.PermutationImportance(p, name, sample, t.opts.Seed)
		if err != nil {
			return err
		}
		if len(imps) == 0 {
			return errors.New("no importances computed")
		}
		path := filepath.Join(t.opts.ChartsDir, "importance_"+name+".png")
		if err := charts.ImportanceChart(name, imps, path); err != nil {
			return err
		}
		t.logger.Info("Saved importance chart", "model", name, "top", imps[0].Feature, "path", path)
	}
	return nil
}

func scoresFrame(scores []model.Scores) dataframe.DataFrame {
	names := make([]string, len(scores))
	mae := make([]float64, len(scores))
	rmse := make([]float64, len(scores))
	r2 := make([]float64, len(scores))
	for i, s := range scores {
		names[i], mae[i], rmse[i], r2[i] = s.Model, s.MAE, s.RMSE, s.R2
	}
	return dataframe.New(
		series.New(names, series.String, "model"),
		utils.FloatSeries("mae", mae),
		utils.FloatSeries("rmse", rmse),
		utils.FloatSeries("r2", r2),
	)
}
