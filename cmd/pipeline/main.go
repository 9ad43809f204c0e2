package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"airfare-service/internal/domain/repository"
	"airfare-service/internal/infrastructure/config"
	"airfare-service/internal/infrastructure/persistence"
	"airfare-service/internal/usecase"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/metrics"
	"airfare-service/pkg/model"

	evaluationRepo "airfare-service/internal/interface/repository"
)

const (
	stageCombine     = "combine"
	stageClean       = "clean"
	stageStandardize = "standardize"
	stageTrain       = "train"
	stageAll         = "all"
)

func main() {
	stage := flag.String("stage", stageAll, "pipeline stage: combine|clean|standardize|train|all")
	retrain := flag.Bool("retrain", false, "fit a new model even if one is saved")
	importance := flag.Bool("importance", false, "render permutation importance charts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewLoggerWithLevel(cfg.LogLevel).With("stage", *stage)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := metrics.NewMetrics("airfare_pipeline", nil)

	run := func(name string) bool { return *stage == stageAll || *stage == name }
	switch *stage {
	case stageCombine, stageClean, stageStandardize, stageTrain, stageAll:
	default:
		log.Fatal("Unknown stage", "value", *stage)
	}

	if run(stageCombine) {
		if _, err := usecase.NewCombiner(cfg.DataDir, cfg.CombinedPath(), log).Combine(ctx); err != nil {
			log.Fatal("Combine failed", "error", err)
		}
	}

	if run(stageClean) {
		cleaner := usecase.NewCleaner(usecase.CleanerOptions{
			InputPath:     cfg.CombinedPath(),
			OutputPath:    cfg.CleanedPath(),
			ExchangeRate:  cfg.ExchangeRate,
			ReferenceDate: cfg.ReferenceDate,
		}, m, log)
		if _, err := cleaner.Clean(ctx); err != nil {
			log.Fatal("Clean failed", "error", err)
		}
	}

	if run(stageStandardize) {
		standardizer := usecase.NewStandardizer(usecase.StandardizerOptions{
			InputPath:  cfg.CleanedPath(),
			OutputPath: cfg.FinalPath(),
			ScalerPath: cfg.ScalerPath,
		}, log)
		if _, err := standardizer.Standardize(ctx); err != nil {
			log.Fatal("Standardize failed", "error", err)
		}
	}

	if run(stageTrain) {
		evalRepo := newEvaluationRepository(cfg, log)

		opts := model.DefaultTrainOptions()
		opts.ForestTrees = cfg.ForestTrees
		opts.BoostRounds = cfg.BoostRounds
		opts.Seed = cfg.RandomSeed

		trainer := usecase.NewTrainer(usecase.TrainerOptions{
			InputPath:  cfg.FinalPath(),
			ModelPath:  cfg.ModelPath,
			ChartsDir:  cfg.ChartsDir,
			ReportPath: cfg.ReportPath,
			TestRatio:  cfg.TestRatio,
			Seed:       cfg.RandomSeed,
			Model:      opts,
			Importance: *importance,
		}, evalRepo, log)

		bundle, test, err := trainer.Train(ctx, *retrain)
		if err != nil {
			log.Fatal("Train failed", "error", err)
		}
		if _, err := trainer.Evaluate(ctx, bundle, test); err != nil {
			log.Fatal("Evaluate failed", "error", err)
		}
	}

	log.Info("Pipeline finished")
}

func newEvaluationRepository(cfg *config.Config, log logger.Logger) repository.EvaluationRepository {
	if cfg.PostgresURI == "" {
		return evaluationRepo.NewNoopEvaluationRepository()
	}

	db, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	repo, err := evaluationRepo.NewGormEvaluationRepository(db)
	if err != nil {
		log.Fatal("Failed to migrate evaluation tables", "error", err)
	}
	return repo
}
