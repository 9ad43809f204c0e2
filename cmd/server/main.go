package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airfare-service/internal/domain/repository"
	"airfare-service/internal/infrastructure/config"
	"airfare-service/internal/infrastructure/persistence"
	"airfare-service/internal/infrastructure/router"
	"airfare-service/internal/interface/web"
	"airfare-service/internal/usecase"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/metrics"
	"airfare-service/pkg/model"
	"airfare-service/pkg/scaler"

	predictionRepo "airfare-service/internal/interface/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Airfare Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load artifacts produced by the pipeline
	sc, err := scaler.Load(cfg.ScalerPath)
	if err != nil {
		log.Fatal("Failed to load scaler", "path", cfg.ScalerPath, "error", err)
	}
	bundle, err := model.LoadPredictor(cfg.ModelPath)
	if err != nil {
		log.Fatal("Failed to load model", "path", cfg.ModelPath, "error", err)
	}
	log.Info("Loaded model", "best", bundle.Best, "trainedAt", bundle.TrainedAt)

	reference := usecase.Today
	switch cfg.ServingReference {
	case config.ServingReferenceTraining:
		if sc.ReferenceDate.IsZero() {
			log.Fatal("SERVING_REFERENCE=training but the scaler has no reference date")
		}
		trainingRef := sc.ReferenceDate
		reference = func() time.Time { return trainingRef }
		log.Info("Serving days_left against the training reference", "date", trainingRef.Format(time.DateOnly))
	default:
		log.Warn("Serving days_left against today's date; training used a fixed reference",
			"trainingReference", sc.ReferenceDate.Format(time.DateOnly))
	}

	// Set up MongoDB connection for the prediction log
	var mongoClient *mongo.Client
	var predRepo repository.PredictionRepository = predictionRepo.NewNoopPredictionRepository()
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		predRepo = predictionRepo.NewMongoPredictionRepository(db)
	}

	m := metrics.NewMetrics("airfare", nil)
	predictor := usecase.NewPricePredictor(bundle, sc, predRepo, m, log, reference)
	handler := web.NewHandler(predictor, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(log, nil, handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Airfare Service stopped")
}
