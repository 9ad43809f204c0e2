// internal/infrastructure/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Serving reference modes for days_left
const (
	ServingReferenceToday    = "today"
	ServingReferenceTraining = "training"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ServingReference string

	// Data & artifacts
	DataDir      string
	ScalerPath   string
	ModelPath    string
	ChartsDir    string
	ReportPath   string
	ExchangeRate float64

	// REFERENCE_DATE, dd-mm-yyyy; empty means the earliest date in the data
	ReferenceDate string

	// Training
	TestRatio   float64
	RandomSeed  int64
	ForestTrees int
	BoostRounds int

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL
	PostgresURI string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:             getEnv("PORT", "5000"),
		ReadTimeout:      time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:     time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		ServingReference: getEnv("SERVING_REFERENCE", ServingReferenceToday),

		DataDir:       dataDir,
		ScalerPath:    getEnv("SCALER_PATH", filepath.Join(dataDir, "scaler.gob")),
		ModelPath:     getEnv("MODEL_PATH", filepath.Join(dataDir, "model.gob")),
		ChartsDir:     getEnv("CHARTS_DIR", "charts"),
		ReportPath:    getEnv("REPORT_PATH", filepath.Join(dataDir, "metrics.xlsx")),
		ExchangeRate:  getEnvAsFloat("EXCHANGE_RATE", 0.04),
		ReferenceDate: getEnv("REFERENCE_DATE", ""),

		TestRatio:   getEnvAsFloat("TEST_RATIO", 0.2),
		RandomSeed:  int64(getEnvAsInt("RANDOM_SEED", 42)),
		ForestTrees: getEnvAsInt("FOREST_TREES", 20),
		BoostRounds: getEnvAsInt("BOOST_ROUNDS", 100),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "airfare"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),
	}

	return config, nil
}

// CombinedPath, CleanedPath and FinalPath are the stage outputs under DataDir
func (c *Config) CombinedPath() string { return filepath.Join(c.DataDir, "combined.csv") }
func (c *Config) CleanedPath() string  { return filepath.Join(c.DataDir, "cleaned.csv") }
func (c *Config) FinalPath() string    { return filepath.Join(c.DataDir, "final.csv") }

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
