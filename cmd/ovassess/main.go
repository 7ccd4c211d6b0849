// Command ovassess serves the ovarian cancer risk assessment API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oncorisk/ovassess"
	"github.com/oncorisk/ovassess/adapters/onnx"
	"github.com/oncorisk/ovassess/advice"
	"github.com/oncorisk/ovassess/clients/together"
	"github.com/oncorisk/ovassess/internal/storage"
	"github.com/oncorisk/ovassess/risk"
	"github.com/oncorisk/ovassess/server"
)

type appConfig struct {
	Port              string
	ModelPath         string
	ColumnsPath       string
	SharedLibraryPath string
	RiskPolicy        risk.Policy
	TogetherAPIKey    string
	TogetherModel     string
	DatabaseURL       string
	EnableDB          bool
}

func loadConfig() appConfig {
	return appConfig{
		Port:              getEnv("PORT", "8080"),
		ModelPath:         getEnv("MODEL_PATH", "model.onnx"),
		ColumnsPath:       os.Getenv("COLUMNS_PATH"),
		SharedLibraryPath: os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"),
		RiskPolicy:        risk.Policy(os.Getenv("RISK_POLICY")),
		TogetherAPIKey:    os.Getenv("TOGETHER_API_KEY"),
		TogetherModel:     os.Getenv("TOGETHER_MODEL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		EnableDB:          os.Getenv("ENABLE_DB") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := loadConfig()
	if cfg.RiskPolicy == "" {
		logger.Fatal("RISK_POLICY must be set", zap.String("valid", "additive or proportional"))
	}

	ctx := context.Background()

	classifier, err := onnx.Load(onnx.Config{
		ModelPath:         cfg.ModelPath,
		ColumnsPath:       cfg.ColumnsPath,
		SharedLibraryPath: cfg.SharedLibraryPath,
	})
	if err != nil {
		logger.Fatal("classifier load failed", zap.String("model", cfg.ModelPath), zap.Error(err))
	}
	defer classifier.Close()
	logger.Info("classifier loaded",
		zap.String("model", cfg.ModelPath),
		zap.Int("features", classifier.Schema().Len()))

	var narrator advice.Narrator
	if cfg.TogetherAPIKey != "" {
		client := together.NewClient(cfg.TogetherAPIKey).SetLogger(logger)
		narrator = together.NewNarrator(client, cfg.TogetherModel)
		logger.Info("narrative service enabled")
	} else {
		logger.Warn("TOGETHER_API_KEY not set, serving fallback advice only")
	}

	assessor, err := ovassess.NewAssessor(ovassess.Config{
		Classifier: classifier,
		Advice:     advice.NewPipeline(advice.Config{Narrator: narrator, Logger: logger}),
		RiskPolicy: cfg.RiskPolicy,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("assessor init failed", zap.Error(err))
	}

	var store server.AssessmentStore
	if cfg.EnableDB {
		db, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		store = db
		logger.Info("assessment persistence enabled")
	}

	srv := server.New(assessor, store, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
