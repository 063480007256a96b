package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"homeval/db"
	qhttp "homeval/http"
	"homeval/logging"
	"homeval/ml"
	"homeval/monitoring"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Model struct {
		Path      string `yaml:"path"`
		URL       string `yaml:"url"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"model"`
	Log struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"log"`
}

func main() {
	configPath := os.Getenv("HOMEVAL_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// 1. Load config
	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logging
	if err := logging.Init(config.Log.Level, config.Log.Path); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	// 3. Initialize database
	if err := db.InitDB(config.Database.Path); err != nil {
		logging.L().Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	logging.L().Info("database initialized", zap.String("path", config.Database.Path))

	// 4. Load the model artifact, downloading it first when configured
	if err := ml.EnsureModel(config.Model.URL, config.Model.Path); err != nil {
		logging.L().Fatal("failed to fetch model artifact", zap.Error(err))
	}
	model, err := ml.LoadModel(config.Model.Path)
	if err != nil {
		logging.L().Fatal("failed to load model artifact", zap.Error(err))
	}
	predictor, err := ml.NewPredictor(model, config.Model.CacheSize)
	if err != nil {
		logging.L().Fatal("failed to build predictor", zap.Error(err))
	}
	logging.L().Info("model artifact loaded",
		zap.String("path", config.Model.Path),
		zap.Int("features", len(model.FeatureNames())))

	stopWatcher, err := ml.WatchModel(config.Model.Path, predictor)
	if err != nil {
		logging.L().Warn("model hot-reload disabled", zap.Error(err))
	} else {
		defer stopWatcher()
	}
	qhttp.SetPredictor(predictor)

	// 5. Start the live prediction feed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := monitoring.NewFeedHub()
	go feed.Run(ctx)
	qhttp.SetFeed(feed)

	// 6. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		AllowedOrigins: config.Http.AllowedOrigins,
	})
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logging.L().Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 7. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.L().Info("shutting down")

	if err := server.Stop(); err != nil {
		logging.L().Warn("server forced to shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
