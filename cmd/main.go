package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"

	"exoserve/classify"
	"exoserve/db"
	eshttp "exoserve/http"
	"exoserve/ml"
	"exoserve/monitoring"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log   LogConfig `yaml:"log"`
	Model struct {
		Type           string   `yaml:"type"`
		Dir            string   `yaml:"dir"`
		Watch          bool     `yaml:"watch"`
		FallbackLabels []string `yaml:"fallback_labels"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
}

func main() {
	// .env是可选的，平台环境变量优先
	_ = godotenv.Load()

	// Look for config in root even if run from cmd/
	configPath := os.Getenv("EXOSERVE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = filepath.Join("..", "config.yaml")
		}
	}

	// 1. Load config, falling back to built-in defaults
	config := defaultConfig()
	if err := loadConfig(configPath, config); err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	applyEnvOverrides(config)

	// 2. Logger
	logger := newLogger(config.Log)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 3. Prediction history store (optional)
	var store *db.Store
	if config.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(config.Database.Path), 0o755); err != nil {
			logger.Fatal("failed to create database directory", zap.Error(err))
		}
		var err error
		store, err = db.Open(config.Database.Path)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		logger.Info("prediction history enabled", zap.String("path", config.Database.Path))
	} else {
		logger.Info("prediction history disabled")
	}

	// 4. Model artifacts
	bundle, err := ml.LoadBundle(ml.BundleConfig{
		ModelType: config.Model.Type,
		Dir:       config.Model.Dir,
	}, logger)
	if err != nil {
		logger.Fatal("failed to load model artifacts", zap.Error(err))
	}

	pipeline := classify.NewPipeline(bundle, classify.Options{
		FallbackLabels: config.Model.FallbackLabels,
		CacheSize:      config.Cache.Size,
		Logger:         logger,
	})

	// 5. WebSocket hub
	hub := monitoring.NewHub()
	go hub.Start()

	// 6. HTTP server
	handler := eshttp.NewHandler(pipeline, store, hub)
	server := eshttp.NewServer(eshttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		AllowedOrigins: config.Http.AllowedOrigins,
	}, handler)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 7. Artifact hot reload (optional)
	var watcher *ml.Watcher
	if config.Model.Watch {
		watcher, err = ml.WatchArtifacts(config.Model.Dir, 500*time.Millisecond, func() {
			fresh, err := ml.LoadBundle(ml.BundleConfig{
				ModelType: config.Model.Type,
				Dir:       config.Model.Dir,
			}, logger)
			if err != nil {
				logger.Error("artifact reload failed, keeping previous model", zap.Error(err))
				return
			}
			pipeline.Swap(fresh)
			logger.Info("model artifacts reloaded")
		})
		if err != nil {
			logger.Fatal("failed to watch model artifacts", zap.Error(err))
		}
		logger.Info("artifact hot reload enabled", zap.String("dir", config.Model.Dir))
	}

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if watcher != nil {
		watcher.Close()
	}
	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	hub.Stop()
	if store != nil {
		store.Close()
	}
}

func defaultConfig() *Config {
	config := &Config{}
	config.Http.Port = 5000
	config.Http.TimeoutSeconds = 30
	config.Http.AllowedOrigins = []string{"*"}
	config.Log.Level = "info"
	config.Log.MaxSizeMB = 100
	config.Log.MaxBackups = 3
	config.Log.MaxAgeDays = 28
	config.Model.Type = "random_forest"
	config.Model.Dir = "./artifacts"
	config.Cache.Size = 1024
	return config
}

func loadConfig(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return yaml.NewDecoder(file).Decode(config)
}

func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			config.Http.Port = v
		}
	}
	if dir := os.Getenv("EXOSERVE_MODEL_DIR"); dir != "" {
		config.Model.Dir = dir
	}
	if path := os.Getenv("EXOSERVE_DB_PATH"); path != "" {
		config.Database.Path = path
	}
	if level := os.Getenv("EXOSERVE_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
}

func newLogger(cfg LogConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level))
	}

	return zap.New(zapcore.NewTee(cores...))
}
