package ml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Artifact file names inside the model directory.
const (
	ClassifierFile   = "classifier.json"
	ScalerFile       = "scaler.json"
	LabelEncoderFile = "label_encoder.json"
	MetricsFile      = "metrics.json"
)

// Bundle holds the capabilities loaded from one artifact directory. A
// missing optional artifact leaves its field nil and the service runs
// degraded; only unreadable or malformed artifacts fail the load.
type Bundle struct {
	Classifier Classifier
	Scaler     Scaler
	Labels     LabelDecoder
	Metrics    PerformanceMetrics
	ModelType  string
	LoadedAt   time.Time
}

type BundleConfig struct {
	ModelType string
	Dir       string
}

func LoadBundle(cfg BundleConfig, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := &Bundle{
		ModelType: cfg.ModelType,
		Metrics:   DefaultPerformanceMetrics(),
		LoadedAt:  time.Now(),
	}

	classifierPath := filepath.Join(cfg.Dir, ClassifierFile)
	classifier, err := loadClassifier(cfg.ModelType, classifierPath)
	switch {
	case err == nil:
		bundle.Classifier = classifier
		logger.Info("classifier loaded", zap.String("path", classifierPath), zap.String("type", cfg.ModelType))
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("classifier artifact missing, predictions disabled", zap.String("path", classifierPath))
	default:
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	scaler := &StandardScaler{}
	scalerPath := filepath.Join(cfg.Dir, ScalerFile)
	switch err := scaler.Load(scalerPath); {
	case err == nil:
		bundle.Scaler = scaler
		logger.Info("scaler loaded", zap.String("path", scalerPath))
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("scaler artifact missing, predictions will use raw feature values", zap.String("path", scalerPath))
	default:
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	labels := &LabelEncoder{}
	labelsPath := filepath.Join(cfg.Dir, LabelEncoderFile)
	switch err := labels.Load(labelsPath); {
	case err == nil:
		bundle.Labels = labels
		logger.Info("label encoder loaded", zap.String("path", labelsPath), zap.Strings("classes", labels.Classes()))
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("label encoder artifact missing, using fallback labels", zap.String("path", labelsPath))
	default:
		return nil, fmt.Errorf("load label encoder: %w", err)
	}

	metricsPath := filepath.Join(cfg.Dir, MetricsFile)
	switch metrics, err := LoadPerformanceMetrics(metricsPath); {
	case err == nil:
		bundle.Metrics = metrics
		logger.Info("performance metrics loaded", zap.String("path", metricsPath))
	case errors.Is(err, os.ErrNotExist):
		logger.Info("metrics artifact missing, serving built-in metrics")
	default:
		return nil, fmt.Errorf("load metrics: %w", err)
	}

	return bundle, nil
}

func loadClassifier(modelType, path string) (Classifier, error) {
	switch modelType {
	case "random_forest", "":
		model := &RandomForest{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	case "decision_tree":
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}
