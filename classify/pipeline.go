package classify

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"exoserve/ml"
)

// DefaultFallbackLabels is the index-to-label table used when no label
// encoder artifact is available. It mirrors the class order the shipped
// model was trained with.
var DefaultFallbackLabels = []string{
	string(CategoryFalsePositive),
	string(CategoryCandidate),
	string(CategoryConfirmed),
}

// Result is the outcome of one classification.
//
// Detailed maps raw catalog labels to probabilities and is only set when
// both probability support and a label decoder are available. Grouped holds
// the coarse buckets; in fallback mode (no decoder) it is keyed by the
// fallback labels instead. Nil maps mean the capability was absent.
type Result struct {
	Category   Category
	RawLabel   string
	ClassIndex int
	Detailed   map[string]float64
	Grouped    map[Category]float64
	Fallback   bool
}

// Capabilities reports which model artifacts are currently loaded.
type Capabilities struct {
	ModelLoaded        bool `json:"model_loaded"`
	ScalerLoaded       bool `json:"scaler_loaded"`
	LabelEncoderLoaded bool `json:"label_encoder_loaded"`
}

// ModelInfo describes the loaded artifacts for the introspection endpoint.
type ModelInfo struct {
	ModelType     string       `json:"model_type"`
	LoadedAt      time.Time    `json:"loaded_at"`
	TreeCount     int          `json:"tree_count,omitempty"`
	Classes       []string     `json:"classes"`
	Probabilistic bool         `json:"probabilistic"`
	Capabilities  Capabilities `json:"capabilities"`
}

type Options struct {
	FallbackLabels []string
	CacheSize      int
	Logger         *zap.Logger
}

// Pipeline runs the classification flow: scale, infer, decode, categorize,
// aggregate. The bundle is swappable at runtime; every request observes one
// consistent snapshot.
type Pipeline struct {
	mu       sync.RWMutex
	bundle   *ml.Bundle
	fallback []string
	cache    *lru.Cache[Features, Result]
	logger   *zap.Logger
}

func NewPipeline(bundle *ml.Bundle, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := opts.FallbackLabels
	if len(fallback) == 0 {
		fallback = DefaultFallbackLabels
	}

	p := &Pipeline{
		bundle:   bundle,
		fallback: append([]string(nil), fallback...),
		logger:   logger,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[Features, Result](opts.CacheSize)
		if err != nil {
			logger.Warn("prediction cache disabled", zap.Error(err))
		} else {
			p.cache = cache
		}
	}
	return p
}

// Swap installs a freshly loaded bundle and drops cached results.
func (p *Pipeline) Swap(bundle *ml.Bundle) {
	p.mu.Lock()
	p.bundle = bundle
	p.mu.Unlock()
	if p.cache != nil {
		p.cache.Purge()
	}
}

func (p *Pipeline) snapshot() *ml.Bundle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bundle
}

func (p *Pipeline) Capabilities() Capabilities {
	bundle := p.snapshot()
	if bundle == nil {
		return Capabilities{}
	}
	return Capabilities{
		ModelLoaded:        bundle.Classifier != nil,
		ScalerLoaded:       bundle.Scaler != nil,
		LabelEncoderLoaded: bundle.Labels != nil,
	}
}

func (p *Pipeline) Metrics() ml.PerformanceMetrics {
	bundle := p.snapshot()
	if bundle == nil {
		return ml.DefaultPerformanceMetrics()
	}
	return bundle.Metrics
}

func (p *Pipeline) Info() ModelInfo {
	bundle := p.snapshot()
	info := ModelInfo{Capabilities: p.Capabilities()}
	if bundle == nil {
		info.Classes = append([]string(nil), p.fallback...)
		return info
	}

	info.ModelType = bundle.ModelType
	info.LoadedAt = bundle.LoadedAt
	if bundle.Labels != nil {
		info.Classes = bundle.Labels.Classes()
	} else {
		info.Classes = append([]string(nil), p.fallback...)
	}
	if forest, ok := bundle.Classifier.(*ml.RandomForest); ok {
		info.TreeCount = forest.TreeCount()
	}
	_, info.Probabilistic = bundle.Classifier.(ml.ProbabilityClassifier)
	return info
}

// Classify runs the full pipeline for one observation. Inference is
// deterministic, so repeated observations are served from the cache.
func (p *Pipeline) Classify(features Features) (Result, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(features); ok {
			p.logger.Debug("prediction served from cache",
				zap.Float64("orbital_period", features.OrbitalPeriod),
				zap.Float64("transit_duration", features.TransitDuration),
				zap.Float64("planetary_radius", features.PlanetaryRadius))
			return cached, nil
		}
	}

	bundle := p.snapshot()
	if bundle == nil || bundle.Classifier == nil {
		return Result{}, ErrModelUnavailable
	}

	vector := features.Vector()
	if bundle.Scaler != nil {
		scaled, err := bundle.Scaler.Transform(vector)
		if err != nil {
			return Result{}, fmt.Errorf("scale features: %w", err)
		}
		vector = scaled
	}

	index, err := bundle.Classifier.Predict(vector)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}

	result := Result{ClassIndex: index}
	if bundle.Labels != nil {
		raw, err := bundle.Labels.Decode(index)
		if err != nil {
			return Result{}, fmt.Errorf("decode label: %w", err)
		}
		result.RawLabel = raw
		result.Category = Categorize(raw)
	} else {
		result.Fallback = true
		result.Category = Category(p.fallbackLabel(index))
	}

	if prob, ok := bundle.Classifier.(ml.ProbabilityClassifier); ok {
		probs, err := prob.PredictProbabilities(vector)
		if err != nil {
			return Result{}, fmt.Errorf("predict probabilities: %w", err)
		}
		if bundle.Labels != nil {
			detailed := make(map[string]float64, len(probs))
			for i, pr := range probs {
				label, err := bundle.Labels.Decode(i)
				if err != nil {
					return Result{}, fmt.Errorf("decode label: %w", err)
				}
				detailed[label] = pr
			}
			result.Detailed = detailed
			result.Grouped = GroupConfidence(detailed)
		} else {
			grouped := make(map[Category]float64, len(probs))
			for i, pr := range probs {
				grouped[Category(p.fallbackLabel(i))] = pr
			}
			result.Grouped = grouped
		}
	}

	if p.cache != nil && p.snapshot() == bundle {
		p.cache.Add(features, result)
	}
	return result, nil
}

func (p *Pipeline) fallbackLabel(index int) string {
	if index >= 0 && index < len(p.fallback) {
		return p.fallback[index]
	}
	return "Unknown"
}
