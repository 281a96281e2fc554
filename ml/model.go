package ml

// Classifier maps a feature vector to a class index.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// ProbabilityClassifier is the optional upgrade for classifiers that can
// also report a per-class probability distribution. Callers detect it with
// a type assertion.
type ProbabilityClassifier interface {
	Classifier
	PredictProbabilities(features []float64) ([]float64, error)
}

// Scaler transforms a raw feature vector into model space.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// LabelDecoder maps class indices back to the raw catalog labels the
// classifier was trained on.
type LabelDecoder interface {
	Decode(index int) (string, error)
	Classes() []string
}
