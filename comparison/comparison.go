package comparison

import (
	"math"

	"github.com/RyanBlaney/sonido-tajweed/algorithms/stats"
	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/logging"
)

// Result is the DTW alignment of two feature records
type Result struct {
	Similarity float64            `json:"similarity" yaml:"similarity"` // 1/(1+distance), in (0, 1]
	Score      float64            `json:"score" yaml:"score"`           // similarity × 100
	Distance   float64            `json:"distance" yaml:"distance"`
	Path       []stats.AlignPoint `json:"path,omitempty" yaml:"path,omitempty"`
	Deviations []float64          `json:"deviations,omitempty" yaml:"deviations,omitempty"`
	Metrics    Metrics            `json:"metrics" yaml:"metrics"`
}

// Metrics are auxiliary whole-vector measures of the cepstral sequences.
// Distances are only populated when both sequences have the same length.
type Metrics struct {
	Comparable       bool    `json:"comparable" yaml:"comparable"`
	Metric           string  `json:"metric" yaml:"metric"`
	VectorDistance   float64 `json:"vector_distance" yaml:"vector_distance"` // under Metric
	Euclidean        float64 `json:"euclidean" yaml:"euclidean"`
	CosineSimilarity float64 `json:"cosine_similarity" yaml:"cosine_similarity"`
	QueryLength      int     `json:"query_length" yaml:"query_length"`
	RefLength        int     `json:"ref_length" yaml:"ref_length"`
}

// Comparator scores two feature records by aligning their cepstral
// coefficient sequences
type Comparator struct {
	cfg    config.ComparisonConfig
	dtw    *stats.DTWAlignment
	metric stats.DistanceMetric
	logger logging.Logger
}

// NewComparator creates a new comparator. An unknown metric name falls back
// to euclidean; config.Validate rejects it earlier.
func NewComparator(cfg config.ComparisonConfig) *Comparator {
	logger := logging.WithFields(logging.Fields{
		"component": "comparator",
	})

	metric, err := stats.ParseDistanceMetric(cfg.Metric)
	if err != nil {
		logger.Warn("Falling back to euclidean distance", logging.Fields{
			"metric": cfg.Metric,
		})
	}

	return &Comparator{
		cfg:    cfg,
		dtw:    stats.NewDTWAlignmentWithParams(cfg.Band, cfg.IncludePath),
		metric: metric,
		logger: logger,
	}
}

// Similarity maps a non-negative distance onto (0, 1]. Only a zero
// distance maps to exactly 1.
func Similarity(distance float64) float64 {
	similarity := 1.0 / (1.0 + distance)
	if distance > 0 && similarity == 1 {
		return math.Nextafter(1, 0)
	}
	return similarity
}

// Compare aligns a against b. Empty sequences align with distance 0.
func (c *Comparator) Compare(a, b *features.Record) *Result {
	return c.CompareSequences(a.CepstralCoefficients, b.CepstralCoefficients)
}

// CompareSequences aligns two raw sequences
func (c *Comparator) CompareSequences(query, reference []float64) *Result {
	if c.cfg.Normalize {
		query = stats.ZNormalize(query)
		reference = stats.ZNormalize(reference)
	}

	alignment := c.dtw.Align(query, reference)
	similarity := Similarity(alignment.Distance)

	result := &Result{
		Similarity: similarity,
		Score:      similarity * 100.0,
		Distance:   alignment.Distance,
		Path:       alignment.Path,
		Deviations: alignment.Deviations,
		Metrics: Metrics{
			Metric:      stats.GetDistanceMetricName(c.metric),
			QueryLength: len(query),
			RefLength:   len(reference),
		},
	}

	if len(query) == len(reference) && len(query) > 0 {
		result.Metrics.Comparable = true
		result.Metrics.VectorDistance = stats.GetDistanceFunction(c.metric)(query, reference)
		result.Metrics.Euclidean = stats.EuclideanDistanceFunc(query, reference)
		result.Metrics.CosineSimilarity = stats.CosineSimilarityFunc(query, reference)
	}

	c.logger.Debug("Compared sequences", logging.Fields{
		"distance":   alignment.Distance,
		"similarity": similarity,
		"query_len":  len(query),
		"ref_len":    len(reference),
		"band":       alignment.Constraint,
	})

	return result
}
