package stats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric selects a vector distance
type DistanceMetric int

const (
	EuclideanDistance DistanceMetric = iota
	ManhattanDistance
	CosineDistance
	ChebyshevDistance
)

// DistanceFunction computes a distance between equal-length vectors
type DistanceFunction func(a, b []float64) float64

// GetDistanceFunction returns the function for metric
func GetDistanceFunction(metric DistanceMetric) DistanceFunction {
	switch metric {
	case ManhattanDistance:
		return ManhattanDistanceFunc
	case CosineDistance:
		return CosineDistanceFunc
	case ChebyshevDistance:
		return ChebyshevDistanceFunc
	default:
		return EuclideanDistanceFunc
	}
}

// EuclideanDistanceFunc returns the L2 distance, +Inf on a length mismatch
func EuclideanDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// ManhattanDistanceFunc returns the L1 distance, +Inf on a length mismatch
func ManhattanDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 1)
}

// ChebyshevDistanceFunc returns the L∞ distance, +Inf on a length mismatch
func ChebyshevDistanceFunc(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, math.Inf(1))
}

// CosineSimilarityFunc returns a·b / (|a||b|), 0 when either vector is zero
// or the lengths differ
func CosineSimilarityFunc(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}

// CosineDistanceFunc returns 1 - cosine similarity
func CosineDistanceFunc(a, b []float64) float64 {
	return 1 - CosineSimilarityFunc(a, b)
}

// GetDistanceMetricName returns the metric's display name
func GetDistanceMetricName(metric DistanceMetric) string {
	switch metric {
	case EuclideanDistance:
		return "euclidean"
	case ManhattanDistance:
		return "manhattan"
	case CosineDistance:
		return "cosine"
	case ChebyshevDistance:
		return "chebyshev"
	default:
		return "unknown"
	}
}

// ParseDistanceMetric resolves a metric by its display name. An empty name
// selects EuclideanDistance.
func ParseDistanceMetric(name string) (DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "euclidean", "":
		return EuclideanDistance, nil
	case "manhattan":
		return ManhattanDistance, nil
	case "cosine":
		return CosineDistance, nil
	case "chebyshev":
		return ChebyshevDistance, nil
	default:
		return EuclideanDistance, fmt.Errorf("unknown distance metric: %q", name)
	}
}
