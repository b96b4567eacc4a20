package similarity

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors differ in length
var ErrDimensionMismatch = errors.New("vectors must have same dimension")

// SimilarityCalculator defines the interface for similarity calculations
type SimilarityCalculator interface {
	Calculate(a, b []float32) (float32, error)
}

// CosineSimilarityCalculator implements cosine similarity calculation
type CosineSimilarityCalculator struct{}

// NewCosineSimilarityCalculator creates a new cosine similarity calculator
func NewCosineSimilarityCalculator() *CosineSimilarityCalculator {
	return &CosineSimilarityCalculator{}
}

// Calculate computes cosine similarity between two vectors
func (c *CosineSimilarityCalculator) Calculate(a, b []float32) (float32, error) {
	return CosineSimilarity(a, b)
}

// CosineSimilarity returns the cosine of the angle between a and b. Empty and
// zero vectors have similarity 0.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	if len(a) == 0 {
		return 0, nil
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	// Handle zero vectors
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return float32(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
