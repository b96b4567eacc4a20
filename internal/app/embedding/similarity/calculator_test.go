package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityCalculatorInterface(t *testing.T) {
	var calculator SimilarityCalculator = NewCosineSimilarityCalculator()

	similarity, err := calculator.Calculate([]float32{1, 0, 0}, []float32{1, 0, 0})

	assert.NoError(t, err)
	assert.InDelta(t, 1.0, similarity, 1e-6)
}

func TestCosineSimilarityCalculation(t *testing.T) {
	testCases := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
		epsilon  float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
			epsilon:  0.001,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 1, 0},
			expected: 0.0,
			epsilon:  0.001,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{-1, 0, 0},
			expected: -1.0,
			epsilon:  0.001,
		},
		{
			name:     "45 degree vectors",
			a:        []float32{1, 1, 0},
			b:        []float32{1, 0, 0},
			expected: 0.707,
			epsilon:  0.01,
		},
		{
			name:     "scale invariant",
			a:        []float32{2, 4},
			b:        []float32{0.5, 1},
			expected: 1.0,
			epsilon:  0.001,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			similarity, err := CosineSimilarity(tc.a, tc.b)

			assert.NoError(t, err)
			assert.InDelta(t, tc.expected, similarity, float64(tc.epsilon))
		})
	}
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0, 0}, []float32{1, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	similarity, err := CosineSimilarity([]float32{0, 0, 0}, []float32{0, 0, 0})
	assert.NoError(t, err)
	assert.Zero(t, similarity)

	similarity, err = CosineSimilarity([]float32{}, []float32{})
	assert.NoError(t, err)
	assert.Zero(t, similarity)
}
