package corpus

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{0.5, -1.2, 3.0}
	b := []float32{1.0, 0.0, -0.5}

	// Self-similarity is 1, negation is -1.
	neg := []float32{-0.5, 1.2, -3.0}
	gt.True(t, math.Abs(cosineSimilarity(a, a)-1) < 1e-9)
	gt.True(t, math.Abs(cosineSimilarity(a, neg)+1) < 1e-9)

	// Symmetric.
	gt.Equal(t, cosineSimilarity(a, b), cosineSimilarity(b, a))

	// Orthogonal vectors score 0.
	gt.Equal(t, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0)

	// Mismatched lengths and zero magnitudes score 0.
	gt.Equal(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}), 0.0)
	gt.Equal(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}), 0.0)
}
