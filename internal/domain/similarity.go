package domain

import "math"

// Similarity computes cosine similarity between two vectors, clamped into
// [0, 1]. Negative cosine values (semantically opposite text) collapse to 0,
// the same value as orthogonal text. Zero or mismatched vectors score 0, so
// degenerate embeddings of empty text degrade the score instead of failing
// the pipeline.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		// Guard against float drift on identical vectors.
		return 1
	}
	return cos
}
