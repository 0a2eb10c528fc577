package domain

import (
	"math"
	"testing"
)

func TestSimilarity_Identical(t *testing.T) {
	v := []float32{0.3, 0.5, 0.1}
	got := Similarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Similarity(v, v) = %v, want 1.0", got)
	}
}

func TestSimilarity_Orthogonal(t *testing.T) {
	got := Similarity([]float32{1, 0}, []float32{0, 1})
	if got != 0 {
		t.Errorf("orthogonal vectors scored %v, want 0", got)
	}
}

func TestSimilarity_NegativeClampsToZero(t *testing.T) {
	got := Similarity([]float32{1, 0}, []float32{-1, 0})
	if got != 0 {
		t.Errorf("opposite vectors scored %v, want 0 (clamped)", got)
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.9, -0.4},
		{-0.7, 0.2, 0.5},
		{0, 0, 0},
		{1, 1, 1},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			got := Similarity(a, b)
			if got < 0 || got > 1 {
				t.Errorf("Similarity(%v, %v) = %v, outside [0,1]", a, b, got)
			}
		}
	}
}

func TestSimilarity_ZeroVector(t *testing.T) {
	if got := Similarity([]float32{0, 0}, []float32{1, 2}); got != 0 {
		t.Errorf("zero vector scored %v, want 0", got)
	}
}

func TestSimilarity_DimensionMismatch(t *testing.T) {
	if got := Similarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("mismatched dimensions scored %v, want 0", got)
	}
}

func TestSimilarity_RelativeOrdering(t *testing.T) {
	job := []float32{0.9, 0.8, 0.1}
	close := []float32{0.85, 0.75, 0.2}
	far := []float32{-0.1, 0.05, 0.95}

	if Similarity(job, close) <= Similarity(job, far) {
		t.Error("expected the closer vector to score higher")
	}
}
