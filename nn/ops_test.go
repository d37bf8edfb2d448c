package nn

import (
	"math"
	"testing"
)

// TestSoftmaxSumsToOne verifies normalization for ordinary logits
func TestSoftmaxSumsToOne(t *testing.T) {
	probs := Softmax([]float32{1.0, 2.0, 3.0, 4.0})
	sum := float32(0)
	for _, p := range probs {
		if p < 0 {
			t.Errorf("negative probability %f", p)
		}
		sum += p
	}
	if math.Abs(float64(sum-1.0)) > 1e-6 {
		t.Errorf("probabilities sum to %f, expected 1", sum)
	}
}

// TestSoftmaxShiftInvariant verifies that adding a constant to every logit
// does not change the distribution
func TestSoftmaxShiftInvariant(t *testing.T) {
	a := Softmax([]float32{0.5, -1.2, 3.3})
	b := Softmax([]float32{100.5, 98.8, 103.3})
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			t.Errorf("index %d: %f vs %f after shift", i, a[i], b[i])
		}
	}
}

// TestSoftmaxSingleton verifies a one-class distribution is exactly [1]
func TestSoftmaxSingleton(t *testing.T) {
	probs := Softmax([]float32{-1234.5})
	if probs[0] != 1 {
		t.Errorf("singleton softmax should be [1], got %v", probs)
	}
}

// TestSoftmaxExtremeLogits verifies stability for magnitudes that would
// overflow exp without the max subtraction
func TestSoftmaxExtremeLogits(t *testing.T) {
	probs := Softmax([]float32{1000, 1000})
	for i, p := range probs {
		if math.Abs(float64(p-0.5)) > 1e-6 {
			t.Errorf("index %d: got %f, expected 0.5", i, p)
		}
	}
}

// TestSoftmaxEmpty verifies an empty input yields an empty distribution
func TestSoftmaxEmpty(t *testing.T) {
	if got := Softmax(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %v", got)
	}
}

// TestDotKernelsAgree verifies the unrolled kernel matches the scalar one
func TestDotKernelsAgree(t *testing.T) {
	w := make([]float32, 131)
	x := make([]float32, 131)
	for i := range w {
		w[i] = float32(i%7) - 3.0
		x[i] = float32(i%5) * 0.25
	}
	a := dotScalar(w, x)
	b := dotUnrolled(w, x)
	if math.Abs(float64(a-b)) > 1e-3 {
		t.Errorf("scalar %f vs unrolled %f", a, b)
	}
}

func TestArgmax(t *testing.T) {
	if got := Argmax([]float32{0.1, 0.7, 0.2}); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := Argmax(nil); got != -1 {
		t.Errorf("expected -1 for empty input, got %d", got)
	}
}
