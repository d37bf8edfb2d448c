package nn

import (
	"math"

	"github.com/klauspost/cpuid/v2"
)

// dotVec computes the dense accumulation w·x. It is the inner loop of every
// forward pass, so the kernel is picked once at startup based on what the
// CPU can retire per cycle.
var dotVec func(w, x []float32) float32

func init() {
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		dotVec = dotUnrolled
	} else {
		dotVec = dotScalar
	}
}

func dotScalar(w, x []float32) float32 {
	var sum float32
	for k := range w {
		sum += w[k] * x[k]
	}
	return sum
}

// dotUnrolled keeps four independent accumulators so wide cores can overlap
// the multiply-adds.
func dotUnrolled(w, x []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(w)
	k := 0
	for ; k+4 <= n; k += 4 {
		s0 += w[k] * x[k]
		s1 += w[k+1] * x[k+1]
		s2 += w[k+2] * x[k+2]
		s3 += w[k+3] * x[k+3]
	}
	for ; k < n; k++ {
		s0 += w[k] * x[k]
	}
	return (s0 + s1) + (s2 + s3)
}

// activate applies the activation function to a single pre-activation value
func activate(v float32, activation ActivationType) float32 {
	switch activation {
	case ActivationReLU:
		if v < 0 {
			return 0
		}
		return v
	default:
		return v
	}
}

// Softmax converts logits into a probability distribution. The maximum logit
// is subtracted before exponentiating for numerical stability; if every
// exponentiated term underflows to zero the result is all zeros rather than
// a division by zero. An empty input yields an empty output.
func Softmax(logits []float32) []float32 {
	probs := make([]float32, len(logits))
	if len(logits) == 0 {
		return probs
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	sum := float32(0.0)
	for i, v := range logits {
		probs[i] = float32(math.Exp(float64(v - maxLogit)))
		sum += probs[i]
	}

	if sum == 0 {
		for i := range probs {
			probs[i] = 0
		}
		return probs
	}

	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax returns the index of the largest value, or -1 for an empty vector
func Argmax(v []float32) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i, x := range v[1:] {
		if x > v[best] {
			best = i + 1
		}
	}
	return best
}
