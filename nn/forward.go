package nn

import (
	"fmt"
)

// Forward runs a single sample through the network and returns every
// intermediate vector.
//
// pixels must have exactly InputSize() values, conceptually in [0,1];
// out-of-range values are passed through, clamping is the producer's job.
// Std must be > 0 — a zero Std propagates ±Inf/NaN through the pass, it is
// not guarded here.
func (n *Network) Forward(pixels []float32) (*ForwardResult, error) {
	if len(pixels) != n.InputSize() {
		return nil, fmt.Errorf("forward: input has %d values, network expects %d", len(pixels), n.InputSize())
	}

	normalized := make([]float32, len(pixels))
	for i, v := range pixels {
		normalized[i] = (v - n.Mean) / n.Std
	}

	res := &ForwardResult{
		NormalizedInput: normalized,
		PreActivations:  make([][]float32, len(n.Layers)),
		Activations:     make([][]float32, len(n.Layers)+1),
	}
	res.Activations[0] = normalized

	current := normalized
	for li := range n.Layers {
		layer := &n.Layers[li]
		outSize := layer.OutputSize()

		preAct := make([]float32, outSize)
		postAct := make([]float32, outSize)
		for j := 0; j < outSize; j++ {
			sum := layer.Biases[j] + dotVec(layer.Weights[j], current)
			preAct[j] = sum
			postAct[j] = activate(sum, layer.Activation)
		}

		res.PreActivations[li] = preAct
		res.Activations[li+1] = postAct
		current = postAct
	}

	return res, nil
}

// Probabilities returns the class distribution of a completed pass: softmax
// over the final layer's pre-activation vector.
func (r *ForwardResult) Probabilities() []float32 {
	return Softmax(r.PreActivations[len(r.PreActivations)-1])
}
