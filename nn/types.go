package nn

// ActivationType defines the activation function used in a layer
type ActivationType int

const (
	ActivationIdentity ActivationType = 0 // v unchanged
	ActivationReLU     ActivationType = 1 // max(0, v)
)

// Layer is one fully-connected transformation plus its activation.
// Weights are row-major: Weights[j][k] connects input neuron k of the
// previous layer to output neuron j. Immutable once loaded.
type Layer struct {
	Name       string
	Weights    [][]float32
	Biases     []float32
	Activation ActivationType
}

// InputSize returns the expected input width of the layer
func (l *Layer) InputSize() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

// OutputSize returns the number of output neurons of the layer
func (l *Layer) OutputSize() int {
	return len(l.Weights)
}

// Network is an ordered stack of dense layers plus the input normalization
// applied before layer 0.
type Network struct {
	Layers []Layer

	// Input normalization: x' = (x - Mean) / Std.
	// Std must be > 0; Forward does not guard the division.
	Mean float32
	Std  float32

	// Architecture lists neuron counts per layer including the input width,
	// so len(Architecture) == len(Layers)+1.
	Architecture []int
}

// InputSize returns the expected width of the raw input vector
func (n *Network) InputSize() int {
	return n.Architecture[0]
}

// OutputSize returns the width of the final layer
func (n *Network) OutputSize() int {
	return n.Architecture[len(n.Architecture)-1]
}

// ForwardResult holds every intermediate vector of a single forward pass.
// All slices are freshly allocated per pass; nothing is reused or aliased.
type ForwardResult struct {
	// NormalizedInput is the mean/std-normalized input, same backing array
	// as Activations[0].
	NormalizedInput []float32

	// PreActivations[i] is the linear sum of layer i before the nonlinearity.
	PreActivations [][]float32

	// Activations[0] is the normalized input; Activations[i+1] is the output
	// of layer i. Length is always len(Layers)+1.
	Activations [][]float32
}

// Output returns the activation vector of the final layer
func (r *ForwardResult) Output() []float32 {
	return r.Activations[len(r.Activations)-1]
}
