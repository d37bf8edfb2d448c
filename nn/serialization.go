package nn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidDefinition marks a model document that cannot describe a usable
// network: no layers, a layer without weights, or an unknown activation name.
var ErrInvalidDefinition = errors.New("invalid network definition")

// DimensionMismatchError reports a weight row or bias vector whose length
// disagrees with the surrounding architecture. Always raised at load time so
// a bad export can never reach a forward pass.
type DimensionMismatchError struct {
	Layer int
	What  string
	Got   int
	Want  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("layer %d: %s has length %d, expected %d", e.Layer, e.What, e.Got, e.Want)
}

// ModelDocument is the on-disk JSON shape of a trained model export
type ModelDocument struct {
	Normalization NormalizationDoc `json:"normalization"`
	Architecture  []int            `json:"architecture,omitempty"`
	Layers        []LayerDocument  `json:"layers"`
}

// NormalizationDoc holds the input normalization constants
type NormalizationDoc struct {
	Mean float32 `json:"mean"`
	Std  float32 `json:"std"`
}

// LayerDocument describes a single dense layer in the export.
// Weights are row-major: one row per output neuron.
type LayerDocument struct {
	Name       string      `json:"name,omitempty"`
	Activation string      `json:"activation,omitempty"`
	Weights    [][]float32 `json:"weights"`
	Biases     []float32   `json:"biases"`
}

// LoadModel reads and validates a model document from disk
func LoadModel(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %v", err)
	}

	var doc ModelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load model %s: %v", path, err)
	}

	net, err := NewNetwork(&doc)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return net, nil
}

// NewNetwork validates a model document and builds the immutable network.
// Every structural problem is caught here; Forward assumes a valid network.
func NewNetwork(doc *ModelDocument) (*Network, error) {
	if len(doc.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidDefinition)
	}

	net := &Network{
		Layers: make([]Layer, len(doc.Layers)),
		Mean:   doc.Normalization.Mean,
		Std:    doc.Normalization.Std,
	}

	prevWidth := -1
	for i, ld := range doc.Layers {
		if len(ld.Weights) == 0 {
			return nil, fmt.Errorf("%w: layer %d has no weight rows", ErrInvalidDefinition, i)
		}

		rowWidth := len(ld.Weights[0])
		if rowWidth == 0 {
			return nil, fmt.Errorf("%w: layer %d has empty weight rows", ErrInvalidDefinition, i)
		}
		for j, row := range ld.Weights {
			if len(row) != rowWidth {
				return nil, &DimensionMismatchError{Layer: i, What: fmt.Sprintf("weight row %d", j), Got: len(row), Want: rowWidth}
			}
		}
		if prevWidth >= 0 && rowWidth != prevWidth {
			return nil, &DimensionMismatchError{Layer: i, What: "weight row", Got: rowWidth, Want: prevWidth}
		}
		if len(ld.Biases) != len(ld.Weights) {
			return nil, &DimensionMismatchError{Layer: i, What: "bias vector", Got: len(ld.Biases), Want: len(ld.Weights)}
		}

		act, err := parseActivation(ld.Activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		net.Layers[i] = Layer{
			Name:       ld.Name,
			Weights:    ld.Weights,
			Biases:     ld.Biases,
			Activation: act,
		}
		prevWidth = len(ld.Weights)
	}

	derived := deriveArchitecture(net.Layers)
	if len(doc.Architecture) > 0 {
		if len(doc.Architecture) != len(derived) {
			return nil, fmt.Errorf("%w: architecture has %d entries, layers imply %d", ErrInvalidDefinition, len(doc.Architecture), len(derived))
		}
		for i, want := range doc.Architecture {
			if derived[i] != want {
				return nil, fmt.Errorf("%w: architecture entry %d is %d, layers imply %d", ErrInvalidDefinition, i, want, derived[i])
			}
		}
		net.Architecture = doc.Architecture
	} else {
		net.Architecture = derived
	}

	return net, nil
}

// deriveArchitecture reads neuron counts off the layer stack:
// [layer0 input width, layer0 output width, layer1 output width, ...]
func deriveArchitecture(layers []Layer) []int {
	arch := make([]int, 0, len(layers)+1)
	arch = append(arch, layers[0].InputSize())
	for i := range layers {
		arch = append(arch, layers[i].OutputSize())
	}
	return arch
}

func parseActivation(name string) (ActivationType, error) {
	switch name {
	case "", "identity", "linear":
		return ActivationIdentity, nil
	case "relu":
		return ActivationReLU, nil
	default:
		return 0, fmt.Errorf("%w: unknown activation %q", ErrInvalidDefinition, name)
	}
}
