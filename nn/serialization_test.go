package nn

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewNetworkEmptyLayers verifies the empty-stack rejection happens at
// construction, before anything can render
func TestNewNetworkEmptyLayers(t *testing.T) {
	_, err := NewNetwork(&ModelDocument{Normalization: NormalizationDoc{Std: 1}})
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

// TestNewNetworkRowWidthMismatch verifies a weight row disagreeing with the
// previous layer's output width fails at construction, never at forward time
func TestNewNetworkRowWidthMismatch(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Layers: []LayerDocument{
			{Weights: [][]float32{{1, 2}, {3, 4}, {5, 6}}, Biases: []float32{0, 0, 0}},
			// previous layer emits 3 values, rows here only accept 2
			{Weights: [][]float32{{1, 2}}, Biases: []float32{0}},
		},
	}
	_, err := NewNetwork(doc)
	var dim *DimensionMismatchError
	if !errors.As(err, &dim) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if dim.Layer != 1 || dim.Got != 2 || dim.Want != 3 {
		t.Errorf("unexpected mismatch detail: %+v", dim)
	}
}

// TestNewNetworkRaggedRows verifies rows of unequal length are rejected
func TestNewNetworkRaggedRows(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Layers: []LayerDocument{
			{Weights: [][]float32{{1, 2}, {3}}, Biases: []float32{0, 0}},
		},
	}
	var dim *DimensionMismatchError
	if _, err := NewNetwork(doc); !errors.As(err, &dim) {
		t.Errorf("expected DimensionMismatchError, got %v", err)
	}
}

// TestNewNetworkBiasLengthMismatch verifies biases must match the row count
func TestNewNetworkBiasLengthMismatch(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Layers: []LayerDocument{
			{Weights: [][]float32{{1, 2}, {3, 4}}, Biases: []float32{0}},
		},
	}
	var dim *DimensionMismatchError
	if _, err := NewNetwork(doc); !errors.As(err, &dim) {
		t.Errorf("expected DimensionMismatchError, got %v", err)
	}
}

// TestNewNetworkDerivesArchitecture verifies the architecture falls out of
// the layer shapes when the document omits it
func TestNewNetworkDerivesArchitecture(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Layers: []LayerDocument{
			{Weights: [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}, Biases: []float32{0, 0}},
			{Weights: [][]float32{{1, 2}}, Biases: []float32{0}},
		},
	}
	net, err := NewNetwork(doc)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	want := []int{4, 2, 1}
	if len(net.Architecture) != len(want) {
		t.Fatalf("architecture %v, expected %v", net.Architecture, want)
	}
	for i := range want {
		if net.Architecture[i] != want[i] {
			t.Errorf("architecture %v, expected %v", net.Architecture, want)
			break
		}
	}
}

// TestNewNetworkArchitectureConflict verifies a supplied architecture that
// disagrees with the layer shapes is rejected
func TestNewNetworkArchitectureConflict(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Architecture:  []int{4, 3},
		Layers: []LayerDocument{
			{Weights: [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}, Biases: []float32{0, 0}},
		},
	}
	if _, err := NewNetwork(doc); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

// TestNewNetworkUnknownActivation verifies unknown activation names are
// rejected instead of coerced
func TestNewNetworkUnknownActivation(t *testing.T) {
	doc := &ModelDocument{
		Normalization: NormalizationDoc{Std: 1},
		Layers: []LayerDocument{
			{Activation: "softsign", Weights: [][]float32{{1}}, Biases: []float32{0}},
		},
	}
	if _, err := NewNetwork(doc); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

// TestLoadModelRoundTrip verifies a document on disk loads into a working
// network
func TestLoadModelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	body := `{
		"normalization": {"mean": 0.1307, "std": 0.3081},
		"layers": [
			{"name": "hidden", "activation": "relu",
			 "weights": [[0.5, -0.5], [1.0, 1.0]], "biases": [0.0, 0.1]},
			{"activation": "identity",
			 "weights": [[1.0, -1.0]], "biases": [0.0]}
		]
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	net, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if net.InputSize() != 2 || net.OutputSize() != 1 {
		t.Errorf("unexpected shape: in=%d out=%d", net.InputSize(), net.OutputSize())
	}
	if net.Layers[0].Name != "hidden" || net.Layers[0].Activation != ActivationReLU {
		t.Errorf("layer 0 not decoded as expected: %+v", net.Layers[0])
	}
	if _, err := net.Forward([]float32{0.2, 0.8}); err != nil {
		t.Errorf("Forward on loaded model: %v", err)
	}
}

// TestLoadModelMissingFile verifies a missing document is a load error
func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing model file")
	}
}
