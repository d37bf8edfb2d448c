package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Layout places neurons in 3D space. Placement depends only on topology and
// the configured spacings, never on weights, so positions are computed once
// and are re-derivable at any time.
type Layout struct {
	// InputSpacing is the gap between adjacent input-layer neurons.
	InputSpacing float64

	// HiddenSpacing is the gap for hidden and output layers, typically
	// larger since those layers hold far fewer neurons.
	HiddenSpacing float64

	// LayerSpacing is the distance between consecutive layers along the
	// depth axis.
	LayerSpacing float64

	// InputRows and InputCols describe the known image shape of the input
	// layer (e.g. 28x28). Used only when their product matches the neuron
	// count exactly.
	InputRows int
	InputCols int

	// Levels is the number of neuron layers including the input, i.e.
	// len(Architecture). The stack is centered on the origin along the
	// depth axis.
	Levels int
}

// Positions returns one coordinate per neuron for the given layer, filled
// row-major and centered on the layer's local origin. The whole stack
// straddles the origin along Z: layer i sits at (i - (Levels-1)/2) *
// LayerSpacing.
func (l *Layout) Positions(layerIndex, neuronCount int) []r3.Vec {
	if neuronCount <= 0 {
		return nil
	}

	spacing := l.HiddenSpacing
	if layerIndex == 0 {
		spacing = l.InputSpacing
	}

	rows, cols := l.gridDims(layerIndex, neuronCount)
	z := (float64(layerIndex) - float64(l.Levels-1)/2) * l.LayerSpacing

	positions := make([]r3.Vec, neuronCount)
	for i := 0; i < neuronCount; i++ {
		row := i / cols
		col := i % cols
		positions[i] = r3.Vec{
			X: (float64(col) - float64(cols-1)/2) * spacing,
			Y: (float64(rows-1)/2 - float64(row)) * spacing,
			Z: z,
		}
	}
	return positions
}

// gridDims picks the grid shape for a layer: the exact image grid for an
// input layer whose count matches it, a ceil-sqrt square otherwise.
func (l *Layout) gridDims(layerIndex, neuronCount int) (rows, cols int) {
	if layerIndex == 0 && l.InputRows > 0 && l.InputCols > 0 && l.InputRows*l.InputCols == neuronCount {
		return l.InputRows, l.InputCols
	}
	cols = int(math.Ceil(math.Sqrt(float64(neuronCount))))
	rows = (neuronCount + cols - 1) / cols
	return rows, cols
}
