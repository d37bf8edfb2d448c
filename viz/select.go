package viz

import (
	"math"
	"sort"

	"github.com/openfluke/netscope/nn"
)

// Edge is one rendered connection: a (source, target) pair of neuron indices
// in adjacent layers and the static weight between them
type Edge struct {
	Source int
	Target int
	Weight float32
}

// Selection is the drawable subset of one layer's weight matrix
type Selection struct {
	Edges []Edge

	// MaxAbsWeight is the largest magnitude over every finite candidate in
	// the layer, selected or not. The scene uses it as the color-scale
	// fallback when all live contributions are near zero.
	MaxAbsWeight float32
}

// SelectConnections reduces a layer's full weight matrix to at most limit
// incoming edges per target neuron, ranked by magnitude.
//
// The cut is per target, not global: every target keeps its own strongest
// min(limit, inputWidth) edges regardless of how they compare to other
// targets, so no neuron ever renders disconnected. Ties keep the original
// column order. NaN and infinite weights are skipped as if absent.
func SelectConnections(layer *nn.Layer, limit int) Selection {
	sel := Selection{}
	if limit <= 0 {
		return sel
	}

	candidates := make([]Edge, 0, layer.InputSize())
	for target, row := range layer.Weights {
		candidates = candidates[:0]
		for source, w := range row {
			w64 := float64(w)
			if math.IsNaN(w64) || math.IsInf(w64, 0) {
				continue
			}
			candidates = append(candidates, Edge{Source: source, Target: target, Weight: w})
			if abs := float32(math.Abs(w64)); abs > sel.MaxAbsWeight {
				sel.MaxAbsWeight = abs
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return math.Abs(float64(candidates[i].Weight)) > math.Abs(float64(candidates[j].Weight))
		})

		keep := limit
		if keep > len(candidates) {
			keep = len(candidates)
		}
		sel.Edges = append(sel.Edges, candidates[:keep]...)
	}

	return sel
}
