package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/openfluke/netscope/nn"
	"github.com/openfluke/netscope/viz"
)

// Manager owns one instanced mesh per layer (neurons) and one per
// layer-to-layer transition (rendered connections). Geometry and transforms
// are built exactly once from the static model; Update only rewrites colors.
type Manager struct {
	cfg Config
	net *nn.Network

	positions  [][]r3.Vec      // per level, one coordinate per neuron
	selections []viz.Selection // per transition
	neurons    []*InstanceSet  // per level
	links      []*InstanceSet  // per transition

	// contribScratch is reused every update to avoid per-frame allocation.
	contribScratch [][]float32
}

// NewManager lays out the network and selects the rendered connections.
// Runs the one-time O(weights log weights) work; no GPU access yet.
func NewManager(net *nn.Network, cfg Config) *Manager {
	arch := net.Architecture
	layout := &viz.Layout{
		InputSpacing:  cfg.InputSpacing,
		HiddenSpacing: cfg.HiddenSpacing,
		LayerSpacing:  cfg.LayerSpacing,
		InputRows:     cfg.InputRows,
		InputCols:     cfg.InputCols,
		Levels:        len(arch),
	}

	m := &Manager{
		cfg:            cfg,
		net:            net,
		positions:      make([][]r3.Vec, len(arch)),
		selections:     make([]viz.Selection, len(net.Layers)),
		neurons:        make([]*InstanceSet, len(arch)),
		links:          make([]*InstanceSet, len(net.Layers)),
		contribScratch: make([][]float32, len(net.Layers)),
	}

	for level, count := range arch {
		m.positions[level] = layout.Positions(level, count)

		set := NewInstanceSet(fmt.Sprintf("L%d_Neurons", level), count)
		for i, p := range m.positions[level] {
			set.SetTransform(i, Mul(Translate(p), Scale(cfg.NeuronScale, cfg.NeuronScale, cfg.NeuronScale)))
		}
		m.neurons[level] = set
	}

	for t := range net.Layers {
		sel := viz.SelectConnections(&net.Layers[t], cfg.ConnectionLimit)
		m.selections[t] = sel
		m.contribScratch[t] = make([]float32, len(sel.Edges))

		set := NewInstanceSet(fmt.Sprintf("L%d_Links", t), len(sel.Edges))
		for i, e := range sel.Edges {
			set.SetTransform(i, SegmentTransform(m.positions[t][e.Source], m.positions[t+1][e.Target], cfg.LinkThickness))
		}
		m.links[t] = set
	}

	return m
}

// Alloc creates every GPU buffer and uploads the transforms. Build-time
// only; after this, no call path reallocates instance storage.
func (m *Manager) Alloc() error {
	for _, set := range m.Sets() {
		if err := set.Alloc(); err != nil {
			return err
		}
	}
	return nil
}

// Update recolors every instance from one forward pass. rawInput, when
// present, is the un-normalized pixel buffer shown on the input layer; the
// normalization scale still comes from the actual (normalized) activations
// so neuron and connection coloring stay inference-consistent.
//
// Only color arrays change here. Transforms, selections, and buffer
// allocations are never touched.
func (m *Manager) Update(res *nn.ForwardResult, rawInput []float32) {
	for level, set := range m.neurons {
		actual := res.Activations[level]
		display := actual
		if level == 0 && rawInput != nil {
			display = rawInput
		}

		scale := maxAbs(actual)
		for i := 0; i < set.Count; i++ {
			set.SetColor(i, signalColor(display[i], scale, neuronThreshold))
		}
	}

	for t, set := range m.links {
		source := res.Activations[t]
		contribs := m.contribScratch[t]

		// contribution = source activation x edge weight: the live signal
		// over the edge, not the static weight
		frameMax := float32(0)
		for i, e := range m.selections[t].Edges {
			c := source[e.Source] * e.Weight
			contribs[i] = c
			if c < 0 {
				c = -c
			}
			if c > frameMax {
				frameMax = c
			}
		}

		scale := frameMax
		if scale < scaleFloor {
			scale = m.selections[t].MaxAbsWeight
		}
		for i, c := range contribs {
			set.SetColor(i, signalColor(c, scale, linkThreshold))
		}
	}
}

// Flush pushes every dirty color array to the GPU
func (m *Manager) Flush() error {
	for _, set := range m.Sets() {
		if err := set.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Sets returns every instance set in draw order: neurons first, then links
func (m *Manager) Sets() []*InstanceSet {
	out := make([]*InstanceSet, 0, len(m.neurons)+len(m.links))
	out = append(out, m.neurons...)
	out = append(out, m.links...)
	return out
}

// Extent returns the world-space span of the scene along its widest axis,
// used to place the default camera
func (m *Manager) Extent() float64 {
	max := 1.0
	for _, level := range m.positions {
		for _, p := range level {
			for _, v := range []float64{p.X, p.Y, p.Z} {
				if v > max {
					max = v
				}
				if -v > max {
					max = -v
				}
			}
		}
	}
	return max * 2
}

// NeuronSet returns the instance set of one layer level
func (m *Manager) NeuronSet(level int) *InstanceSet { return m.neurons[level] }

// LinkSet returns the instance set of one layer transition
func (m *Manager) LinkSet(transition int) *InstanceSet { return m.links[transition] }

// Selection returns the edge selection of one layer transition
func (m *Manager) Selection(transition int) viz.Selection { return m.selections[transition] }

// Cleanup releases every GPU buffer owned by the manager
func (m *Manager) Cleanup() {
	for _, set := range m.Sets() {
		set.Cleanup()
	}
}

func maxAbs(v []float32) float32 {
	var max float32
	for _, x := range v {
		if x < 0 {
			x = -x
		}
		if x > max {
			max = x
		}
	}
	return max
}
