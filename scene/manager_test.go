package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/netscope/nn"
)

func testNetwork(t *testing.T) *nn.Network {
	t.Helper()
	net, err := nn.NewNetwork(&nn.ModelDocument{
		Normalization: nn.NormalizationDoc{Mean: 0, Std: 1},
		Layers: []nn.LayerDocument{
			{
				Weights: [][]float32{
					{0.9, 0.1, 0.0, 0.0},
					{0.0, 0.0, -0.8, 0.2},
				},
				Biases: []float32{0, 0},
			},
		},
	})
	require.NoError(t, err)
	return net
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ConnectionLimit = 2
	cfg.InputRows = 2
	cfg.InputCols = 2
	return cfg
}

func TestManagerInstanceCounts(t *testing.T) {
	m := NewManager(testNetwork(t), testConfig())

	assert.Equal(t, 4, m.NeuronSet(0).Count)
	assert.Equal(t, 2, m.NeuronSet(1).Count)
	// limit 2 per target, 2 targets
	assert.Equal(t, 4, m.LinkSet(0).Count)
	assert.Len(t, m.Sets(), 3)
}

func TestManagerUpdateColorsNeurons(t *testing.T) {
	net := testNetwork(t)
	m := NewManager(net, testConfig())

	input := []float32{1, 0, 0, 0}
	res, err := net.Forward(input)
	require.NoError(t, err)
	m.Update(res, input)

	in := m.NeuronSet(0)
	// the painted pixel saturates its ramp, untouched pixels idle
	assert.Equal(t, positiveColor, in.Color(0))
	assert.Equal(t, idleColor, in.Color(1))

	// output neuron 0 fires (0.9), neuron 1 stays at 0
	out := m.NeuronSet(1)
	assert.Equal(t, positiveColor, out.Color(0))
	assert.Equal(t, idleColor, out.Color(1))
}

func TestManagerUpdateContributionSign(t *testing.T) {
	net := testNetwork(t)
	m := NewManager(net, testConfig())

	// drive the input connected through the -0.8 weight
	input := []float32{0, 0, 1, 0}
	res, err := net.Forward(input)
	require.NoError(t, err)
	m.Update(res, input)

	links := m.LinkSet(0)
	sel := m.Selection(0)
	for i, e := range sel.Edges {
		c := links.Color(i)
		switch {
		case e.Source == 2 && e.Target == 1:
			// contribution 1 * -0.8: the strongest, negative
			assert.Equal(t, negativeColor, c)
		default:
			// every other source activation is 0, contribution 0
			assert.Equal(t, idleColor, c)
		}
	}
}

func TestManagerUpdateAllQuietUsesIdle(t *testing.T) {
	net := testNetwork(t)
	m := NewManager(net, testConfig())

	input := []float32{0, 0, 0, 0}
	res, err := net.Forward(input)
	require.NoError(t, err)
	m.Update(res, input)

	for _, set := range m.Sets() {
		for i := 0; i < set.Count; i++ {
			assert.Equal(t, idleColor, set.Color(i), "%s[%d]", set.Label, i)
		}
	}
}

func TestManagerUpdateNeverTouchesTransforms(t *testing.T) {
	net := testNetwork(t)
	m := NewManager(net, testConfig())

	before := make(map[string][]float32)
	for _, set := range m.Sets() {
		snapshot := make([]float32, len(set.transforms))
		copy(snapshot, set.transforms)
		before[set.Label] = snapshot
	}

	for _, input := range [][]float32{{1, 0, 0, 0}, {0, 1, 0.5, 0.2}, {0, 0, 0, 0}} {
		res, err := net.Forward(input)
		require.NoError(t, err)
		m.Update(res, input)
	}

	for _, set := range m.Sets() {
		assert.Equal(t, before[set.Label], set.transforms, "%s transforms changed", set.Label)
	}
}

func TestManagerInputLayerShowsRawPixels(t *testing.T) {
	// mean/std shift the normalized input negative, but the display color of
	// the input layer comes from the raw buffer
	net, err := nn.NewNetwork(&nn.ModelDocument{
		Normalization: nn.NormalizationDoc{Mean: 0.5, Std: 0.5},
		Layers: []nn.LayerDocument{
			{Weights: [][]float32{{1, 1, 1, 1}}, Biases: []float32{0}},
		},
	})
	require.NoError(t, err)
	m := NewManager(net, testConfig())

	input := []float32{0, 0, 0, 1}
	res, err := net.Forward(input)
	require.NoError(t, err)
	m.Update(res, input)

	in := m.NeuronSet(0)
	// raw 0 pixels idle even though their normalized value is -1
	assert.Equal(t, idleColor, in.Color(0))
	assert.NotEqual(t, idleColor, in.Color(3))
}

func TestManagerExtent(t *testing.T) {
	m := NewManager(testNetwork(t), testConfig())
	assert.Greater(t, m.Extent(), 0.0)
}
