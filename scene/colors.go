package scene

// RGBA is one instance color as stored in the color buffer
type RGBA [4]float32

var (
	// idleColor is the resting color of an instance whose signal is below
	// its near-zero threshold.
	idleColor = RGBA{0.10, 0.11, 0.15, 1}

	// positiveColor and negativeColor are the hue ramp endpoints for the
	// two signal signs.
	positiveColor = RGBA{1.00, 0.58, 0.10, 1}
	negativeColor = RGBA{0.16, 0.50, 1.00, 1}
)

const (
	// neuronThreshold and linkThreshold are the normalized magnitudes below
	// which an instance reverts to the idle color.
	neuronThreshold = 0.04
	linkThreshold   = 0.02

	// scaleFloor keeps the normalization denominator away from zero when a
	// whole layer is quiet.
	scaleFloor = 1e-6
)

// signalColor maps a signed value to a color: sign picks the hue ramp,
// normalized magnitude picks how far the color has moved from idle toward
// the ramp endpoint. scale is the layer-wide normalization denominator and
// is floored before use.
func signalColor(value, scale, threshold float32) RGBA {
	if scale < scaleFloor {
		scale = scaleFloor
	}

	t := value / scale
	if t < 0 {
		t = -t
	}
	if t < threshold {
		return idleColor
	}
	if t > 1 {
		t = 1
	}

	ramp := positiveColor
	if value < 0 {
		ramp = negativeColor
	}

	var out RGBA
	for i := 0; i < 3; i++ {
		out[i] = idleColor[i] + (ramp[i]-idleColor[i])*t
	}
	out[3] = 1
	return out
}
