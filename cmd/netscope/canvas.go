package main

// canvas is the minimal stand-in for the pointer-drawn paint surface: a
// fixed-size intensity buffer in [0,1] plus a change notification. The real
// brush model lives outside the core; this shim only honors the boundary
// contract.
type canvas struct {
	rows, cols int
	pixels     []float32
	onChange   func(pixels []float32)
}

func newCanvas(rows, cols int, onChange func([]float32)) *canvas {
	return &canvas{
		rows:     rows,
		cols:     cols,
		pixels:   make([]float32, rows*cols),
		onChange: onChange,
	}
}

// paint adds intensity to one pixel, clamped to [0,1], and notifies
func (c *canvas) paint(row, col int, intensity float32) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	v := c.pixels[row*c.cols+col] + intensity
	if v > 1 {
		v = 1
	}
	if v < 0 {
		v = 0
	}
	c.pixels[row*c.cols+col] = v
	c.onChange(c.pixels)
}

// clear resets the surface and notifies once
func (c *canvas) clear() {
	for i := range c.pixels {
		c.pixels[i] = 0
	}
	c.onChange(c.pixels)
}

// strokeDemo resets the surface, then paints a diagonal stroke with a soft
// edge so a headless run still produces a non-trivial forward pass
func (c *canvas) strokeDemo() {
	c.clear()
	n := c.rows
	if c.cols < n {
		n = c.cols
	}
	for i := 0; i < n; i++ {
		c.paint(i, i, 1.0)
		c.paint(i, i-1, 0.4)
		c.paint(i-1, i, 0.4)
	}
}
