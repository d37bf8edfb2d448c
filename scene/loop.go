package scene

import (
	"fmt"
	"sync"
	"time"

	"github.com/openfluke/netscope/nn"
)

// Loop drives the continuous redraw. Each tick drains at most one pending
// recompute (forward pass + recolor) and then re-issues the draw call, so
// any number of input edits within one frame interval collapse into a
// single inference.
type Loop struct {
	net      *nn.Network
	manager  *Manager
	renderer *Renderer
	camera   *Camera

	// OnProbabilities, when set, receives the class distribution after
	// every recompute. This is the boundary to the probability chart.
	OnProbabilities func([]float32)

	interval time.Duration

	mu      sync.Mutex
	pending []float32
	dirty   bool

	stop chan struct{}
	done chan struct{}
}

// NewLoop wires the render loop. The network must already be loaded and the
// manager built; the loop never starts before that.
func NewLoop(net *nn.Network, manager *Manager, renderer *Renderer, camera *Camera, fps int) *Loop {
	return &Loop{
		net:      net,
		manager:  manager,
		renderer: renderer,
		camera:   camera,
		interval: time.Second / time.Duration(fps),
		pending:  make([]float32, net.InputSize()),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Push hands the loop a changed input buffer. Safe to call at any rate:
// edits are coalesced and exactly one recompute runs at the next frame
// boundary no matter how many pushes happened in between.
func (l *Loop) Push(pixels []float32) error {
	if len(pixels) != l.net.InputSize() {
		return fmt.Errorf("push: input has %d values, network expects %d", len(pixels), l.net.InputSize())
	}
	l.mu.Lock()
	copy(l.pending, pixels)
	l.dirty = true
	l.mu.Unlock()
	return nil
}

// Orbit rotates the camera; independent of the inference/recolor path
func (l *Loop) Orbit(dYaw, dPitch float64) {
	l.camera.Orbit(dYaw, dPitch)
}

// Zoom scales the camera distance
func (l *Loop) Zoom(factor float64) {
	l.camera.Zoom(factor)
}

// Resize changes the render target size. Never triggers a recompute or a
// recolor.
func (l *Loop) Resize(width, height uint32) error {
	return l.renderer.Resize(width, height)
}

// Run ticks until Stop is called, rendering one frame per interval. The
// first render failure ends the loop.
func (l *Loop) Run() error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return nil
		case <-ticker.C:
			if err := l.tick(); err != nil {
				return err
			}
		}
	}
}

// Stop ends the loop and waits for the current frame to finish
func (l *Loop) Stop() {
	close(l.stop)
	<-l.done
}

// tick drains at most one pending recompute, then redraws from committed
// state
func (l *Loop) tick() error {
	if input, ok := l.takePending(); ok {
		res, err := l.net.Forward(input)
		if err != nil {
			return fmt.Errorf("recompute: %v", err)
		}
		l.manager.Update(res, input)
		if err := l.manager.Flush(); err != nil {
			return err
		}
		if l.OnProbabilities != nil {
			l.OnProbabilities(res.Probabilities())
		}
	}

	return l.renderer.RenderFrame(l.camera, l.manager.Sets())
}

// takePending returns a copy of the coalesced input if any edit arrived
// since the last tick
func (l *Loop) takePending() ([]float32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return nil, false
	}
	l.dirty = false
	input := make([]float32, len(l.pending))
	copy(input, l.pending)
	return input, true
}
