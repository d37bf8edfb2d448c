// Package scene renders the network as GPU-instanced geometry: one cube per
// neuron, one stretched cube per rendered connection. Transforms are
// computed once at build time from the static layout; every input change
// rewrites only the per-instance color buffers before the next frame.
package scene
