package scene

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/netscope/gpu"
)

// InstanceSet owns the GPU-resident parallel arrays of one instanced mesh:
// one transform and one color per instance, indexed 0..Count-1.
//
// Transforms are write-once: filled during build, uploaded by Alloc, never
// touched again. Colors are write-many: Update rewrites the CPU array and
// Flush pushes it into the existing buffer. Neither path ever reallocates.
type InstanceSet struct {
	Label string
	Count int

	transforms []float32 // 16 floats per instance
	colors     []float32 // 4 floats per instance
	dirty      bool

	transformBuf *wgpu.Buffer
	colorBuf     *wgpu.Buffer
	bindGroup    *wgpu.BindGroup
}

// NewInstanceSet creates the CPU-side arrays for count instances, every
// instance starting at the idle color
func NewInstanceSet(label string, count int) *InstanceSet {
	s := &InstanceSet{
		Label:      label,
		Count:      count,
		transforms: make([]float32, count*16),
		colors:     make([]float32, count*4),
	}
	for i := 0; i < count; i++ {
		s.setColorNoDirty(i, idleColor)
	}
	return s
}

// SetTransform writes one instance transform. Build-time only.
func (s *InstanceSet) SetTransform(i int, m Mat4) {
	copy(s.transforms[i*16:], m[:])
}

// SetColor writes one instance color and marks the color array dirty
func (s *InstanceSet) SetColor(i int, c RGBA) {
	s.setColorNoDirty(i, c)
	s.dirty = true
}

func (s *InstanceSet) setColorNoDirty(i int, c RGBA) {
	copy(s.colors[i*4:], c[:])
}

// Color returns the current CPU-side color of an instance
func (s *InstanceSet) Color(i int) RGBA {
	var c RGBA
	copy(c[:], s.colors[i*4:])
	return c
}

// Alloc creates both GPU buffers and uploads the transforms once. Called
// after every transform has been written; empty sets allocate nothing.
func (s *InstanceSet) Alloc() error {
	if s.Count == 0 {
		return nil
	}

	var err error
	s.transformBuf, err = gpu.NewFloatBuffer(s.Label+"_Transforms", s.transforms, wgpu.BufferUsageStorage)
	if err != nil {
		return fmt.Errorf("instance set %s: %v", s.Label, err)
	}
	s.colorBuf, err = gpu.NewFloatBuffer(s.Label+"_Colors", s.colors, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("instance set %s: %v", s.Label, err)
	}
	s.dirty = false
	return nil
}

// Flush uploads the color array if any color changed since the last flush.
// The buffer is rewritten in place; the transform buffer is never touched.
func (s *InstanceSet) Flush() error {
	if !s.dirty || s.colorBuf == nil {
		return nil
	}
	if err := gpu.WriteFloats(s.colorBuf, s.colors); err != nil {
		return fmt.Errorf("instance set %s: %v", s.Label, err)
	}
	s.dirty = false
	return nil
}

// Allocated reports whether the GPU buffers exist
func (s *InstanceSet) Allocated() bool {
	return s.transformBuf != nil
}

// Cleanup releases the GPU buffers
func (s *InstanceSet) Cleanup() {
	if s.transformBuf != nil {
		s.transformBuf.Destroy()
		s.transformBuf = nil
	}
	if s.colorBuf != nil {
		s.colorBuf.Destroy()
		s.colorBuf = nil
	}
	if s.bindGroup != nil {
		s.bindGroup.Release()
		s.bindGroup = nil
	}
}
