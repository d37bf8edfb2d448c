package gpu

import (
	"testing"

	"github.com/openfluke/webgpu/wgpu"
)

// TestBufferRoundTrip pushes data through the write and read-back helpers
// against a real adapter; skipped where none is available
func TestBufferRoundTrip(t *testing.T) {
	if err := EnsureGPU(); err != nil {
		t.Skipf("no GPU available: %v", err)
	}

	data := []float32{1.5, -2.25, 0, 3.75}
	buf, err := NewFloatBuffer("RoundTrip", data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc)
	if err != nil {
		t.Fatalf("NewFloatBuffer: %v", err)
	}
	defer buf.Destroy()

	got, err := ReadFloats(buf, len(data))
	if err != nil {
		t.Fatalf("ReadFloats: %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Errorf("initial contents[%d] = %f, expected %f", i, got[i], data[i])
		}
	}

	// overwrite in place, the way the color hot path does every frame
	updated := []float32{9, 8, 7, 6}
	if err := WriteFloats(buf, updated); err != nil {
		t.Fatalf("WriteFloats: %v", err)
	}
	got, err = ReadFloats(buf, len(updated))
	if err != nil {
		t.Fatalf("ReadFloats after write: %v", err)
	}
	for i := range updated {
		if got[i] != updated[i] {
			t.Errorf("rewritten contents[%d] = %f, expected %f", i, got[i], updated[i])
		}
	}
}
