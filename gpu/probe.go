package gpu

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/openfluke/webgpu/wgpu"
)

// Report summarizes the adapter the visualizer would render on, with the
// limits that bound instance-buffer and render-target sizes.
type Report struct {
	WhenISO     string `json:"when_iso"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	Backend     string `json:"backend"`
	AdapterType string `json:"adapter_type"`
	VendorID    string `json:"vendor_id_hex"`
	DeviceID    string `json:"device_id_hex"`
	Name        string `json:"name"`
	Driver      string `json:"driver"`
	Limits      Limits `json:"limits"`
}

// Limits holds the subset of device limits the scene can hit
type Limits struct {
	MaxBufferSize               uint64 `json:"max_buffer_size"`
	MaxStorageBufferBindingSize uint64 `json:"max_storage_buffer_binding_size"`
	MaxTextureDimension2D       uint32 `json:"max_texture_dimension_2d"`
	MaxBindGroups               uint32 `json:"max_bind_groups"`
}

// Probe inspects the preferred adapter without touching the singleton
// context, so it is safe to run as a standalone diagnostic.
func Probe() (*Report, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("wgpu.CreateInstance returned nil")
	}
	defer inst.Release()

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %v", err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("no adapter")
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	limits := adapter.GetLimits()

	return &Report{
		WhenISO:     time.Now().UTC().Format(time.RFC3339),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		Backend:     info.BackendType.String(),
		AdapterType: info.AdapterType.String(),
		VendorID:    fmt.Sprintf("0x%04X", info.VendorId),
		DeviceID:    fmt.Sprintf("0x%04X", info.DeviceId),
		Name:        info.Name,
		Driver:      info.DriverDescription,
		Limits: Limits{
			MaxBufferSize:               limits.Limits.MaxBufferSize,
			MaxStorageBufferBindingSize: limits.Limits.MaxStorageBufferBindingSize,
			MaxTextureDimension2D:       limits.Limits.MaxTextureDimension2D,
			MaxBindGroups:               limits.Limits.MaxBindGroups,
		},
	}, nil
}

// ProbeJSON runs a probe and renders the report as indented JSON
func ProbeJSON() (string, error) {
	rep, err := Probe()
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
