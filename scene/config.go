package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the load-time constants of the visualizer. Nothing here is
// runtime-mutable: changing any of it means rebuilding the scene from
// scratch (new selection, new layout, new instance buffers).
type Config struct {
	// ConnectionLimit caps the rendered incoming edges per target neuron.
	ConnectionLimit int `json:"connection_limit"`

	// Spacings in world units.
	InputSpacing  float64 `json:"input_spacing"`
	HiddenSpacing float64 `json:"hidden_spacing"`
	LayerSpacing  float64 `json:"layer_spacing"`

	// Known input image shape; used when it matches the input width.
	InputRows int `json:"input_rows"`
	InputCols int `json:"input_cols"`

	// Geometry sizes.
	NeuronScale   float32 `json:"neuron_scale"`
	LinkThickness float32 `json:"link_thickness"`

	// Render target size and refresh rate.
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	FPS    int    `json:"fps"`
}

// DefaultConfig returns the stock visualizer configuration
func DefaultConfig() Config {
	return Config{
		ConnectionLimit: 8,
		InputSpacing:    1.0,
		HiddenSpacing:   4.0,
		LayerSpacing:    30.0,
		InputRows:       28,
		InputCols:       28,
		NeuronScale:     0.45,
		LinkThickness:   0.08,
		Width:           1280,
		Height:          800,
		FPS:             60,
	}
}

// LoadConfig reads a config document, filling omitted fields from the
// defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %v", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %v", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the scene cannot build from
func (c *Config) Validate() error {
	if c.ConnectionLimit <= 0 {
		return fmt.Errorf("connection_limit must be positive, got %d", c.ConnectionLimit)
	}
	if c.InputSpacing <= 0 || c.HiddenSpacing <= 0 || c.LayerSpacing <= 0 {
		return fmt.Errorf("spacings must be positive")
	}
	if c.NeuronScale <= 0 || c.LinkThickness <= 0 {
		return fmt.Errorf("geometry sizes must be positive")
	}
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("render target must have a nonzero size")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}
