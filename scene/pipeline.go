package scene

import (
	"fmt"
	"strings"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/netscope/gpu"
)

const (
	colorFormat = wgpu.TextureFormatRGBA8Unorm
	depthFormat = wgpu.TextureFormatDepth24Plus
)

// Renderer owns the render pipeline and the offscreen color/depth targets.
// Every instance set draws with the same pipeline: a unit cube expanded in
// the vertex shader from per-instance transform and color storage buffers.
type Renderer struct {
	width  uint32
	height uint32

	pipeline   *wgpu.RenderPipeline
	bgl        *wgpu.BindGroupLayout
	uniformBuf *wgpu.Buffer

	colorTex  *wgpu.Texture
	colorView *wgpu.TextureView
	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView
}

// cubeFaces lists the six cube faces as (normal, two triangles) over the
// corners of a unit cube centered on the origin
var cubeFaces = [6]struct {
	normal [3]float32
	quad   [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-.5, -.5, .5}, {.5, -.5, .5}, {.5, .5, .5}, {-.5, .5, .5}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{.5, -.5, -.5}, {-.5, -.5, -.5}, {-.5, .5, -.5}, {.5, .5, -.5}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{.5, -.5, .5}, {.5, -.5, -.5}, {.5, .5, -.5}, {.5, .5, .5}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-.5, -.5, -.5}, {-.5, -.5, .5}, {-.5, .5, .5}, {-.5, .5, -.5}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-.5, .5, .5}, {.5, .5, .5}, {.5, .5, -.5}, {-.5, .5, -.5}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-.5, -.5, -.5}, {.5, -.5, -.5}, {.5, -.5, .5}, {-.5, -.5, .5}}},
}

// generateShader emits the WGSL for the instanced cube pipeline. The cube
// geometry is baked into the shader as constant arrays, so no vertex buffer
// is ever bound; instances read their transform and color by instance index.
func generateShader() string {
	var pos, nrm strings.Builder
	for _, face := range cubeFaces {
		for _, idx := range [6]int{0, 1, 2, 0, 2, 3} {
			v := face.quad[idx]
			fmt.Fprintf(&pos, "\tvec3<f32>(%g, %g, %g),\n", v[0], v[1], v[2])
			fmt.Fprintf(&nrm, "\tvec3<f32>(%g, %g, %g),\n", face.normal[0], face.normal[1], face.normal[2])
		}
	}

	return fmt.Sprintf(`
struct Camera {
	view_proj : mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> camera : Camera;
@group(0) @binding(1) var<storage, read> transforms : array<mat4x4<f32>>;
@group(0) @binding(2) var<storage, read> colors : array<vec4<f32>>;

const POS = array<vec3<f32>, 36>(
%s);

const NRM = array<vec3<f32>, 36>(
%s);

struct VSOut {
	@builtin(position) clip : vec4<f32>,
	@location(0) color : vec4<f32>,
	@location(1) normal : vec3<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) vi : u32, @builtin(instance_index) ii : u32) -> VSOut {
	let model = transforms[ii];
	let world = model * vec4<f32>(POS[vi], 1.0);

	var out : VSOut;
	out.clip = camera.view_proj * world;
	out.color = colors[ii];
	out.normal = normalize((model * vec4<f32>(NRM[vi], 0.0)).xyz);
	return out;
}

@fragment
fn fs_main(in : VSOut) -> @location(0) vec4<f32> {
	let light = normalize(vec3<f32>(0.4, 0.8, 0.45));
	let shade = 0.35 + 0.65 * max(dot(normalize(in.normal), light), 0.0);
	return vec4<f32>(in.color.rgb * shade, in.color.a);
}
`, pos.String(), nrm.String())
}

// NewRenderer compiles the pipeline and creates the render targets
func NewRenderer(cfg Config) (*Renderer, error) {
	c, err := gpu.GetContext()
	if err != nil {
		return nil, err
	}

	r := &Renderer{width: cfg.Width, height: cfg.Height}

	r.uniformBuf, err = c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Scene_Camera",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("camera uniform: %v", err)
	}

	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Scene_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: generateShader()},
	})
	if err != nil {
		return nil, fmt.Errorf("shader compile: %v", err)
	}
	defer module.Release()

	r.bgl, err = c.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Scene_BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bgl: %v", err)
	}

	pipelineLayout, err := c.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Scene_Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %v", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = c.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Scene_Pipe",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilReadMask:   0xFFFFFFFF,
			StencilWriteMask:  0xFFFFFFFF,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: colorFormat, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline create: %v", err)
	}

	if err := r.createTargets(c); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createTargets(c *gpu.Context) error {
	var err error
	r.colorTex, err = c.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Scene_Color",
		Size:          wgpu.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        colorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("color target: %v", err)
	}
	r.colorView, err = r.colorTex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("color view: %v", err)
	}

	r.depthTex, err = c.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Scene_Depth",
		Size:          wgpu.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth target: %v", err)
	}
	r.depthView, err = r.depthTex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("depth view: %v", err)
	}
	return nil
}

func (r *Renderer) releaseTargets() {
	if r.colorView != nil {
		r.colorView.Release()
		r.colorView = nil
	}
	if r.colorTex != nil {
		r.colorTex.Destroy()
		r.colorTex = nil
	}
	if r.depthView != nil {
		r.depthView.Release()
		r.depthView = nil
	}
	if r.depthTex != nil {
		r.depthTex.Destroy()
		r.depthTex = nil
	}
}

// Resize recreates the render targets for a new viewport. Instance buffers
// and colors are untouched; resizing never forces a recolor.
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("resize to %dx%d", width, height)
	}
	c, err := gpu.GetContext()
	if err != nil {
		return err
	}
	r.width = width
	r.height = height
	r.releaseTargets()
	return r.createTargets(c)
}

// Aspect returns the current viewport aspect ratio
func (r *Renderer) Aspect() float64 {
	return float64(r.width) / float64(r.height)
}

// CreateBindGroup binds one instance set to the pipeline. Called once per
// set after Alloc; the bind group references the set's fixed buffers.
func (r *Renderer) CreateBindGroup(set *InstanceSet) error {
	if !set.Allocated() {
		return nil
	}
	c, err := gpu.GetContext()
	if err != nil {
		return err
	}

	set.bindGroup, err = c.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  set.Label + "_Bind",
		Layout: r.bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.uniformBuf, Size: r.uniformBuf.GetSize()},
			{Binding: 1, Buffer: set.transformBuf, Size: set.transformBuf.GetSize()},
			{Binding: 2, Buffer: set.colorBuf, Size: set.colorBuf.GetSize()},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group %s: %v", set.Label, err)
	}
	return nil
}

// RenderFrame draws every instance set with the camera's current matrix into
// the offscreen target. It re-issues the same draws every frame with
// whatever buffer state is currently committed.
func (r *Renderer) RenderFrame(camera *Camera, sets []*InstanceSet) error {
	c, err := gpu.GetContext()
	if err != nil {
		return err
	}

	vp := camera.ViewProjection(r.Aspect())
	c.Queue.WriteBuffer(r.uniformBuf, 0, wgpu.ToBytes(vp[:]))

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %v", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Scene_Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       r.colorView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	pass.SetPipeline(r.pipeline)
	for _, set := range sets {
		if set.Count == 0 || set.bindGroup == nil {
			continue
		}
		pass.SetBindGroup(0, set.bindGroup, nil)
		pass.Draw(36, uint32(set.Count), 0, 0)
	}
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command: %v", err)
	}
	c.Queue.Submit(cmd)
	return nil
}

// Cleanup releases every pipeline resource
func (r *Renderer) Cleanup() {
	r.releaseTargets()
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.uniformBuf != nil {
		r.uniformBuf.Destroy()
		r.uniformBuf = nil
	}
}
