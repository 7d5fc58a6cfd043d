package projector

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Material is a host material. Apply passes toggle shader keywords and bind
// shadow textures on it before drawing.
type Material interface {
	Name() string
	EnableKeyword(keyword string)
	DisableKeyword(keyword string)
	SetTexture(property string, tex hal.Texture)

	// Tag returns the value of a shader tag, or "" when absent.
	Tag(key string) string
}

// Mesh is indexed triangle geometry.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint16
}

// PropertyBlock holds per-draw integer shader properties.
type PropertyBlock struct {
	ints map[string]int32
}

// SetInt sets an integer property.
func (b *PropertyBlock) SetInt(name string, v int32) {
	if b.ints == nil {
		b.ints = make(map[string]int32, 2)
	}
	b.ints[name] = v
}

// Int returns an integer property and whether it was set.
func (b *PropertyBlock) Int(name string) (int32, bool) {
	if b == nil {
		return 0, false
	}
	v, ok := b.ints[name]
	return v, ok
}

// Ints returns a copy of the integer properties.
func (b *PropertyBlock) Ints() map[string]int32 {
	if b == nil || len(b.ints) == 0 {
		return nil
	}
	out := make(map[string]int32, len(b.ints))
	for k, v := range b.ints {
		out[k] = v
	}
	return out
}

// RenderQueueRange is an inclusive range of material render queues.
type RenderQueueRange struct {
	Lower int
	Upper int
}

// Render queue bounds used by the host pipeline.
const (
	RenderQueueOpaqueLower      = 0
	RenderQueueOpaqueUpper      = 2500
	RenderQueueTransparentLower = 2501
	RenderQueueTransparentUpper = 5000
)

// OpaqueQueue returns the render queue range of opaque geometry.
func OpaqueQueue() RenderQueueRange {
	return RenderQueueRange{Lower: RenderQueueOpaqueLower, Upper: RenderQueueOpaqueUpper}
}

// Contains reports whether queue lies within r.
func (r RenderQueueRange) Contains(queue int) bool {
	return r.Lower <= queue && queue <= r.Upper
}

// DrawingSettings selects which shader passes of the receivers are drawn and
// with which override material.
type DrawingSettings struct {
	OverrideMaterial      Material
	ShaderTags            []string
	PerObjectData         PerObjectData
	EnableDynamicBatching bool
}

// FilteringSettings selects which receivers are drawn.
type FilteringSettings struct {
	RenderQueue RenderQueueRange
	LayerMask   LayerMask
}

// StencilState is a stencil test and write configuration for a draw.
type StencilState struct {
	Reference uint32
	ReadMask  uint32
	WriteMask uint32
	Front     gputypes.StencilFaceState
	Back      gputypes.StencilFaceState
}

// RenderStateMask selects which fields of a RenderStateBlock apply.
type RenderStateMask uint8

const (
	OverrideStencil RenderStateMask = 1 << iota
	OverrideColorWrite
	OverrideCull
)

// RenderStateBlock overrides render state for a single draw. Only the fields
// selected by Mask replace the material state.
type RenderStateBlock struct {
	Mask           RenderStateMask
	Stencil        StencilState
	ColorWriteMask gputypes.ColorWriteMask
	CullMode       gputypes.CullMode
}

// Overrides reports whether b replaces the state selected by m.
func (b *RenderStateBlock) Overrides(m RenderStateMask) bool {
	return b != nil && b.Mask&m != 0
}

// DrawContext records draws. It is the only way this module talks to the GPU:
// the host translates recorded draws into command buffers.
type DrawContext interface {
	// SetRenderTarget redirects subsequent draws to target. A nil target
	// restores the camera target. When clear is non-nil the target is cleared
	// to that color first.
	SetRenderTarget(target hal.Texture, clear *gputypes.Color)

	// DrawMesh draws one shader pass of material over mesh. state may be nil.
	DrawMesh(mesh *Mesh, transform mgl32.Mat4, material Material, pass int, props *PropertyBlock, state *RenderStateBlock)

	// DrawRenderers draws the visible receivers selected by filtering.
	DrawRenderers(drawing *DrawingSettings, filtering *FilteringSettings, state *RenderStateBlock)
}
