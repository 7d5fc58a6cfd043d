// Package shadow accumulates projector shadows into shared textures.
//
// A Buffer is a shadow source. Shadow projectors register with a buffer for
// the camera they are visible in. Each camera then runs two phases:
//
//   - Collect: every buffer gets a channel of a shared texture and its
//     projectors draw into it. Monochrome buffers bound to a light can hand
//     the texture straight to the lighting pass (see litshader).
//   - Apply: buffers that were not consumed by lighting composite their
//     texture over the receivers, clipped to each projector frustum with an
//     exclusive stencil bit.
//
// Buffers are sorted before collection so that buffers that belong together
// end up in the same texture and the main light shadow lands in alpha.
package shadow

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/wgpu/hal"
)

// ShadowColor selects how many channels a buffer stores.
type ShadowColor int

const (
	Monochrome ShadowColor = iota
	Colored
)

// String returns the color mode name.
func (c ShadowColor) String() string {
	switch c {
	case Monochrome:
		return "Monochrome"
	case Colored:
		return "Colored"
	}
	return fmt.Sprintf("ShadowColor(%d)", int(c))
}

// ApplyMethod selects how a buffer darkens its receivers.
type ApplyMethod int

const (
	// ApplyByShadowProjectors composites the buffer with a pass per camera
	// that redraws the receivers inside every projector frustum.
	ApplyByShadowProjectors ApplyMethod = iota

	// ApplyByLitShaders hands the buffer to the lighting pass.
	ApplyByLitShaders

	// ApplyByLightProjectors is used by light projectors, which are always
	// visible.
	ApplyByLightProjectors
)

var applyMethodNames = [...]string{
	ApplyByShadowProjectors: "ByShadowProjectors",
	ApplyByLitShaders:       "ByLitShaders",
	ApplyByLightProjectors:  "ByLightProjectors",
}

// String returns the apply method name.
func (m ApplyMethod) String() string {
	if m >= 0 && int(m) < len(applyMethodNames) {
		return applyMethodNames[m]
	}
	return fmt.Sprintf("ApplyMethod(%d)", int(m))
}

// Shader tag that marks a material able to receive light source properties.
const (
	MaterialTypeTag    = "P4ApplyShadowBufferType"
	MaterialTypeShadow = "Shadow"
)

// DefaultTextureName is the material property the shadow texture binds to.
const DefaultTextureName = "_ShadowTex"

// Buffer is a shadow source.
//
// The exported fields are authoring settings. The rest is per-camera state
// rebuilt every time a camera sets up its passes.
type Buffer struct {
	Name string

	// Material composites the buffer in the apply phase. Projectors cannot
	// register with a buffer that has no material.
	Material    projector.Material
	TextureName string

	Color          ShadowColor
	Method         ApplyMethod
	Event          projector.RenderPassEvent
	PerObjectData  projector.PerObjectData
	ReceiverLayers projector.LayerMask

	// CollectRealtime lets a lit-shader buffer carry the realtime shadows of
	// its light even when no projector draws into it.
	CollectRealtime bool

	// Layer is the object layer of the buffer. Cameras that do not render
	// it never collect the buffer on their own.
	Layer int

	// Properties binds the buffer to a light. It is only consulted when the
	// material is a shadow material (see IsShadowMaterial).
	Properties MaterialProperties

	Enabled bool

	visibleLightIndex    int
	additionalLightIndex int
	isMainLight          bool
	sortIndex            int

	textureRef         *shadowtex.Ref
	writeMask          gputypes.ColorWriteMask
	appliedToLightPass bool
}

// NewBuffer creates an enabled buffer with default settings: monochrome,
// applied by shadow projectors after opaques, received by every layer.
func NewBuffer(name string, material projector.Material) *Buffer {
	return &Buffer{
		Name:                 name,
		Material:             material,
		TextureName:          DefaultTextureName,
		Event:                projector.AfterRenderingOpaques,
		ReceiverLayers:       projector.AllLayers,
		CollectRealtime:      true,
		Enabled:              true,
		visibleLightIndex:    -1,
		additionalLightIndex: -1,
	}
}

// String returns the buffer name.
func (b *Buffer) String() string {
	if b == nil {
		return "<nil buffer>"
	}
	return b.Name
}

// IsShadowMaterial reports whether the material is tagged as a shadow
// material that takes light source properties.
func (b *Buffer) IsShadowMaterial() bool {
	return b.Material != nil && b.Material.Tag(MaterialTypeTag) == MaterialTypeShadow
}

func (b *Buffer) properties() MaterialProperties {
	if b.Properties == nil || !b.IsShadowMaterial() {
		return nil
	}
	return b.Properties
}

// RealtimeShadowsEnabled reports whether the light of the buffer produces
// realtime shadows the buffer could carry.
func (b *Buffer) RealtimeShadowsEnabled() bool {
	props := b.properties()
	if props == nil {
		return false
	}
	light := props.LightSource()
	switch {
	case light == nil:
		return false
	case !light.CastsShadows():
		return false
	case light.Type.IsArea():
		return false
	case light.Type == projector.LightTypePoint:
		// The host has no point light shadows.
		return false
	case light.IsBakedOnly():
		return false
	}
	return true
}

// CollectRealtimeShadows reports whether the buffer feeds the realtime
// shadows of its light to the lighting pass.
func (b *Buffer) CollectRealtimeShadows() bool {
	return b.Method == ApplyByLitShaders &&
		b.CollectRealtime &&
		b.RealtimeShadowsEnabled() &&
		b.ReceiverLayers != projector.NoLayers
}

// SetupLightSource resolves the light of the buffer for the camera in rd and
// recomputes the sort index.
func (b *Buffer) SetupLightSource(rd *projector.RenderingData) {
	if props := b.properties(); props != nil {
		b.visibleLightIndex, b.additionalLightIndex = props.FindLightSourceIndex(rd)
	} else {
		b.visibleLightIndex, b.additionalLightIndex = -1, -1
	}
	b.isMainLight = b.visibleLightIndex != -1 && b.visibleLightIndex == rd.LightData.MainLightIndex
	b.sortIndex = SortIndex(b.sortInput(), LightContext{AdditionalLightCount: rd.LightData.AdditionalLightsCount})
}

func (b *Buffer) sortInput() SortInput {
	return SortInput{
		Method:               b.Method,
		Color:                b.Color,
		HasLightSource:       b.properties() != nil,
		CollectRealtime:      b.CollectRealtimeShadows(),
		IsMainLight:          b.isMainLight,
		AdditionalLightIndex: b.additionalLightIndex,
	}
}

// IsVisible reports whether the buffer takes part in the current camera.
// Valid after SetupLightSource.
func (b *Buffer) IsVisible() bool {
	switch b.Method {
	case ApplyByLightProjectors:
		return true
	case ApplyByLitShaders:
		if b.properties() == nil {
			return false
		}
	case ApplyByShadowProjectors:
		if b.properties() == nil {
			return true
		}
	}
	return b.visibleLightIndex != -1 || b.additionalLightIndex != -1
}

// ChannelRequest returns the channels the buffer needs in a shared texture.
func (b *Buffer) ChannelRequest() shadowtex.Request {
	switch {
	case b.Color == Colored:
		return shadowtex.RequestRGB
	case b.Method == ApplyByLitShaders && b.isMainLight && b.properties() != nil:
		return shadowtex.RequestAlpha
	default:
		return shadowtex.RequestChannel
	}
}

// VisibleLightIndex returns the visible index of the buffer's light, or -1.
func (b *Buffer) VisibleLightIndex() int { return b.visibleLightIndex }

// AdditionalLightIndex returns the additional light index of the buffer's
// light, or -1.
func (b *Buffer) AdditionalLightIndex() int { return b.additionalLightIndex }

// IsMainLight reports whether the buffer's light is the main light.
func (b *Buffer) IsMainLight() bool { return b.isMainLight }

// SortIndex returns the index computed by the last SetupLightSource.
func (b *Buffer) SortIndex() int { return b.sortIndex }

// WriteMask returns the channels assigned in the last collect.
func (b *Buffer) WriteMask() gputypes.ColorWriteMask { return b.writeMask }

// Texture returns the shared texture assigned in the last collect, or nil.
func (b *Buffer) Texture() hal.Texture {
	if b.textureRef == nil {
		return nil
	}
	return b.textureRef.Texture()
}

// TextureRef returns the shared texture reference held by the buffer.
func (b *Buffer) TextureRef() *shadowtex.Ref { return b.textureRef }

// AppliedToLightPass reports whether the last collect handed the buffer to
// the lighting pass and the apply phase has not consumed that flag yet.
func (b *Buffer) AppliedToLightPass() bool { return b.appliedToLightPass }

// ReleaseTexture releases the channels retained by the last collect. It is
// safe to call when nothing is retained.
func (b *Buffer) ReleaseTexture() error {
	ref := b.textureRef
	if ref == nil {
		return nil
	}
	b.textureRef = nil
	if err := ref.Release(b.writeMask); err != nil {
		return fmt.Errorf("shadow: release %s: %w", b.Name, err)
	}
	return nil
}
