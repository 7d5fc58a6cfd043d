package shadow

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/litshader"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/projector/stencil"
)

// Errors returned by Apply. None of them is fatal: the buffer is simply not
// composited this frame.
var (
	ErrStencilExhausted = errors.New("shadow: no stencil bit available")
	ErrNoMaterial       = errors.New("shadow: buffer has no material")
	ErrNoLightSource    = errors.New("shadow: light source not visible")
	ErrNotCollected     = errors.New("shadow: buffer has no shadow texture")
)

// Shader keywords selecting the shadow texture channel of apply materials.
const (
	KeywordChannelA   = "P4_SHADOWTEX_CHANNEL_A"
	KeywordChannelB   = "P4_SHADOWTEX_CHANNEL_B"
	KeywordChannelG   = "P4_SHADOWTEX_CHANNEL_G"
	KeywordChannelR   = "P4_SHADOWTEX_CHANNEL_R"
	KeywordChannelRGB = "P4_SHADOWTEX_CHANNEL_RGB"
)

var channelKeywords = [shadowtex.ChannelCount]string{
	shadowtex.ChannelA: KeywordChannelA,
	shadowtex.ChannelB: KeywordChannelB,
	shadowtex.ChannelG: KeywordChannelG,
	shadowtex.ChannelR: KeywordChannelR,
}

// Coordinator runs the collect and apply phases of shadow buffers.
type Coordinator struct {
	registry *Registry
	stencil  *stencil.Allocator
	lit      litshader.Sink
}

// NewCoordinator creates a coordinator. alloc provides the exclusive
// stencil bits of apply draws and lit receives buffers consumed by lighting.
func NewCoordinator(registry *Registry, alloc *stencil.Allocator, lit litshader.Sink) *Coordinator {
	return &Coordinator{registry: registry, stencil: alloc, lit: lit}
}

// Registry returns the projector registry.
func (c *Coordinator) Registry() *Registry { return c.registry }

// Register records that p draws into b for cam. Buffers without a material
// accept no projectors.
func (c *Coordinator) Register(cam *projector.Camera, b *Buffer, p Projector) bool {
	if b.Material == nil {
		projector.Logger().Debug("shadow: register ignored, no material", "buffer", b.Name)
		return false
	}
	c.registry.Register(cam.ID, b, p)
	return true
}

// Collect draws the projectors of b into the channels mask of ref and
// decides whether the lighting pass consumes the result.
//
// The light is checked again here rather than trusted from sort time: a
// light whose shadows were switched off must not feed stale data to lighting.
func (c *Coordinator) Collect(ctx projector.DrawContext, rd *projector.RenderingData, b *Buffer, ref *shadowtex.Ref, mask gputypes.ColorWriteMask) {
	cam := rd.Camera()
	b.textureRef = ref
	b.writeMask = mask
	ref.Retain(mask)

	projectors := c.registry.Projectors(cam.ID, b)
	if len(projectors) > 0 {
		target := &CollectTarget{Buffer: b, Texture: ref.Texture(), Mask: mask}
		for _, p := range projectors {
			p.CollectShadows(ctx, rd, target)
		}
	}
	collected := len(projectors) > 0

	b.appliedToLightPass = false
	realtime := b.CollectRealtimeShadows()
	if b.Method == ApplyByLitShaders && b.Color == Monochrome && (collected || realtime) && b.visibleLightIndex >= 0 {
		if realtime {
			realtime = lightStillCasts(rd, b.visibleLightIndex)
		}
		if collected || realtime {
			switch {
			case b.isMainLight:
				c.lit.SetMainLightShadow(ref.Texture(), b.ReceiverLayers)
				b.appliedToLightPass = true
			case b.additionalLightIndex >= 0:
				channel, _ := shadowtex.FirstChannel(mask)
				b.appliedToLightPass = c.lit.SetAdditionalLightShadow(b.additionalLightIndex, ref.Texture(), channel, b.ReceiverLayers)
			}
		}
	}
	projector.Logger().Debug("shadow: collected",
		"camera", cam.String(),
		"buffer", b.Name,
		"texture", ref.Label(),
		"channels", shadowtex.FormatWriteMask(mask),
		"projectors", len(projectors),
		"lightPass", b.appliedToLightPass)

	if b.Method != ApplyByShadowProjectors && b.appliedToLightPass {
		c.registry.Clear(cam.ID, b)
	}
}

func lightStillCasts(rd *projector.RenderingData, visible int) bool {
	if visible >= len(rd.LightData.VisibleLights) {
		return false
	}
	light := rd.LightData.VisibleLights[visible].Light
	return light != nil && light.CastsShadows() && !light.IsBakedOnly()
}

// Apply composites b over its receivers for the camera in rd.
//
// Nothing is drawn when the lighting pass consumed b for every layer. A
// buffer that cannot get an exclusive stencil bit is skipped with
// ErrStencilExhausted: drawing it unclipped would darken unrelated geometry.
func (c *Coordinator) Apply(ctx projector.DrawContext, rd *projector.RenderingData, b *Buffer) error {
	applied := b.appliedToLightPass
	b.appliedToLightPass = false
	if applied && b.ReceiverLayers == projector.AllLayers {
		return nil
	}
	if b.Material == nil {
		return ErrNoMaterial
	}
	material := b.Material

	perObject := projector.PerObjectNone
	if props := b.properties(); props != nil {
		var ok bool
		if perObject, ok = props.UpdateMaterialProperties(material, rd); !ok {
			return ErrNoLightSource
		}
	}
	for ch, keyword := range channelKeywords {
		if b.writeMask == shadowtex.Channel(ch).WriteMask() {
			material.EnableKeyword(keyword)
		} else {
			material.DisableKeyword(keyword)
		}
	}
	if b.Color == Colored {
		material.EnableKeyword(KeywordChannelRGB)
	} else {
		material.DisableKeyword(KeywordChannelRGB)
	}
	perObject |= b.PerObjectData

	projectors := c.registry.Projectors(rd.Camera().ID, b)
	if len(projectors) == 0 {
		return nil
	}
	if b.textureRef == nil {
		return ErrNotCollected
	}
	bit := c.stencil.AllocateSingleBit()
	if bit == stencil.NoBit {
		return ErrStencilExhausted
	}
	material.SetTexture(b.TextureName, b.Texture())

	params := &ApplyParams{
		Buffer:        b,
		Material:      material,
		PerObjectData: perObject,
		StencilBit:    bit,
	}
	if applied {
		params.LightPassReceivers = b.ReceiverLayers
	}
	for _, p := range projectors {
		p.ApplyShadowBuffer(ctx, rd, params)
	}
	return nil
}

// EndCamera drops the registrations of b for cam and releases its texture.
func (c *Coordinator) EndCamera(cam *projector.Camera, b *Buffer) error {
	c.registry.Clear(cam.ID, b)
	return b.ReleaseTexture()
}
