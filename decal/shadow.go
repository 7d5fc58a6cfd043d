package decal

import (
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadow"
	"github.com/gogpu/projector/stencil"
)

// Registrar accepts shadow projectors for a camera. feature.Feature
// implements it.
type Registrar interface {
	RegisterProjector(cam *projector.Camera, b *shadow.Buffer, p shadow.Projector) bool
}

// ShadowProjector collects a shadow into a buffer and composites the buffer
// inside its frustum.
//
// Material draws the shadow into the buffer texture. The apply draw uses the
// material of the buffer instead.
type ShadowProjector struct {
	Projector

	Buffer *shadow.Buffer

	stencil *stencil.Allocator
}

var _ shadow.Projector = (*ShadowProjector)(nil)

// NewShadowProjector creates a shadow projector drawing into buffer. alloc
// provides the temporary stencil bit of the collect draw.
func NewShadowProjector(name string, material projector.Material, buffer *shadow.Buffer, alloc *stencil.Allocator) *ShadowProjector {
	return &ShadowProjector{
		Projector: *NewProjector(name, material),
		Buffer:    buffer,
		stencil:   alloc,
	}
}

// Register adds the projector to its buffer for cam. Call it every frame
// the projector is visible in cam.
func (p *ShadowProjector) Register(r Registrar, cam *projector.Camera) bool {
	if p.Buffer == nil {
		return false
	}
	return r.RegisterProjector(cam, p.Buffer, p)
}

// CollectShadows draws the shadow into the channels of target.
func (p *ShadowProjector) CollectShadows(ctx projector.DrawContext, rd *projector.RenderingData, target *shadow.CollectTarget) {
	if p.Material == nil || target.Mask == 0 {
		return
	}
	bit := stencil.NoBit
	if p.stencil != nil {
		bit = p.WriteFrustumStencil(ctx, p.stencil)
	}
	drawing, filtering, state := p.DrawSettings(rd, p.Material, bit)
	if state == nil {
		state = &projector.RenderStateBlock{}
	}
	state.Mask |= projector.OverrideColorWrite
	state.ColorWriteMask = target.Mask
	ctx.DrawRenderers(drawing, filtering, state)
}

// ApplyShadowBuffer composites the buffer over the receivers inside the
// frustum with the exclusive stencil bit of the buffer. Layers already
// shadowed by the lighting pass are skipped. Without a stencil pass or a bit
// the receivers cannot be clipped and nothing is drawn.
func (p *ShadowProjector) ApplyShadowBuffer(ctx projector.DrawContext, rd *projector.RenderingData, apply *shadow.ApplyParams) {
	layers := ^p.IgnoreLayers &^ apply.LightPassReceivers
	if layers == projector.NoLayers || apply.Material == nil {
		return
	}
	switch {
	case !p.UseStencilTest():
		projector.Logger().Warn("decal: apply skipped, no stencil pass", "projector", p.Name, "buffer", apply.Buffer.String())
		return
	case apply.StencilBit == stencil.NoBit:
		projector.Logger().Warn("decal: apply skipped, no stencil bit", "projector", p.Name, "buffer", apply.Buffer.String())
		return
	}
	p.writeFrustum(ctx, apply.StencilBit)
	drawing, filtering, state := p.DrawSettings(rd, apply.Material, apply.StencilBit)
	drawing.PerObjectData = apply.PerObjectData
	filtering.LayerMask = layers
	ctx.DrawRenderers(drawing, filtering, state)
}
