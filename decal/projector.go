package decal

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/stencil"
)

// DefaultShaderTags are the receiver shader passes a projector draws.
var DefaultShaderTags = []string{"LightweightForward", "SRPDefaultUnlit"}

// Projector projects Material onto the receivers inside its frustum.
type Projector struct {
	Name      string
	Transform mgl32.Mat4
	Frustum   Frustum

	// Material draws the projection over the receivers.
	Material projector.Material

	// StencilPass writes the frustum volume into the stencil buffer. A nil
	// material disables the stencil test.
	StencilPass projector.Material

	ShaderTags    []string
	RenderQueue   projector.RenderQueueRange
	Event         projector.RenderPassEvent
	PerObjectData projector.PerObjectData

	// IgnoreLayers are never drawn by the projector.
	IgnoreLayers projector.LayerMask

	mesh        *projector.Mesh
	meshFrustum Frustum
	props       projector.PropertyBlock
}

// NewProjector creates a projector with an identity transform, the default
// frustum, the default shader tags and the opaque render queue, drawn after
// opaques.
func NewProjector(name string, material projector.Material) *Projector {
	return &Projector{
		Name:        name,
		Transform:   mgl32.Ident4(),
		Frustum:     DefaultFrustum(),
		Material:    material,
		ShaderTags:  slices.Clone(DefaultShaderTags),
		RenderQueue: projector.OpaqueQueue(),
		Event:       projector.AfterRenderingOpaques,
	}
}

// UseStencilTest reports whether the projector clips its draws with the
// stencil buffer.
func (p *Projector) UseStencilTest() bool { return p.StencilPass != nil }

// CopySettingsFrom copies the rendering settings of src. Name, transform,
// frustum and material are kept.
func (p *Projector) CopySettingsFrom(src *Projector) {
	p.Event = src.Event
	p.RenderQueue = src.RenderQueue
	p.PerObjectData = src.PerObjectData
	p.StencilPass = src.StencilPass
}

// FrustumMesh returns the frustum volume mesh, rebuilt when the frustum
// changed since the last call.
func (p *Projector) FrustumMesh() *projector.Mesh {
	if p.mesh == nil || p.meshFrustum != p.Frustum {
		p.mesh = p.Frustum.Mesh()
		p.meshFrustum = p.Frustum
	}
	return p.mesh
}

// WriteFrustumStencil marks the frustum volume with the temporary stencil
// bit of the frame and returns it. Nothing is drawn and NoBit is returned
// when the projector has no stencil pass or the pool is exhausted.
func (p *Projector) WriteFrustumStencil(ctx projector.DrawContext, alloc *stencil.Allocator) stencil.Mask {
	if !p.UseStencilTest() {
		return stencil.NoBit
	}
	bit := alloc.GetTemporaryBit()
	if bit == stencil.NoBit {
		projector.Logger().Debug("decal: no stencil bit for frustum", "projector", p.Name)
		return stencil.NoBit
	}
	p.writeFrustum(ctx, bit)
	return bit
}

// writeFrustum draws the two volume passes: back faces set bit, front faces
// clear it where the receiver is in front of the volume.
func (p *Projector) writeFrustum(ctx projector.DrawContext, bit stencil.Mask) {
	mesh := p.FrustumMesh()
	stencil.SetProperties(&p.props, bit)
	for pass := range 2 {
		ctx.DrawMesh(mesh, p.Transform, p.StencilPass, pass, &p.props, stencil.FrustumPass(bit, pass))
	}
}

// DrawSettings returns the settings of a receiver draw with material. When
// bit is not NoBit the draw only passes where bit is set and clears it.
func (p *Projector) DrawSettings(rd *projector.RenderingData, material projector.Material, bit stencil.Mask) (*projector.DrawingSettings, *projector.FilteringSettings, *projector.RenderStateBlock) {
	drawing := &projector.DrawingSettings{
		OverrideMaterial:      material,
		ShaderTags:            p.ShaderTags,
		PerObjectData:         p.PerObjectData,
		EnableDynamicBatching: rd.SupportsDynamicBatching,
	}
	filtering := &projector.FilteringSettings{
		RenderQueue: p.RenderQueue,
		LayerMask:   ^p.IgnoreLayers,
	}
	if bit == stencil.NoBit {
		return drawing, filtering, nil
	}
	return drawing, filtering, &projector.RenderStateBlock{
		Mask:    projector.OverrideStencil,
		Stencil: stencil.ClipState(bit),
	}
}

// Render draws the projection for the camera in rd.
func (p *Projector) Render(ctx projector.DrawContext, rd *projector.RenderingData, alloc *stencil.Allocator) {
	if p.Material == nil {
		return
	}
	bit := p.WriteFrustumStencil(ctx, alloc)
	ctx.DrawRenderers(p.DrawSettings(rd, p.Material, bit))
}

// RenderPass returns a pass that renders p at its event.
func (p *Projector) RenderPass(alloc *stencil.Allocator) projector.RenderPass {
	return &renderPass{projector: p, alloc: alloc}
}

type renderPass struct {
	projector *Projector
	alloc     *stencil.Allocator
}

func (r *renderPass) Name() string { return "Projector(" + r.projector.Name + ")" }

func (r *renderPass) Event() projector.RenderPassEvent { return r.projector.Event }

func (r *renderPass) Execute(ctx projector.DrawContext, data *projector.RenderingData) {
	r.projector.Render(ctx, data, r.alloc)
}
