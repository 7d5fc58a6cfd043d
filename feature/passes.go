package feature

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadow"
)

// clearWhite is an unshadowed texel.
var clearWhite = gputypes.Color{R: 1, G: 1, B: 1, A: 1}

// collectPass packs the buffers of a camera into shared textures and draws
// their projectors into them.
type collectPass struct {
	feature *Feature
	state   *cameraState
}

func (p *collectPass) Name() string { return "CollectShadowBuffers" }

func (p *collectPass) Event() projector.RenderPassEvent { return p.feature.opts.collectEvent }

func (p *collectPass) Execute(ctx projector.DrawContext, data *projector.RenderingData) {
	f := p.feature
	f.lit.Reset()
	f.packer.Reset()
	clear(f.refs)
	f.refs = f.refs[:0]

	width, height := f.textureSize(data.Camera())
	bound := -1
	for _, b := range p.state.sorted {
		slot := f.packer.Pack(b.ChannelRequest())
		for len(f.refs) <= slot.Texture {
			f.refs = append(f.refs, nil)
		}
		// Only the slot's own texture is acquired. Collect retains it right
		// away, so a texture is never left live without a retain.
		ref := f.refs[slot.Texture]
		if ref == nil {
			var err error
			if ref, err = f.pool.Acquire(width, height); err != nil {
				projector.Logger().Warn("feature: no shadow texture", "buffer", b.Name, "err", err)
				continue
			}
			f.refs[slot.Texture] = ref
		}
		if slot.Texture != bound {
			ctx.SetRenderTarget(ref.Texture(), &clearWhite)
			bound = slot.Texture
		}
		f.coord.Collect(ctx, data, b, ref, slot.Mask)
	}
	if bound >= 0 {
		ctx.SetRenderTarget(nil, nil)
	}
}

func (f *Feature) textureSize(cam *projector.Camera) (width, height uint32) {
	if cam == nil || cam.Width == 0 || cam.Height == 0 {
		return f.opts.defaultWidth, f.opts.defaultHeight
	}
	return cam.Width, cam.Height
}

// residualPass applies the buffers that are not composited by shadow
// projectors: lit shader buffers on the receivers the lighting pass did not
// cover, and light projector buffers.
type residualPass struct {
	feature *Feature
	state   *cameraState
}

func (p *residualPass) Name() string { return "ApplyResidualShadowBuffers" }

func (p *residualPass) Event() projector.RenderPassEvent { return p.feature.opts.residualEvent }

func (p *residualPass) Execute(ctx projector.DrawContext, data *projector.RenderingData) {
	for _, b := range p.state.sorted {
		if b.Method == shadow.ApplyByShadowProjectors {
			continue
		}
		shadow.ApplyAndLog(p.feature.coord, ctx, data, b)
	}
}
