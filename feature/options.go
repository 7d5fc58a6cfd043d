package feature

import (
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/litshader"
	"github.com/gogpu/projector/stencil"
)

// Option configures a Feature during creation.
//
// Example:
//
//	f := feature.New(device,
//	    feature.WithStencilBits(0x7F),
//	    feature.WithMaxAdditionalLightShadows(8))
type Option func(*options)

// options holds optional configuration for Feature creation.
type options struct {
	stencilBits         stencil.Mask
	collectEvent        projector.RenderPassEvent
	residualEvent       projector.RenderPassEvent
	maxAdditionalLights int
	defaultWidth        uint32
	defaultHeight       uint32
}

// defaultOptions returns the default feature options.
func defaultOptions() options {
	return options{
		stencilBits:         stencil.AllBits,
		collectEvent:        projector.BeforeRenderingOpaques,
		residualEvent:       projector.AfterRenderingOpaques,
		maxAdditionalLights: litshader.DefaultMaxAdditionalLights,
		defaultWidth:        1024,
		defaultHeight:       1024,
	}
}

// WithStencilBits restricts projector draws to the given stencil bits.
// Hosts that keep stencil bits for their own passes exclude them here.
func WithStencilBits(bits stencil.Mask) Option {
	return func(o *options) {
		o.stencilBits = bits
	}
}

// WithCollectPassEvent sets the event of the pass that collects shadow
// buffers. It must run before the lighting pass samples them.
func WithCollectPassEvent(e projector.RenderPassEvent) Option {
	return func(o *options) {
		o.collectEvent = e
	}
}

// WithResidualPassEvent sets the event of the pass that applies buffers
// consumed by lit shaders or light projectors on the receivers the lighting
// pass did not cover.
func WithResidualPassEvent(e projector.RenderPassEvent) Option {
	return func(o *options) {
		o.residualEvent = e
	}
}

// WithMaxAdditionalLightShadows sets the number of additional light shadow
// slots of the lighting pass.
func WithMaxAdditionalLightShadows(n int) Option {
	return func(o *options) {
		o.maxAdditionalLights = n
	}
}

// WithDefaultTextureSize sets the size of shadow textures collected for
// cameras that report no pixel size.
func WithDefaultTextureSize(width, height uint32) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.defaultWidth, o.defaultHeight = width, height
		}
	}
}
