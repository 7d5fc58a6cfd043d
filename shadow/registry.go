package shadow

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/stencil"
	"github.com/gogpu/wgpu/hal"
)

// Projector draws into and composites a shadow buffer.
type Projector interface {
	// CollectShadows draws the projector shadow into the channels of the
	// target texture selected by its mask.
	CollectShadows(ctx projector.DrawContext, rd *projector.RenderingData, target *CollectTarget)

	// ApplyShadowBuffer composites the buffer over the receivers inside the
	// projector frustum.
	ApplyShadowBuffer(ctx projector.DrawContext, rd *projector.RenderingData, apply *ApplyParams)
}

// CollectTarget is where a projector collects its shadow.
type CollectTarget struct {
	Buffer  *Buffer
	Texture hal.Texture
	Mask    gputypes.ColorWriteMask
}

// ApplyParams are the inputs of an apply draw.
type ApplyParams struct {
	Buffer        *Buffer
	Material      projector.Material
	PerObjectData projector.PerObjectData

	// LightPassReceivers are layers the lighting pass already shadowed.
	// The apply draw skips them.
	LightPassReceivers projector.LayerMask

	// StencilBit is exclusive to this buffer for the rest of the frame.
	StencilBit stencil.Mask
}

type registryKey struct {
	camera projector.CameraID
	buffer *Buffer
}

type registryEntry struct {
	projectors []Projector
	frame      uint64
}

// Registry records which projectors draw into which buffer for each camera.
//
// Entries are stamped with the frame they were written in. An entry of an
// older frame reads as empty, so registrations of a camera that never
// reached its collect phase cannot leak into the next frame. Entries not
// touched for a whole frame are dropped by BeginFrame.
type Registry struct {
	entries map[registryKey]*registryEntry
	frame   uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[registryKey]*registryEntry)}
}

// BeginFrame starts a new frame.
func (r *Registry) BeginFrame() {
	for k, e := range r.entries {
		if e.frame < r.frame {
			delete(r.entries, k)
		}
	}
	r.frame++
}

// Frame returns the current frame number.
func (r *Registry) Frame() uint64 { return r.frame }

// Register appends p to the projectors of buffer b for camera cam.
func (r *Registry) Register(cam projector.CameraID, b *Buffer, p Projector) {
	k := registryKey{camera: cam, buffer: b}
	e := r.entries[k]
	if e == nil {
		e = &registryEntry{frame: r.frame}
		r.entries[k] = e
	}
	if e.frame != r.frame {
		e.reset()
		e.frame = r.frame
	}
	e.projectors = append(e.projectors, p)
}

// Projectors returns the projectors of b for cam in registration order. The
// slice is owned by the registry and valid until the next Register or Clear.
func (r *Registry) Projectors(cam projector.CameraID, b *Buffer) []Projector {
	e := r.entries[registryKey{camera: cam, buffer: b}]
	if e == nil || e.frame != r.frame {
		return nil
	}
	return e.projectors
}

// Clear empties the projectors of b for cam. The backing array is kept for
// the next frame.
func (r *Registry) Clear(cam projector.CameraID, b *Buffer) {
	if e := r.entries[registryKey{camera: cam, buffer: b}]; e != nil {
		e.reset()
	}
}

// ClearCamera empties every list of cam.
func (r *Registry) ClearCamera(cam projector.CameraID) {
	for k, e := range r.entries {
		if k.camera == cam {
			e.reset()
		}
	}
}

// Forget drops every entry of b. Call it when the buffer is destroyed.
func (r *Registry) Forget(b *Buffer) {
	for k := range r.entries {
		if k.buffer == b {
			delete(r.entries, k)
		}
	}
}

// Len returns the number of (camera, buffer) entries held.
func (r *Registry) Len() int { return len(r.entries) }

func (e *registryEntry) reset() {
	clear(e.projectors)
	e.projectors = e.projectors[:0]
}
