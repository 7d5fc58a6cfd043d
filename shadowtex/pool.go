package shadowtex

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by shadow texture refs and the pool.
var (
	// ErrNotRetained is returned by Release for a channel that holds no retain.
	ErrNotRetained = errors.New("shadowtex: channel not retained")

	// ErrPoolDestroyed is returned by Acquire after Destroy.
	ErrPoolDestroyed = errors.New("shadowtex: pool destroyed")

	// ErrInvalidSize is returned by Acquire for a zero width or height.
	ErrInvalidSize = errors.New("shadowtex: invalid texture size")
)

// Format is the color format of shadow textures.
const Format = gputypes.TextureFormatRGBA8Unorm

// TextureAllocator creates and destroys GPU textures. hal.Device satisfies it.
type TextureAllocator interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
}

// Ref is a reference counted handle to a shared shadow texture.
//
// Every consumer retains the channels it writes and releases them exactly
// once. When the last retain is released the texture goes back to the pool
// and may be handed out again by Acquire.
type Ref struct {
	pool    *Pool
	texture hal.Texture
	label   string
	width   uint32
	height  uint32

	channels [ChannelCount]int
	refCount int
	inUse    bool
	used     bool
}

// Texture returns the GPU texture.
func (r *Ref) Texture() hal.Texture { return r.texture }

// Label returns the debug label of the texture.
func (r *Ref) Label() string { return r.label }

// Size returns the texture size in pixels.
func (r *Ref) Size() (width, height uint32) { return r.width, r.height }

// RefCount returns the number of outstanding retains.
func (r *Ref) RefCount() int { return r.refCount }

// Retained returns the channels that hold at least one retain.
func (r *Ref) Retained() gputypes.ColorWriteMask {
	var m gputypes.ColorWriteMask
	for c := ChannelA; c < ChannelCount; c++ {
		if r.channels[c] > 0 {
			m |= c.WriteMask()
		}
	}
	return m
}

// Retain records one consumer of the channels in mask.
func (r *Ref) Retain(mask gputypes.ColorWriteMask) {
	for c := ChannelA; c < ChannelCount; c++ {
		if mask&c.WriteMask() != 0 {
			r.channels[c]++
		}
	}
	r.refCount++
}

// Release drops one retain of the channels in mask. It fails without
// changing anything if one of the channels is not retained.
func (r *Ref) Release(mask gputypes.ColorWriteMask) error {
	if r.refCount == 0 {
		return fmt.Errorf("%s %s: %w", r.label, FormatWriteMask(mask), ErrNotRetained)
	}
	for c := ChannelA; c < ChannelCount; c++ {
		if mask&c.WriteMask() != 0 && r.channels[c] == 0 {
			return fmt.Errorf("%s %s: %w", r.label, FormatWriteMask(mask), ErrNotRetained)
		}
	}
	for c := ChannelA; c < ChannelCount; c++ {
		if mask&c.WriteMask() != 0 {
			r.channels[c]--
		}
	}
	r.refCount--
	if r.refCount == 0 && r.pool != nil {
		r.pool.recycle(r)
	}
	return nil
}

// Pool recycles screen sized shadow textures across cameras and frames.
//
// Pool is not safe for concurrent use.
type Pool struct {
	device    TextureAllocator
	free      []*Ref
	live      int
	created   int
	destroyed bool
}

// NewPool creates a pool that allocates textures from device.
func NewPool(device TextureAllocator) *Pool {
	return &Pool{device: device}
}

// Acquire returns an unreferenced texture of the given size, reusing a free
// one when possible. The caller retains the channels it writes.
func (p *Pool) Acquire(width, height uint32) (*Ref, error) {
	if p.destroyed {
		return nil, ErrPoolDestroyed
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	for i, r := range p.free {
		if r.width == width && r.height == height {
			last := len(p.free) - 1
			p.free[i] = p.free[last]
			p.free[last] = nil
			p.free = p.free[:last]
			r.inUse, r.used = true, true
			p.live++
			return r, nil
		}
	}

	label := fmt.Sprintf("shadow_texture_%d", p.created)
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("shadowtex: create %s: %w", label, err)
	}
	p.created++
	p.live++
	projector.Logger().Info("shadowtex: texture created", "label", label, "width", width, "height", height)
	return &Ref{
		pool:    p,
		texture: tex,
		label:   label,
		width:   width,
		height:  height,
		inUse:   true,
		used:    true,
	}, nil
}

func (p *Pool) recycle(r *Ref) {
	if !r.inUse {
		return
	}
	r.inUse = false
	p.live--
	if p.destroyed {
		p.device.DestroyTexture(r.texture)
		return
	}
	p.free = append(p.free, r)
}

// Trim destroys free textures that were not acquired since the previous
// Trim. Call it once per frame so that textures of a stale size do not
// linger.
func (p *Pool) Trim() int {
	n := 0
	kept := p.free[:0]
	for _, r := range p.free {
		if r.used {
			r.used = false
			kept = append(kept, r)
			continue
		}
		p.device.DestroyTexture(r.texture)
		n++
	}
	for i := len(kept); i < len(p.free); i++ {
		p.free[i] = nil
	}
	p.free = kept
	if n > 0 {
		projector.Logger().Debug("shadowtex: trimmed textures", "count", n)
	}
	return n
}

// Destroy destroys every free texture. Textures still referenced are
// destroyed when their last retain is released.
func (p *Pool) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	for i, r := range p.free {
		p.device.DestroyTexture(r.texture)
		p.free[i] = nil
	}
	p.free = nil
}

// FreeCount returns the number of textures ready for reuse.
func (p *Pool) FreeCount() int { return len(p.free) }

// LiveCount returns the number of textures handed out and not yet returned.
func (p *Pool) LiveCount() int { return p.live }

// CreatedCount returns the number of textures created over the pool lifetime.
func (p *Pool) CreatedCount() int { return p.created }
