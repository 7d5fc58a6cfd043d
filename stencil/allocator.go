// Package stencil allocates the bits of the 8-bit stencil buffer shared by
// every projector draw in a frame.
//
// The pool is deliberately tiny. Projectors that only need to clip their own
// draw share one temporary bit, because each of them clears the bit again as
// it draws. Shadow apply passes keep their bit set until the end of the frame
// and therefore take an exclusive bit. When the pool is empty the caller skips
// its draw; the pool never grows and never blocks.
package stencil

import (
	"math/bits"

	"github.com/gogpu/projector"
)

// Mask is a set of stencil bits. A single allocated bit is a Mask with one
// bit set; NoBit means nothing was allocated.
type Mask uint8

// NoBit is returned when the pool is exhausted.
const NoBit Mask = 0

// MaxBits is the number of bits in the stencil buffer.
const MaxBits = 8

// AllBits selects every stencil bit.
const AllBits Mask = 0xFF

// Count returns the number of bits in m.
func (m Mask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithUsableBits restricts the allocator to the given bits. Hosts that keep
// some stencil bits for their own passes exclude them here.
func WithUsableBits(m Mask) Option {
	return func(a *Allocator) {
		a.usable = m
	}
}

// Allocator hands out stencil bits for one frame at a time.
//
// Allocator is not safe for concurrent use. It is owned by the frame
// orchestrator and only touched from the rendering thread.
type Allocator struct {
	usable    Mask
	available Mask
	temporary Mask
}

// NewAllocator creates an allocator with a full pool.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{usable: AllBits}
	for _, opt := range opts {
		opt(a)
	}
	a.ResetFrame()
	return a
}

// ResetFrame returns every bit to the pool, including the temporary bit.
// Call it once per frame after all apply work of the previous frame.
func (a *Allocator) ResetFrame() {
	a.available = a.usable
	a.temporary = NoBit
}

// AllocateSingleBit removes the lowest free bit from the pool and returns it.
// The bit stays allocated until ResetFrame. Returns NoBit when the pool is
// exhausted.
func (a *Allocator) AllocateSingleBit() Mask {
	bit := a.available & -a.available
	if bit == NoBit {
		projector.Logger().Debug("stencil: pool exhausted", "usable", a.usable)
		return NoBit
	}
	a.available &^= bit
	return bit
}

// GetTemporaryBit returns the bit shared by frustum clipping draws. The first
// call of a frame takes a bit from the pool; later calls return the same bit
// without allocating. Returns NoBit when the pool was already exhausted at
// the first call of the frame.
func (a *Allocator) GetTemporaryBit() Mask {
	if a.temporary == NoBit {
		a.temporary = a.AllocateSingleBit()
	}
	return a.temporary
}

// TemporaryBit returns the temporary bit of this frame, or NoBit if none was
// requested yet.
func (a *Allocator) TemporaryBit() Mask {
	return a.temporary
}

// Available returns the number of bits still free.
func (a *Allocator) Available() int {
	return a.available.Count()
}

// Allocated returns the bits taken from the pool this frame.
func (a *Allocator) Allocated() Mask {
	return a.usable &^ a.available
}
