package stencil

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
)

// =============================================================================
// Allocator Tests
// =============================================================================

func TestAllocator_ExhaustsAfterEightBits(t *testing.T) {
	a := NewAllocator()

	var seen Mask
	for i := 0; i < MaxBits; i++ {
		bit := a.AllocateSingleBit()
		if bit == NoBit {
			t.Fatalf("AllocateSingleBit() #%d = NoBit, want a bit", i+1)
		}
		if bit.Count() != 1 {
			t.Fatalf("AllocateSingleBit() #%d = %08b, want a single bit", i+1, bit)
		}
		if seen&bit != 0 {
			t.Fatalf("AllocateSingleBit() #%d = %08b, already handed out", i+1, bit)
		}
		seen |= bit
	}
	if got := a.AllocateSingleBit(); got != NoBit {
		t.Errorf("9th AllocateSingleBit() = %08b, want NoBit", got)
	}
	if got := a.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}

	a.ResetFrame()
	if got := a.AllocateSingleBit(); got != 1 {
		t.Errorf("AllocateSingleBit() after ResetFrame = %08b, want 00000001", got)
	}
}

func TestAllocator_FirstFreeBitOrder(t *testing.T) {
	a := NewAllocator()
	for i := 0; i < MaxBits; i++ {
		want := Mask(1) << uint(i)
		if got := a.AllocateSingleBit(); got != want {
			t.Errorf("AllocateSingleBit() #%d = %08b, want %08b", i+1, got, want)
		}
	}
}

func TestAllocator_TemporaryBitIsIdempotent(t *testing.T) {
	a := NewAllocator()

	first := a.GetTemporaryBit()
	if first == NoBit {
		t.Fatal("GetTemporaryBit() = NoBit on a fresh pool")
	}
	for i := 0; i < 5; i++ {
		if got := a.GetTemporaryBit(); got != first {
			t.Fatalf("GetTemporaryBit() = %08b, want %08b", got, first)
		}
	}
	if got := a.Available(); got != MaxBits-1 {
		t.Errorf("Available() = %d, want %d", got, MaxBits-1)
	}

	// The exclusive bits come from the same pool.
	if got := a.AllocateSingleBit(); got == first {
		t.Errorf("AllocateSingleBit() returned the temporary bit %08b", got)
	}

	a.ResetFrame()
	if got := a.TemporaryBit(); got != NoBit {
		t.Errorf("TemporaryBit() after ResetFrame = %08b, want NoBit", got)
	}
}

func TestAllocator_TemporaryBitAfterExhaustion(t *testing.T) {
	a := NewAllocator()
	for a.AllocateSingleBit() != NoBit {
	}
	if got := a.GetTemporaryBit(); got != NoBit {
		t.Errorf("GetTemporaryBit() on an exhausted pool = %08b, want NoBit", got)
	}
}

func TestAllocator_WithUsableBits(t *testing.T) {
	a := NewAllocator(WithUsableBits(0b1010_0000))

	tests := []Mask{0b0010_0000, 0b1000_0000, NoBit}
	for i, want := range tests {
		if got := a.AllocateSingleBit(); got != want {
			t.Errorf("AllocateSingleBit() #%d = %08b, want %08b", i+1, got, want)
		}
	}
	if got := a.Allocated(); got != 0b1010_0000 {
		t.Errorf("Allocated() = %08b, want 10100000", got)
	}
}

func TestAllocator_Deterministic(t *testing.T) {
	run := func() []Mask {
		a := NewAllocator()
		out := []Mask{a.GetTemporaryBit()}
		for i := 0; i < 3; i++ {
			out = append(out, a.AllocateSingleBit())
		}
		return out
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("allocation %d differs between runs: %08b vs %08b", i, first[i], second[i])
		}
	}
}

// =============================================================================
// State Tests
// =============================================================================

func TestClipState(t *testing.T) {
	s := ClipState(0b0000_0100)
	if s.Reference != 4 || s.ReadMask != 4 || s.WriteMask != 4 {
		t.Errorf("ClipState() ref/read/write = %d/%d/%d, want 4/4/4", s.Reference, s.ReadMask, s.WriteMask)
	}
	for name, face := range map[string]gputypes.StencilFaceState{"front": s.Front, "back": s.Back} {
		if face.Compare != gputypes.CompareFunctionEqual {
			t.Errorf("%s Compare = %v, want Equal", name, face.Compare)
		}
		if face.PassOp != gputypes.StencilOperationZero {
			t.Errorf("%s PassOp = %v, want Zero", name, face.PassOp)
		}
		if face.FailOp != gputypes.StencilOperationKeep || face.DepthFailOp != gputypes.StencilOperationKeep {
			t.Errorf("%s FailOp/DepthFailOp = %v/%v, want Keep/Keep", name, face.FailOp, face.DepthFailOp)
		}
	}
}

func TestFrustumPass(t *testing.T) {
	tests := []struct {
		pass   int
		cull   gputypes.CullMode
		depthF gputypes.StencilOperation
	}{
		{0, gputypes.CullModeFront, gputypes.StencilOperationReplace},
		{1, gputypes.CullModeBack, gputypes.StencilOperationZero},
	}
	for _, tt := range tests {
		b := FrustumPass(2, tt.pass)
		if !b.Overrides(projector.OverrideStencil) || !b.Overrides(projector.OverrideCull) || !b.Overrides(projector.OverrideColorWrite) {
			t.Errorf("pass %d: Mask = %03b, want stencil|color|cull", tt.pass, b.Mask)
		}
		if b.CullMode != tt.cull {
			t.Errorf("pass %d: CullMode = %v, want %v", tt.pass, b.CullMode, tt.cull)
		}
		if b.Stencil.Front.DepthFailOp != tt.depthF {
			t.Errorf("pass %d: DepthFailOp = %v, want %v", tt.pass, b.Stencil.Front.DepthFailOp, tt.depthF)
		}
		if b.ColorWriteMask != gputypes.ColorWriteMaskNone {
			t.Errorf("pass %d: ColorWriteMask = %v, want None", tt.pass, b.ColorWriteMask)
		}
	}
}

func TestSetProperties(t *testing.T) {
	var block projector.PropertyBlock
	SetProperties(&block, 0b0001_0000)
	for _, name := range []string{RefProperty, MaskProperty} {
		if v, ok := block.Int(name); !ok || v != 16 {
			t.Errorf("Int(%s) = %d, %v, want 16, true", name, v, ok)
		}
	}
}
