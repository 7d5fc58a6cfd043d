package stencil

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
)

// Shader properties read by the frustum stencil pass material.
const (
	RefProperty  = "_StencilRef"
	MaskProperty = "_StencilMask"
)

// Format is the depth/stencil format the host must render projectors with.
const Format = gputypes.TextureFormatDepth24PlusStencil8

// ClipState returns the stencil state of a draw clipped to bit: the draw
// passes only where bit is set and clears bit where it passes, so each pixel
// is covered at most once and the bit is clean for the next frustum.
func ClipState(bit Mask) projector.StencilState {
	face := gputypes.StencilFaceState{
		Compare:     gputypes.CompareFunctionEqual,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      gputypes.StencilOperationZero,
	}
	return projector.StencilState{
		Reference: uint32(bit),
		ReadMask:  uint32(bit),
		WriteMask: uint32(bit),
		Front:     face,
		Back:      face,
	}
}

// FrustumWriteState returns the stencil state of one frustum volume pass.
// Pass 0 draws back faces and sets bit behind receivers; pass 1 draws front
// faces and clears it again where the receiver lies in front of the volume.
func FrustumWriteState(bit Mask, pass int) projector.StencilState {
	op := gputypes.StencilOperationReplace
	if pass == 1 {
		op = gputypes.StencilOperationZero
	}
	face := gputypes.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: op,
		PassOp:      gputypes.StencilOperationKeep,
	}
	return projector.StencilState{
		Reference: uint32(bit),
		ReadMask:  uint32(bit),
		WriteMask: uint32(bit),
		Front:     face,
		Back:      face,
	}
}

// FrustumCullMode returns the face culling of frustum volume pass.
func FrustumCullMode(pass int) gputypes.CullMode {
	if pass == 0 {
		return gputypes.CullModeFront
	}
	return gputypes.CullModeBack
}

// FrustumPass returns the render state of frustum volume pass (0 or 1)
// writing bit. Color writes are disabled.
func FrustumPass(bit Mask, pass int) *projector.RenderStateBlock {
	return &projector.RenderStateBlock{
		Mask:           projector.OverrideStencil | projector.OverrideColorWrite | projector.OverrideCull,
		Stencil:        FrustumWriteState(bit, pass),
		ColorWriteMask: gputypes.ColorWriteMaskNone,
		CullMode:       FrustumCullMode(pass),
	}
}

// SetProperties writes the reference and mask of bit into block.
func SetProperties(block *projector.PropertyBlock, bit Mask) {
	block.SetInt(RefProperty, int32(bit))
	block.SetInt(MaskProperty, int32(bit))
}
