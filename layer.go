package projector

import "math/bits"

// LayerMask selects object layers. Bit i selects layer i.
type LayerMask int32

const (
	// NoLayers selects nothing.
	NoLayers LayerMask = 0
	// AllLayers selects every layer.
	AllLayers LayerMask = -1
)

// MaxLayers is the number of addressable layers.
const MaxLayers = 32

// LayerBit returns the mask selecting only the given layer.
// Layers outside [0, MaxLayers) select nothing.
func LayerBit(layer int) LayerMask {
	if layer < 0 || layer >= MaxLayers {
		return NoLayers
	}
	return LayerMask(uint32(1) << uint(layer)) //nolint:gosec // layer range checked above
}

// Contains reports whether layer is selected by m.
func (m LayerMask) Contains(layer int) bool {
	return m&LayerBit(layer) != 0
}

// Count returns the number of selected layers.
func (m LayerMask) Count() int {
	return bits.OnesCount32(uint32(m))
}
