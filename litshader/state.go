// Package litshader holds the shadow inputs the lighting pass samples.
//
// Shadow buffers that feed lit shaders directly do not draw an apply pass.
// Instead they hand their texture and channel to State, and the host binds
// State to the forward lighting shaders of the camera.
package litshader

import (
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/wgpu/hal"
)

// DefaultMaxAdditionalLights is the number of additional light shadow slots.
const DefaultMaxAdditionalLights = 4

// Sink accepts shadow textures for the lighting pass.
type Sink interface {
	SetMainLightShadow(tex hal.Texture, receivers projector.LayerMask)

	// SetAdditionalLightShadow reports false when the lighting pass has no
	// slot for the light.
	SetAdditionalLightShadow(index int, tex hal.Texture, channel shadowtex.Channel, receivers projector.LayerMask) bool
}

// Slot is one light's shadow input.
type Slot struct {
	Texture   hal.Texture
	Channel   shadowtex.Channel
	Receivers projector.LayerMask
}

// Valid reports whether a texture was set.
func (s Slot) Valid() bool { return s.Texture != nil }

// State is the per-camera Sink implementation.
type State struct {
	main       Slot
	additional []Slot
}

// NewState creates a state with maxLights additional light slots. A
// non-positive count selects DefaultMaxAdditionalLights.
func NewState(maxLights int) *State {
	if maxLights <= 0 {
		maxLights = DefaultMaxAdditionalLights
	}
	return &State{additional: make([]Slot, maxLights)}
}

// SetMainLightShadow sets the main light slot. The main light always samples
// the alpha channel.
func (s *State) SetMainLightShadow(tex hal.Texture, receivers projector.LayerMask) {
	s.main = Slot{Texture: tex, Channel: shadowtex.ChannelA, Receivers: receivers}
}

// SetAdditionalLightShadow sets the slot of additional light index.
func (s *State) SetAdditionalLightShadow(index int, tex hal.Texture, channel shadowtex.Channel, receivers projector.LayerMask) bool {
	if index < 0 || index >= len(s.additional) {
		projector.Logger().Warn("litshader: no slot for additional light", "index", index, "max", len(s.additional))
		return false
	}
	s.additional[index] = Slot{Texture: tex, Channel: channel, Receivers: receivers}
	return true
}

// MainLight returns the main light slot.
func (s *State) MainLight() Slot { return s.main }

// AdditionalLight returns the slot of additional light index. The zero Slot
// is returned for an empty or out of range slot.
func (s *State) AdditionalLight(index int) Slot {
	if index < 0 || index >= len(s.additional) {
		return Slot{}
	}
	return s.additional[index]
}

// MaxAdditionalLights returns the number of additional light slots.
func (s *State) MaxAdditionalLights() int { return len(s.additional) }

// ActiveCount returns the number of slots holding a texture.
func (s *State) ActiveCount() int {
	n := 0
	if s.main.Valid() {
		n++
	}
	for _, slot := range s.additional {
		if slot.Valid() {
			n++
		}
	}
	return n
}

// Reset clears every slot. Call it when a camera starts rendering.
func (s *State) Reset() {
	s.main = Slot{}
	clear(s.additional)
}
