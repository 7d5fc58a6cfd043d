// Package shadowtex manages the off-screen textures shared by shadow buffers.
//
// A shadow texture is screen sized RGBA8 cleared to white, where white means
// "not shadowed". A monochrome shadow buffer only needs one channel, so up to
// four of them share a texture; a colored shadow buffer takes the three color
// channels. Each consumer retains the channels it writes and releases them
// once the camera has finished rendering. A texture returns to the pool when
// its last channel is released.
//
// Channels are numbered in the order A, B, G, R. Channel 0 is alpha, which is
// where lit shaders expect the main light shadow.
package shadowtex

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Channel is a color channel of a shadow texture.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
	ChannelG
	ChannelR
)

// ChannelCount is the number of channels of a shadow texture.
const ChannelCount = 4

// ColorWriteMaskRGB selects the three color channels used by colored shadows.
const ColorWriteMaskRGB = gputypes.ColorWriteMaskRed | gputypes.ColorWriteMaskGreen | gputypes.ColorWriteMaskBlue

var channelMasks = [ChannelCount]gputypes.ColorWriteMask{
	ChannelA: gputypes.ColorWriteMaskAlpha,
	ChannelB: gputypes.ColorWriteMaskBlue,
	ChannelG: gputypes.ColorWriteMaskGreen,
	ChannelR: gputypes.ColorWriteMaskRed,
}

var channelNames = [ChannelCount]string{"A", "B", "G", "R"}

// WriteMask returns the color write mask selecting only c.
func (c Channel) WriteMask() gputypes.ColorWriteMask {
	if c < 0 || c >= ChannelCount {
		return gputypes.ColorWriteMaskNone
	}
	return channelMasks[c]
}

// String returns the channel letter.
func (c Channel) String() string {
	if c < 0 || c >= ChannelCount {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// FirstChannel returns the first channel of mask in A, B, G, R order.
// ok is false when mask selects no channel.
func FirstChannel(mask gputypes.ColorWriteMask) (c Channel, ok bool) {
	for c = ChannelA; c < ChannelCount; c++ {
		if mask&channelMasks[c] != 0 {
			return c, true
		}
	}
	return 0, false
}

// SingleChannel returns the channel of a mask that selects exactly one
// channel. ok is false for empty and multi-channel masks.
func SingleChannel(mask gputypes.ColorWriteMask) (c Channel, ok bool) {
	for c = ChannelA; c < ChannelCount; c++ {
		if mask == channelMasks[c] {
			return c, true
		}
	}
	return 0, false
}

// FormatWriteMask returns a short human readable form such as "A" or "RGB".
func FormatWriteMask(mask gputypes.ColorWriteMask) string {
	if mask&gputypes.ColorWriteMaskAll == gputypes.ColorWriteMaskNone {
		return "-"
	}
	var s string
	for _, c := range [...]Channel{ChannelR, ChannelG, ChannelB, ChannelA} {
		if mask&c.WriteMask() != 0 {
			s += c.String()
		}
	}
	return s
}
