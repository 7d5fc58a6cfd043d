package shadowtex

import "github.com/gogpu/gputypes"

// Request describes the channels a shadow buffer needs.
type Request uint8

const (
	// RequestChannel asks for any single channel.
	RequestChannel Request = iota

	// RequestAlpha asks for the alpha channel. Main light shadows read by
	// lit shaders must live there.
	RequestAlpha

	// RequestRGB asks for the three color channels of a colored shadow.
	RequestRGB
)

// Slot is a packing decision: a texture index and the channels to write.
type Slot struct {
	Texture int
	Mask    gputypes.ColorWriteMask
}

// Packer assigns channels of shared textures to shadow buffers.
//
// Packing is greedy and only looks at the most recent texture: buffers are
// fed in sort order, which already groups buffers that combine well. A
// request that does not fit the current texture opens a new one.
type Packer struct {
	used []gputypes.ColorWriteMask
}

// Reset forgets every texture. Call it once per camera.
func (p *Packer) Reset() {
	p.used = p.used[:0]
}

// TextureCount returns the number of textures opened since Reset.
func (p *Packer) TextureCount() int { return len(p.used) }

// Used returns the channels taken in texture i.
func (p *Packer) Used(i int) gputypes.ColorWriteMask {
	if i < 0 || i >= len(p.used) {
		return gputypes.ColorWriteMaskNone
	}
	return p.used[i]
}

// Pack reserves channels for req and returns where they are.
func (p *Packer) Pack(req Request) Slot {
	if len(p.used) == 0 {
		p.used = append(p.used, gputypes.ColorWriteMaskNone)
	}
	cur := len(p.used) - 1
	free := gputypes.ColorWriteMaskAll &^ p.used[cur]

	var mask gputypes.ColorWriteMask
	switch req {
	case RequestRGB:
		if free&ColorWriteMaskRGB == ColorWriteMaskRGB {
			mask = ColorWriteMaskRGB
		}
	case RequestAlpha:
		if free&gputypes.ColorWriteMaskAlpha != 0 {
			mask = gputypes.ColorWriteMaskAlpha
		}
	default:
		if c, ok := FirstChannel(free); ok {
			mask = c.WriteMask()
		}
	}
	if mask == gputypes.ColorWriteMaskNone {
		p.used = append(p.used, gputypes.ColorWriteMaskNone)
		cur++
		switch req {
		case RequestRGB:
			mask = ColorWriteMaskRGB
		default:
			mask = gputypes.ColorWriteMaskAlpha
		}
	}
	p.used[cur] |= mask
	return Slot{Texture: cur, Mask: mask}
}
