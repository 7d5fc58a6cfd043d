package shadowtex

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fakeTexture gives every texture a distinct identity. Methods of the
// embedded interface are never called.
type fakeTexture struct {
	hal.Texture
	id    int
	label string
}

type fakeDevice struct {
	created   []*fakeTexture
	destroyed []*fakeTexture
	fail      error
}

func (d *fakeDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	t := &fakeTexture{id: len(d.created), label: desc.Label}
	d.created = append(d.created, t)
	return t, nil
}

func (d *fakeDevice) DestroyTexture(tex hal.Texture) {
	d.destroyed = append(d.destroyed, tex.(*fakeTexture))
}

// =============================================================================
// Channel Tests
// =============================================================================

func TestChannel_WriteMask(t *testing.T) {
	tests := []struct {
		c    Channel
		want gputypes.ColorWriteMask
		name string
	}{
		{ChannelA, gputypes.ColorWriteMaskAlpha, "A"},
		{ChannelB, gputypes.ColorWriteMaskBlue, "B"},
		{ChannelG, gputypes.ColorWriteMaskGreen, "G"},
		{ChannelR, gputypes.ColorWriteMaskRed, "R"},
		{Channel(7), gputypes.ColorWriteMaskNone, "Channel(7)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.WriteMask(); got != tt.want {
				t.Errorf("WriteMask() = %v, want %v", got, tt.want)
			}
			if got := tt.c.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestFirstChannel(t *testing.T) {
	tests := []struct {
		mask   gputypes.ColorWriteMask
		want   Channel
		wantOK bool
	}{
		{gputypes.ColorWriteMaskAll, ChannelA, true},
		{ColorWriteMaskRGB, ChannelB, true},
		{gputypes.ColorWriteMaskRed, ChannelR, true},
		{gputypes.ColorWriteMaskNone, 0, false},
	}
	for _, tt := range tests {
		got, ok := FirstChannel(tt.mask)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FirstChannel(%v) = %v, %v, want %v, %v", tt.mask, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSingleChannel(t *testing.T) {
	if c, ok := SingleChannel(gputypes.ColorWriteMaskGreen); !ok || c != ChannelG {
		t.Errorf("SingleChannel(Green) = %v, %v, want G, true", c, ok)
	}
	if _, ok := SingleChannel(ColorWriteMaskRGB); ok {
		t.Error("SingleChannel(RGB) reported a single channel")
	}
}

func TestFormatWriteMask(t *testing.T) {
	tests := []struct {
		mask gputypes.ColorWriteMask
		want string
	}{
		{gputypes.ColorWriteMaskNone, "-"},
		{gputypes.ColorWriteMaskAlpha, "A"},
		{ColorWriteMaskRGB, "RGB"},
		{gputypes.ColorWriteMaskAll, "RGBA"},
	}
	for _, tt := range tests {
		if got := FormatWriteMask(tt.mask); got != tt.want {
			t.Errorf("FormatWriteMask(%v) = %q, want %q", tt.mask, got, tt.want)
		}
	}
}

// =============================================================================
// Ref Tests
// =============================================================================

func TestRef_RetainRelease(t *testing.T) {
	dev := &fakeDevice{}
	pool := NewPool(dev)
	ref, err := pool.Acquire(64, 32)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ref.Retain(gputypes.ColorWriteMaskAlpha)
	ref.Retain(gputypes.ColorWriteMaskBlue)
	if got := ref.RefCount(); got != 2 {
		t.Fatalf("RefCount() = %d, want 2", got)
	}
	if got := ref.Retained(); got != gputypes.ColorWriteMaskAlpha|gputypes.ColorWriteMaskBlue {
		t.Errorf("Retained() = %v, want A|B", got)
	}

	if err := ref.Release(gputypes.ColorWriteMaskAlpha); err != nil {
		t.Fatalf("Release(A) error = %v", err)
	}
	if pool.FreeCount() != 0 {
		t.Error("texture returned to the pool while still retained")
	}
	if err := ref.Release(gputypes.ColorWriteMaskBlue); err != nil {
		t.Fatalf("Release(B) error = %v", err)
	}
	if pool.FreeCount() != 1 || pool.LiveCount() != 0 {
		t.Errorf("FreeCount/LiveCount = %d/%d, want 1/0", pool.FreeCount(), pool.LiveCount())
	}
}

func TestRef_ReleaseNotRetained(t *testing.T) {
	pool := NewPool(&fakeDevice{})
	ref, _ := pool.Acquire(8, 8)

	if err := ref.Release(gputypes.ColorWriteMaskAlpha); !errors.Is(err, ErrNotRetained) {
		t.Errorf("Release() on fresh ref error = %v, want ErrNotRetained", err)
	}

	ref.Retain(gputypes.ColorWriteMaskRed)
	if err := ref.Release(gputypes.ColorWriteMaskGreen); !errors.Is(err, ErrNotRetained) {
		t.Errorf("Release(G) error = %v, want ErrNotRetained", err)
	}
	if got := ref.RefCount(); got != 1 {
		t.Errorf("RefCount() after failed release = %d, want 1", got)
	}
}

func TestRef_SharedChannelCountsEachRetain(t *testing.T) {
	pool := NewPool(&fakeDevice{})
	ref, _ := pool.Acquire(8, 8)
	ref.Retain(gputypes.ColorWriteMaskAlpha)
	ref.Retain(gputypes.ColorWriteMaskAlpha)

	if err := ref.Release(gputypes.ColorWriteMaskAlpha); err != nil {
		t.Fatalf("first Release() error = %v", err)
	}
	if ref.Retained() != gputypes.ColorWriteMaskAlpha {
		t.Error("alpha released after one of two retains")
	}
	if err := ref.Release(gputypes.ColorWriteMaskAlpha); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	if err := ref.Release(gputypes.ColorWriteMaskAlpha); !errors.Is(err, ErrNotRetained) {
		t.Errorf("third Release() error = %v, want ErrNotRetained", err)
	}
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestPool_ReusesSameSize(t *testing.T) {
	dev := &fakeDevice{}
	pool := NewPool(dev)

	first, _ := pool.Acquire(100, 50)
	first.Retain(gputypes.ColorWriteMaskAlpha)
	_ = first.Release(gputypes.ColorWriteMaskAlpha)

	second, err := pool.Acquire(100, 50)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if second != first {
		t.Error("Acquire() did not reuse the free texture")
	}
	other, _ := pool.Acquire(200, 50)
	if other == first {
		t.Error("Acquire() reused a texture of a different size")
	}
	if got := pool.CreatedCount(); got != 2 {
		t.Errorf("CreatedCount() = %d, want 2", got)
	}
}

func TestPool_Descriptor(t *testing.T) {
	var got *hal.TextureDescriptor
	dev := &descriptorDevice{fakeDevice: &fakeDevice{}, desc: &got}
	pool := NewPool(dev)
	if _, err := pool.Acquire(640, 480); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if got == nil {
		t.Fatal("CreateTexture was not called")
	}
	if got.Size.Width != 640 || got.Size.Height != 480 || got.Size.DepthOrArrayLayers != 1 {
		t.Errorf("Size = %+v, want 640x480x1", got.Size)
	}
	if got.Format != Format {
		t.Errorf("Format = %v, want %v", got.Format, Format)
	}
	if got.Usage&gputypes.TextureUsageRenderAttachment == 0 || got.Usage&gputypes.TextureUsageTextureBinding == 0 {
		t.Errorf("Usage = %v, want RenderAttachment|TextureBinding", got.Usage)
	}
}

type descriptorDevice struct {
	*fakeDevice
	desc **hal.TextureDescriptor
}

func (d *descriptorDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	*d.desc = desc
	return d.fakeDevice.CreateTexture(desc)
}

func TestPool_Errors(t *testing.T) {
	boom := errors.New("out of memory")
	pool := NewPool(&fakeDevice{fail: boom})
	if _, err := pool.Acquire(4, 4); !errors.Is(err, boom) {
		t.Errorf("Acquire() error = %v, want wrapped device error", err)
	}
	if _, err := pool.Acquire(0, 4); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Acquire(0, 4) error = %v, want ErrInvalidSize", err)
	}
	pool.Destroy()
	if _, err := pool.Acquire(4, 4); !errors.Is(err, ErrPoolDestroyed) {
		t.Errorf("Acquire() after Destroy error = %v, want ErrPoolDestroyed", err)
	}
}

func TestPool_Trim(t *testing.T) {
	dev := &fakeDevice{}
	pool := NewPool(dev)
	ref, _ := pool.Acquire(16, 16)
	ref.Retain(gputypes.ColorWriteMaskAlpha)
	_ = ref.Release(gputypes.ColorWriteMaskAlpha)

	if n := pool.Trim(); n != 0 {
		t.Errorf("first Trim() = %d, want 0 (texture used this frame)", n)
	}
	if n := pool.Trim(); n != 1 {
		t.Errorf("second Trim() = %d, want 1", n)
	}
	if len(dev.destroyed) != 1 || pool.FreeCount() != 0 {
		t.Errorf("destroyed %d, free %d, want 1, 0", len(dev.destroyed), pool.FreeCount())
	}
}

func TestPool_DestroyDefersLiveTextures(t *testing.T) {
	dev := &fakeDevice{}
	pool := NewPool(dev)
	live, _ := pool.Acquire(16, 16)
	live.Retain(gputypes.ColorWriteMaskAlpha)

	pool.Destroy()
	if len(dev.destroyed) != 0 {
		t.Fatalf("Destroy() destroyed %d live textures", len(dev.destroyed))
	}
	_ = live.Release(gputypes.ColorWriteMaskAlpha)
	if len(dev.destroyed) != 1 {
		t.Errorf("destroyed after last release = %d, want 1", len(dev.destroyed))
	}
}

// =============================================================================
// Packer Tests
// =============================================================================

func TestPacker_MonochromeFillsABGR(t *testing.T) {
	var p Packer
	want := []Slot{
		{0, gputypes.ColorWriteMaskAlpha},
		{0, gputypes.ColorWriteMaskBlue},
		{0, gputypes.ColorWriteMaskGreen},
		{0, gputypes.ColorWriteMaskRed},
		{1, gputypes.ColorWriteMaskAlpha},
	}
	for i, w := range want {
		if got := p.Pack(RequestChannel); got != w {
			t.Errorf("Pack() #%d = %+v, want %+v", i+1, got, w)
		}
	}
	if got := p.TextureCount(); got != 2 {
		t.Errorf("TextureCount() = %d, want 2", got)
	}
}

func TestPacker_Mixed(t *testing.T) {
	tests := []struct {
		name string
		reqs []Request
		want []Slot
	}{
		{
			name: "main light then additional",
			reqs: []Request{RequestAlpha, RequestChannel, RequestChannel},
			want: []Slot{
				{0, gputypes.ColorWriteMaskAlpha},
				{0, gputypes.ColorWriteMaskBlue},
				{0, gputypes.ColorWriteMaskGreen},
			},
		},
		{
			name: "alpha taken opens a new texture",
			reqs: []Request{RequestChannel, RequestAlpha},
			want: []Slot{
				{0, gputypes.ColorWriteMaskAlpha},
				{1, gputypes.ColorWriteMaskAlpha},
			},
		},
		{
			name: "colored then monochrome share",
			reqs: []Request{RequestRGB, RequestChannel, RequestChannel},
			want: []Slot{
				{0, ColorWriteMaskRGB},
				{0, gputypes.ColorWriteMaskAlpha},
				{1, gputypes.ColorWriteMaskAlpha},
			},
		},
		{
			name: "colored after monochrome",
			reqs: []Request{RequestChannel, RequestChannel, RequestRGB},
			want: []Slot{
				{0, gputypes.ColorWriteMaskAlpha},
				{0, gputypes.ColorWriteMaskBlue},
				{1, ColorWriteMaskRGB},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Packer
			for i, req := range tt.reqs {
				if got := p.Pack(req); got != tt.want[i] {
					t.Errorf("Pack() #%d = %+v, want %+v", i+1, got, tt.want[i])
				}
			}
		})
	}
}

func TestPacker_Reset(t *testing.T) {
	var p Packer
	p.Pack(RequestRGB)
	p.Pack(RequestRGB)
	p.Reset()
	if got := p.TextureCount(); got != 0 {
		t.Errorf("TextureCount() after Reset = %d, want 0", got)
	}
	if got := p.Pack(RequestChannel); got.Texture != 0 || got.Mask != gputypes.ColorWriteMaskAlpha {
		t.Errorf("Pack() after Reset = %+v, want {0 A}", got)
	}
}
