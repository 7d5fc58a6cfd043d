package main

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/pkg/errors"
)

// headless is a noop device whose textures keep their debug label, so the
// listing can name render targets.
type headless struct {
	instance hal.Instance
	device   hal.Device
	created  int
}

type labeledTexture struct {
	hal.Texture
	label string
}

func (t *labeledTexture) Label() string { return t.label }

func openHeadless() (*headless, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create instance")
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("no adapter")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, errors.Wrap(err, "failed to open device")
	}
	return &headless{instance: instance, device: openDev.Device}, nil
}

func (h *headless) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	tex, err := h.device.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	h.created++
	return &labeledTexture{Texture: tex, label: desc.Label}, nil
}

func (h *headless) DestroyTexture(t hal.Texture) {
	if lt, ok := t.(*labeledTexture); ok {
		t = lt.Texture
	}
	h.device.DestroyTexture(t)
}

func (h *headless) Close() {
	h.device.Destroy()
	h.instance.Destroy()
}
