package litshader

import (
	"testing"

	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/wgpu/hal"
)

type fakeTexture struct {
	hal.Texture
	id int
}

func TestNewState_DefaultCapacity(t *testing.T) {
	if got := NewState(0).MaxAdditionalLights(); got != DefaultMaxAdditionalLights {
		t.Errorf("MaxAdditionalLights() = %d, want %d", got, DefaultMaxAdditionalLights)
	}
	if got := NewState(8).MaxAdditionalLights(); got != 8 {
		t.Errorf("MaxAdditionalLights() = %d, want 8", got)
	}
}

func TestState_MainLight(t *testing.T) {
	s := NewState(0)
	tex := &fakeTexture{id: 1}
	s.SetMainLightShadow(tex, projector.AllLayers)

	got := s.MainLight()
	if got.Texture != tex {
		t.Error("MainLight().Texture is not the texture set")
	}
	if got.Channel != shadowtex.ChannelA {
		t.Errorf("MainLight().Channel = %v, want A", got.Channel)
	}
	if got.Receivers != projector.AllLayers {
		t.Errorf("MainLight().Receivers = %v, want AllLayers", got.Receivers)
	}
}

func TestState_AdditionalLight(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  bool
	}{
		{"first", 0, true},
		{"last", 3, true},
		{"beyond capacity", 4, false},
		{"negative", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(4)
			tex := &fakeTexture{id: 2}
			if got := s.SetAdditionalLightShadow(tt.index, tex, shadowtex.ChannelG, projector.LayerBit(3)); got != tt.want {
				t.Fatalf("SetAdditionalLightShadow(%d) = %v, want %v", tt.index, got, tt.want)
			}
			slot := s.AdditionalLight(tt.index)
			if slot.Valid() != tt.want {
				t.Errorf("AdditionalLight(%d).Valid() = %v, want %v", tt.index, slot.Valid(), tt.want)
			}
			if tt.want && slot.Channel != shadowtex.ChannelG {
				t.Errorf("AdditionalLight(%d).Channel = %v, want G", tt.index, slot.Channel)
			}
		})
	}
}

func TestState_Reset(t *testing.T) {
	s := NewState(2)
	s.SetMainLightShadow(&fakeTexture{}, projector.AllLayers)
	s.SetAdditionalLightShadow(1, &fakeTexture{}, shadowtex.ChannelB, projector.AllLayers)
	if got := s.ActiveCount(); got != 2 {
		t.Fatalf("ActiveCount() = %d, want 2", got)
	}
	s.Reset()
	if got := s.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() after Reset = %d, want 0", got)
	}
	if got := s.MaxAdditionalLights(); got != 2 {
		t.Errorf("MaxAdditionalLights() after Reset = %d, want 2", got)
	}
}

var _ Sink = (*State)(nil)
