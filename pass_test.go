package projector

import "testing"

func TestRenderPassEvent_String(t *testing.T) {
	tests := []struct {
		event    RenderPassEvent
		expected string
	}{
		{AfterRenderingOpaques, "AfterRenderingOpaques"},
		{BeforeRenderingTransparents, "BeforeRenderingTransparents"},
		{AfterRenderingOpaques + 5, "AfterRenderingOpaques+5"},
		{RenderPassEvent(-3), "RenderPassEvent(-3)"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestParseRenderPassEvent(t *testing.T) {
	ev, err := ParseRenderPassEvent("afterrenderingskybox")
	if err != nil {
		t.Fatalf("ParseRenderPassEvent() error = %v", err)
	}
	if ev != AfterRenderingSkybox {
		t.Errorf("ParseRenderPassEvent() = %v, want %v", ev, AfterRenderingSkybox)
	}
	if _, err := ParseRenderPassEvent("DuringLunch"); err == nil {
		t.Error("ParseRenderPassEvent(unknown) should fail")
	}
}

func TestPropertyBlock(t *testing.T) {
	var nilBlock *PropertyBlock
	if _, ok := nilBlock.Int("x"); ok {
		t.Error("nil block should report no properties")
	}
	var b PropertyBlock
	b.SetInt("_StencilRef", 4)
	if v, ok := b.Int("_StencilRef"); !ok || v != 4 {
		t.Errorf("Int(_StencilRef) = %d, %v, want 4, true", v, ok)
	}
}
