package shadow

import "github.com/gogpu/projector"

// MaterialProperties binds a buffer to a light and updates the apply
// material for it.
type MaterialProperties interface {
	// LightSource returns the light, or nil.
	LightSource() *projector.Light

	// FindLightSourceIndex returns the visible and additional light index of
	// the light for the camera in rd. Missing indices are -1.
	FindLightSourceIndex(rd *projector.RenderingData) (visible, additional int)

	// UpdateMaterialProperties prepares m for the camera in rd and returns
	// the per-object data the apply draw needs. ok is false when the light
	// is not visible and the buffer must not be applied.
	UpdateMaterialProperties(m projector.Material, rd *projector.RenderingData) (perObject projector.PerObjectData, ok bool)
}

// Keywords selected by LightSource on the apply material.
const (
	KeywordMainLight       = "P4_SHADOW_MAIN_LIGHT"
	KeywordAdditionalLight = "P4_SHADOW_ADDITIONAL_LIGHT"
)

// LightSource is the default MaterialProperties. It resolves Light among the
// visible lights of each camera.
type LightSource struct {
	Light *projector.Light
}

// LightSource returns the light.
func (s *LightSource) LightSource() *projector.Light { return s.Light }

// FindLightSourceIndex looks the light up in the visible lights of rd.
func (s *LightSource) FindLightSourceIndex(rd *projector.RenderingData) (visible, additional int) {
	visible = rd.FindVisibleLight(s.Light)
	if visible < 0 {
		return -1, -1
	}
	return visible, rd.AdditionalLightIndex(visible)
}

// UpdateMaterialProperties selects the main or additional light variant of
// the apply shader. Additional lights need the per-object light indices.
func (s *LightSource) UpdateMaterialProperties(m projector.Material, rd *projector.RenderingData) (projector.PerObjectData, bool) {
	visible, additional := s.FindLightSourceIndex(rd)
	switch {
	case visible < 0:
		return projector.PerObjectNone, false
	case visible == rd.LightData.MainLightIndex:
		m.EnableKeyword(KeywordMainLight)
		m.DisableKeyword(KeywordAdditionalLight)
		return projector.PerObjectNone, true
	case additional >= 0:
		m.DisableKeyword(KeywordMainLight)
		m.EnableKeyword(KeywordAdditionalLight)
		return projector.PerObjectLightData | projector.PerObjectLightIndices, true
	}
	return projector.PerObjectNone, false
}
