package projector

import "fmt"

// CameraID identifies a camera for the lifetime of the host scene.
// Per-camera tables in this module are keyed by CameraID.
type CameraID uint32

// Camera is a camera enumerated by the host pipeline for the current frame.
type Camera struct {
	ID   CameraID
	Name string

	// CullingMask selects the layers this camera renders.
	CullingMask LayerMask

	// Width and Height are the pixel dimensions of the camera target.
	// Shared shadow textures are screen-space and use the same size.
	Width  uint32
	Height uint32
}

// String returns the camera name, or its id when it has no name.
func (c *Camera) String() string {
	if c == nil {
		return "<nil camera>"
	}
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("camera#%d", c.ID)
}

// LightType is the kind of a light source.
type LightType int

const (
	LightTypeSpot LightType = iota
	LightTypeDirectional
	LightTypePoint
	LightTypeRectangle
	LightTypeDisc
)

var lightTypeNames = [...]string{
	LightTypeSpot:        "Spot",
	LightTypeDirectional: "Directional",
	LightTypePoint:       "Point",
	LightTypeRectangle:   "Rectangle",
	LightTypeDisc:        "Disc",
}

// String returns the light type name.
func (t LightType) String() string {
	if t >= 0 && int(t) < len(lightTypeNames) {
		return lightTypeNames[t]
	}
	return fmt.Sprintf("LightType(%d)", int(t))
}

// IsArea reports whether t is an area light. Area lights never cast
// realtime shadows.
func (t LightType) IsArea() bool {
	return t == LightTypeRectangle || t == LightTypeDisc
}

// LightShadows is the shadow casting mode of a light.
type LightShadows int

const (
	LightShadowsNone LightShadows = iota
	LightShadowsHard
	LightShadowsSoft
)

// LightmapBakeType is how a light contributes to lightmaps.
type LightmapBakeType int

const (
	LightmapBakeRealtime LightmapBakeType = iota
	LightmapBakeMixed
	LightmapBakeBaked
)

// BakingOutput is the result of the last lightmap bake for a light.
type BakingOutput struct {
	IsBaked          bool
	LightmapBakeType LightmapBakeType
}

// Light is a light source in the host scene. Lights are compared by pointer.
type Light struct {
	Name    string
	Type    LightType
	Shadows LightShadows
	Baking  BakingOutput
}

// IsBakedOnly reports whether the light only exists in lightmaps and has no
// realtime contribution.
func (l *Light) IsBakedOnly() bool {
	return l.Baking.IsBaked && l.Baking.LightmapBakeType == LightmapBakeBaked
}

// CastsShadows reports whether the light has shadows enabled.
func (l *Light) CastsShadows() bool {
	return l.Shadows != LightShadowsNone
}

// VisibleLight is a light that survived culling for the current camera.
type VisibleLight struct {
	Light *Light
}

// LightData is the per-camera light setup produced by the host pipeline.
type LightData struct {
	// MainLightIndex is the index in VisibleLights of the main light,
	// or -1 when there is none.
	MainLightIndex int

	// AdditionalLightsCount is the number of additional (non-main) lights
	// shaded per object this frame.
	AdditionalLightsCount int

	VisibleLights []VisibleLight
}

// CameraData is the per-camera data produced by the host pipeline.
type CameraData struct {
	Camera *Camera
}

// RenderingData is everything the host pipeline knows about the camera
// currently being rendered.
type RenderingData struct {
	CameraData CameraData
	LightData  LightData

	// LightIndexMap maps a visible light index to its additional light index,
	// or -1 for the main light and lights that are not shaded per object.
	// When nil, additional indices are assigned in visible order skipping the
	// main light.
	LightIndexMap []int

	SupportsDynamicBatching bool
}

// Camera returns the camera being rendered.
func (d *RenderingData) Camera() *Camera {
	return d.CameraData.Camera
}

// AdditionalLightIndex returns the additional light index of the visible
// light at visibleIndex, or -1 when it has none.
func (d *RenderingData) AdditionalLightIndex(visibleIndex int) int {
	if visibleIndex < 0 || visibleIndex >= len(d.LightData.VisibleLights) {
		return -1
	}
	if d.LightIndexMap != nil {
		if visibleIndex >= len(d.LightIndexMap) {
			return -1
		}
		return d.LightIndexMap[visibleIndex]
	}
	if visibleIndex == d.LightData.MainLightIndex {
		return -1
	}
	index := visibleIndex
	if main := d.LightData.MainLightIndex; main >= 0 && main < visibleIndex {
		index--
	}
	if index >= d.LightData.AdditionalLightsCount {
		return -1
	}
	return index
}

// FindVisibleLight returns the visible index of light, or -1.
func (d *RenderingData) FindVisibleLight(light *Light) int {
	if light == nil {
		return -1
	}
	for i := range d.LightData.VisibleLights {
		if d.LightData.VisibleLights[i].Light == light {
			return i
		}
	}
	return -1
}
