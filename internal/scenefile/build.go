package scenefile

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/decal"
	"github.com/gogpu/projector/recording"
	"github.com/gogpu/projector/shadow"
	"github.com/gogpu/projector/stencil"
	"github.com/pkg/errors"
)

var lightTypes = map[string]projector.LightType{
	"spot":        projector.LightTypeSpot,
	"directional": projector.LightTypeDirectional,
	"point":       projector.LightTypePoint,
	"rectangle":   projector.LightTypeRectangle,
	"disc":        projector.LightTypeDisc,
}

var lightShadows = map[string]projector.LightShadows{
	"none": projector.LightShadowsNone,
	"hard": projector.LightShadowsHard,
	"soft": projector.LightShadowsSoft,
}

var bakeTypes = map[string]projector.LightmapBakeType{
	"realtime": projector.LightmapBakeRealtime,
	"mixed":    projector.LightmapBakeMixed,
	"baked":    projector.LightmapBakeBaked,
}

var shadowColors = map[string]shadow.ShadowColor{
	"monochrome": shadow.Monochrome,
	"colored":    shadow.Colored,
}

var applyMethods = map[string]shadow.ApplyMethod{
	"projectors":       shadow.ApplyByShadowProjectors,
	"lit_shaders":      shadow.ApplyByLitShaders,
	"light_projectors": shadow.ApplyByLightProjectors,
}

// Scene is a File resolved into the types the feature works with.
type Scene struct {
	Lights     []*projector.Light
	Cameras    []*CameraView
	Buffers    []*shadow.Buffer
	Projectors []*SceneProjector
}

// CameraView is a camera and the light setup the host reports for it.
type CameraView struct {
	Camera *projector.Camera
	Data   *projector.RenderingData
}

// SceneProjector is either a shadow projector or a decal.
type SceneProjector struct {
	Shadow *decal.ShadowProjector
	Decal  *decal.Projector

	cameras map[string]bool
}

// Name returns the projector name.
func (p *SceneProjector) Name() string {
	if p.Shadow != nil {
		return p.Shadow.Name
	}
	return p.Decal.Name
}

// VisibleIn reports whether the projector is listed for cam.
func (p *SceneProjector) VisibleIn(cam *projector.Camera) bool {
	return p.cameras == nil || p.cameras[cam.Name]
}

// CameraList returns the cameras of the scene.
func (s *Scene) CameraList() []*projector.Camera {
	out := make([]*projector.Camera, len(s.Cameras))
	for i, v := range s.Cameras {
		out[i] = v.Camera
	}
	return out
}

// Build resolves f. Shadow projectors take their temporary stencil bit from
// alloc. Materials are recording materials named after their owner.
func Build(f *File, alloc *stencil.Allocator) (*Scene, error) {
	s := &Scene{}
	lights := make(map[string]*projector.Light, len(f.Lights))
	for _, l := range f.Lights {
		light := &projector.Light{
			Name:    l.Name,
			Type:    lightTypes[l.Type],
			Shadows: lightShadows[l.Shadows],
		}
		if bake := bakeTypes[l.Bake]; bake != projector.LightmapBakeRealtime {
			light.Baking = projector.BakingOutput{IsBaked: true, LightmapBakeType: bake}
		}
		lights[l.Name] = light
		s.Lights = append(s.Lights, light)
	}

	for i, c := range f.Cameras {
		cam := &projector.Camera{
			ID:          projector.CameraID(i + 1), //nolint:gosec // camera count is small
			Name:        c.Name,
			CullingMask: layerMask(c.Layers),
			Width:       c.Width,
			Height:      c.Height,
		}
		data := &projector.RenderingData{
			CameraData:              projector.CameraData{Camera: cam},
			LightData:               projector.LightData{MainLightIndex: -1},
			SupportsDynamicBatching: c.DynamicBatching,
		}
		if c.MainLight != "" {
			data.LightData.MainLightIndex = 0
			data.LightData.VisibleLights = append(data.LightData.VisibleLights, projector.VisibleLight{Light: lights[c.MainLight]})
		}
		for _, name := range c.AdditionalLights {
			data.LightData.VisibleLights = append(data.LightData.VisibleLights, projector.VisibleLight{Light: lights[name]})
		}
		data.LightData.AdditionalLightsCount = len(c.AdditionalLights)
		s.Cameras = append(s.Cameras, &CameraView{Camera: cam, Data: data})
	}

	buffers := make(map[string]*shadow.Buffer, len(f.Buffers))
	for _, b := range f.Buffers {
		material := recording.NewMaterial("apply-" + b.Name)
		buf := shadow.NewBuffer(b.Name, material)
		buf.Color = shadowColors[b.Color]
		buf.Method = applyMethods[b.Apply]
		buf.Layer = b.Layer
		buf.ReceiverLayers = layerMask(b.Receivers)
		if b.Event != "" {
			buf.Event, _ = projector.ParseRenderPassEvent(b.Event)
		}
		if b.Light != "" {
			material.SetTag(shadow.MaterialTypeTag, shadow.MaterialTypeShadow)
			buf.Properties = &shadow.LightSource{Light: lights[b.Light]}
		}
		if b.CollectRealtime != nil {
			buf.CollectRealtime = *b.CollectRealtime
		}
		if b.Enabled != nil {
			buf.Enabled = *b.Enabled
		}
		buffers[b.Name] = buf
		s.Buffers = append(s.Buffers, buf)
	}

	for _, p := range f.Projectors {
		frustum := decal.Frustum{
			Orthographic:     p.Frustum.Orthographic,
			FieldOfView:      p.Frustum.FieldOfView,
			OrthographicSize: p.Frustum.Size,
			AspectRatio:      p.Frustum.Aspect,
			Near:             p.Frustum.Near,
			Far:              p.Frustum.Far,
		}
		if err := frustum.Validate(); err != nil {
			return nil, errors.Wrapf(err, "projector %q", p.Name)
		}

		var base *decal.Projector
		out := &SceneProjector{}
		if p.Buffer != "" {
			out.Shadow = decal.NewShadowProjector(p.Name, recording.NewMaterial("cast-"+p.Name), buffers[p.Buffer], alloc)
			base = &out.Shadow.Projector
		} else {
			out.Decal = decal.NewProjector(p.Name, recording.NewMaterial("decal-"+p.Name))
			base = out.Decal
		}
		base.Frustum = frustum
		base.Transform = transform(p.Position, p.Rotation)
		base.IgnoreLayers = layersOf(p.IgnoreLayers)
		if p.Stencil {
			base.StencilPass = recording.NewMaterial("stencil-" + p.Name)
		}
		if p.Event != "" {
			base.Event, _ = projector.ParseRenderPassEvent(p.Event)
		}
		if len(p.Cameras) > 0 {
			out.cameras = make(map[string]bool, len(p.Cameras))
			for _, c := range p.Cameras {
				out.cameras[c] = true
			}
		}
		s.Projectors = append(s.Projectors, out)
	}
	return s, nil
}

func transform(pos, rot [3]float32) mgl32.Mat4 {
	q := mgl32.AnglesToQuat(mgl32.DegToRad(rot[0]), mgl32.DegToRad(rot[1]), mgl32.DegToRad(rot[2]), mgl32.XYZ)
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(q.Mat4())
}

// layerMask selects the listed layers, or every layer for an empty list.
func layerMask(layers []int) projector.LayerMask {
	if len(layers) == 0 {
		return projector.AllLayers
	}
	return layersOf(layers)
}

// layersOf selects the listed layers.
func layersOf(layers []int) projector.LayerMask {
	m := projector.NoLayers
	for _, l := range layers {
		m |= projector.LayerBit(l)
	}
	return m
}
