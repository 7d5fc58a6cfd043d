package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/wgpu/hal"
)

type fakeMaterial struct {
	name     string
	tags     map[string]string
	keywords map[string]bool
	textures map[string]hal.Texture
}

func newShadowMaterial(name string) *fakeMaterial {
	return &fakeMaterial{
		name:     name,
		tags:     map[string]string{MaterialTypeTag: MaterialTypeShadow},
		keywords: make(map[string]bool),
		textures: make(map[string]hal.Texture),
	}
}

func newPlainMaterial(name string) *fakeMaterial {
	m := newShadowMaterial(name)
	m.tags = nil
	return m
}

func (m *fakeMaterial) Name() string                  { return m.name }
func (m *fakeMaterial) EnableKeyword(k string)        { m.keywords[k] = true }
func (m *fakeMaterial) DisableKeyword(k string)       { m.keywords[k] = false }
func (m *fakeMaterial) Tag(key string) string         { return m.tags[key] }
func (m *fakeMaterial) SetTexture(p string, tex hal.Texture) { m.textures[p] = tex }

type fakeTexture struct {
	hal.Texture
	id int
}

type fakeDevice struct{ n int }

func (d *fakeDevice) CreateTexture(*hal.TextureDescriptor) (hal.Texture, error) {
	d.n++
	return &fakeTexture{id: d.n}, nil
}

func (d *fakeDevice) DestroyTexture(hal.Texture) {}

type nopContext struct{}

func (nopContext) SetRenderTarget(hal.Texture, *gputypes.Color) {}
func (nopContext) DrawMesh(*projector.Mesh, mgl32.Mat4, projector.Material, int, *projector.PropertyBlock, *projector.RenderStateBlock) {
}
func (nopContext) DrawRenderers(*projector.DrawingSettings, *projector.FilteringSettings, *projector.RenderStateBlock) {
}

type fakeProjector struct {
	name     string
	collects []CollectTarget
	applies  []ApplyParams
}

func (p *fakeProjector) CollectShadows(_ projector.DrawContext, _ *projector.RenderingData, target *CollectTarget) {
	p.collects = append(p.collects, *target)
}

func (p *fakeProjector) ApplyShadowBuffer(_ projector.DrawContext, _ *projector.RenderingData, apply *ApplyParams) {
	p.applies = append(p.applies, *apply)
}

type fakeQueue struct {
	passes []projector.RenderPass
}

func (q *fakeQueue) EnqueuePass(p projector.RenderPass) { q.passes = append(q.passes, p) }

// scene is a camera with a main light and two additional lights.
type scene struct {
	cam        *projector.Camera
	sun        *projector.Light
	lamps      []*projector.Light
	rd         *projector.RenderingData
	pool       *shadowtex.Pool
	device     *fakeDevice
	registered map[*Buffer]bool
}

func newScene() *scene {
	s := &scene{
		cam: &projector.Camera{ID: 1, Name: "main", CullingMask: projector.AllLayers, Width: 64, Height: 64},
		sun: &projector.Light{Name: "sun", Type: projector.LightTypeDirectional, Shadows: projector.LightShadowsSoft},
		lamps: []*projector.Light{
			{Name: "lamp0", Type: projector.LightTypeSpot, Shadows: projector.LightShadowsHard},
			{Name: "lamp1", Type: projector.LightTypeSpot, Shadows: projector.LightShadowsHard},
		},
		device: &fakeDevice{},
	}
	s.rd = &projector.RenderingData{
		CameraData: projector.CameraData{Camera: s.cam},
		LightData: projector.LightData{
			MainLightIndex:        0,
			AdditionalLightsCount: 2,
			VisibleLights: []projector.VisibleLight{
				{Light: s.sun}, {Light: s.lamps[0]}, {Light: s.lamps[1]},
			},
		},
	}
	s.pool = shadowtex.NewPool(s.device)
	return s
}

func (s *scene) litBuffer(name string, light *projector.Light) *Buffer {
	b := NewBuffer(name, newShadowMaterial(name))
	b.Method = ApplyByLitShaders
	b.Properties = &LightSource{Light: light}
	return b
}

func (s *scene) ref() *shadowtex.Ref {
	r, err := s.pool.Acquire(s.cam.Width, s.cam.Height)
	if err != nil {
		panic(err)
	}
	return r
}
