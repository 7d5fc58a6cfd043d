// Package scenefile loads the YAML scene descriptions run by shadowsim.
//
// A scene lists lights, cameras, shadow buffers and projectors by name:
//
//	lights:
//	  - {name: sun, type: directional, shadows: soft}
//	cameras:
//	  - {name: main, width: 320, height: 200, main_light: sun}
//	buffers:
//	  - {name: blobs, apply: projectors}
//	projectors:
//	  - {name: blob, buffer: blobs, position: [0, 4, 0], rotation: [90, 0, 0]}
package scenefile

import (
	"bytes"
	"os"

	"github.com/gogpu/projector"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the document as written.
type File struct {
	Lights     []Light     `yaml:"lights"`
	Cameras    []Camera    `yaml:"cameras"`
	Buffers    []Buffer    `yaml:"buffers"`
	Projectors []Projector `yaml:"projectors"`
}

// Light is a scene light. Type, Shadows and Bake default to spot, hard and
// realtime.
type Light struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Shadows string `yaml:"shadows"`
	Bake    string `yaml:"bake"`
}

// Camera is a camera and the lights visible to it.
type Camera struct {
	Name   string `yaml:"name"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`

	// Layers is the culling mask. Empty renders every layer.
	Layers []int `yaml:"layers"`

	MainLight        string   `yaml:"main_light"`
	AdditionalLights []string `yaml:"additional_lights"`
	DynamicBatching  bool     `yaml:"dynamic_batching"`
}

// Buffer is a shadow buffer. Color defaults to monochrome and Apply to
// projectors.
type Buffer struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Apply string `yaml:"apply"`
	Light string `yaml:"light"`
	Event string `yaml:"event"`
	Layer int    `yaml:"layer"`

	// Receivers is the receiver layer mask. Empty receives on every layer.
	Receivers []int `yaml:"receivers"`

	CollectRealtime *bool `yaml:"collect_realtime"`
	Enabled         *bool `yaml:"enabled"`
}

// Projector is a shadow projector when it names a buffer and a decal
// otherwise.
type Projector struct {
	Name string `yaml:"name"`

	// Buffer makes the projector a shadow projector. Empty is a decal.
	Buffer string `yaml:"buffer"`

	// Cameras the projector is visible in. Empty is every camera.
	Cameras []string `yaml:"cameras"`

	Stencil  bool       `yaml:"stencil"`
	Position [3]float32 `yaml:"position"`

	// Rotation is in degrees around X, Y and Z.
	Rotation [3]float32 `yaml:"rotation"`

	Frustum      Frustum `yaml:"frustum"`
	IgnoreLayers []int   `yaml:"ignore_layers"`
	Event        string  `yaml:"event"`
}

// Frustum is the projection volume of a projector.
type Frustum struct {
	Orthographic bool    `yaml:"orthographic"`
	FieldOfView  float32 `yaml:"fov"`
	Size         float32 `yaml:"size"`
	Aspect       float32 `yaml:"aspect"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
}

// Load reads and parses the scene file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %q", path)
	}
	return f, nil
}

// Parse decodes a scene document, fills in defaults and validates the
// references between its sections. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal yaml")
	}
	f.applyDefaults()
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	for i := range f.Lights {
		l := &f.Lights[i]
		if l.Type == "" {
			l.Type = "spot"
		}
		if l.Shadows == "" {
			l.Shadows = "hard"
		}
		if l.Bake == "" {
			l.Bake = "realtime"
		}
	}
	for i := range f.Buffers {
		b := &f.Buffers[i]
		if b.Color == "" {
			b.Color = "monochrome"
		}
		if b.Apply == "" {
			b.Apply = "projectors"
		}
	}
	for i := range f.Projectors {
		fr := &f.Projectors[i].Frustum
		if fr.FieldOfView == 0 {
			fr.FieldOfView = 30
		}
		if fr.Size == 0 {
			fr.Size = 2
		}
		if fr.Aspect == 0 {
			fr.Aspect = 1
		}
		if fr.Far == 0 {
			fr.Far = 100
		}
		if fr.Near == 0 && !fr.Orthographic {
			fr.Near = 0.1
		}
	}
}

func (f *File) validate() error {
	lights, err := names("light", len(f.Lights), func(i int) string { return f.Lights[i].Name })
	if err != nil {
		return err
	}
	cameras, err := names("camera", len(f.Cameras), func(i int) string { return f.Cameras[i].Name })
	if err != nil {
		return err
	}
	buffers, err := names("buffer", len(f.Buffers), func(i int) string { return f.Buffers[i].Name })
	if err != nil {
		return err
	}
	if _, err := names("projector", len(f.Projectors), func(i int) string { return f.Projectors[i].Name }); err != nil {
		return err
	}

	for _, l := range f.Lights {
		if _, ok := lightTypes[l.Type]; !ok {
			return errors.Errorf("light %q: unknown type %q", l.Name, l.Type)
		}
		if _, ok := lightShadows[l.Shadows]; !ok {
			return errors.Errorf("light %q: unknown shadows %q", l.Name, l.Shadows)
		}
		if _, ok := bakeTypes[l.Bake]; !ok {
			return errors.Errorf("light %q: unknown bake %q", l.Name, l.Bake)
		}
	}
	for _, c := range f.Cameras {
		if c.MainLight != "" && !lights[c.MainLight] {
			return errors.Errorf("camera %q: unknown main light %q", c.Name, c.MainLight)
		}
		for _, l := range c.AdditionalLights {
			if !lights[l] {
				return errors.Errorf("camera %q: unknown additional light %q", c.Name, l)
			}
			if l == c.MainLight {
				return errors.Errorf("camera %q: light %q is both main and additional", c.Name, l)
			}
		}
		if err := validLayers(c.Layers); err != nil {
			return errors.Wrapf(err, "camera %q", c.Name)
		}
	}
	for _, b := range f.Buffers {
		if _, ok := shadowColors[b.Color]; !ok {
			return errors.Errorf("buffer %q: unknown color %q", b.Name, b.Color)
		}
		if _, ok := applyMethods[b.Apply]; !ok {
			return errors.Errorf("buffer %q: unknown apply method %q", b.Name, b.Apply)
		}
		if b.Light != "" && !lights[b.Light] {
			return errors.Errorf("buffer %q: unknown light %q", b.Name, b.Light)
		}
		if err := validLayers(append([]int{b.Layer}, b.Receivers...)); err != nil {
			return errors.Wrapf(err, "buffer %q", b.Name)
		}
		if err := validEvent(b.Event); err != nil {
			return errors.Wrapf(err, "buffer %q", b.Name)
		}
	}
	for _, p := range f.Projectors {
		if p.Buffer != "" && !buffers[p.Buffer] {
			return errors.Errorf("projector %q: unknown buffer %q", p.Name, p.Buffer)
		}
		for _, c := range p.Cameras {
			if !cameras[c] {
				return errors.Errorf("projector %q: unknown camera %q", p.Name, c)
			}
		}
		if err := validLayers(p.IgnoreLayers); err != nil {
			return errors.Wrapf(err, "projector %q", p.Name)
		}
		if err := validEvent(p.Event); err != nil {
			return errors.Wrapf(err, "projector %q", p.Name)
		}
	}
	return nil
}

func names(kind string, n int, name func(int) string) (map[string]bool, error) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		s := name(i)
		if s == "" {
			return nil, errors.Errorf("%s #%d has no name", kind, i)
		}
		if seen[s] {
			return nil, errors.Errorf("duplicate %s %q", kind, s)
		}
		seen[s] = true
	}
	return seen, nil
}

func validLayers(layers []int) error {
	for _, l := range layers {
		if l < 0 || l >= projector.MaxLayers {
			return errors.Errorf("layer %d out of range", l)
		}
	}
	return nil
}

func validEvent(name string) error {
	if name == "" {
		return nil
	}
	_, err := projector.ParseRenderPassEvent(name)
	return err
}
