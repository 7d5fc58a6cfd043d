package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/gogpu/projector/feature"
	"github.com/gogpu/projector/internal/scenefile"
	"github.com/gogpu/projector/recording"
	"github.com/gogpu/projector/shadow"
	"github.com/gogpu/projector/shadowtex"
	"github.com/pkg/errors"
)

type config struct {
	scene  string
	frames int
	format string
	dump   bool
}

// bufferState is what -dump prints for every buffer a camera rendered.
type bufferState struct {
	Name               string
	Method             string
	SortIndex          int
	Texture            string
	Channels           string
	VisibleLight       int
	AdditionalLight    int
	AppliedToLightPass bool
}

var spewConfig = newSpewConfig()

func newSpewConfig() *spew.ConfigState {
	c := spew.NewDefaultConfig()
	c.DisableCapacities = true
	c.DisablePointerAddresses = true
	c.Indent = "  "
	return c
}

func run(w io.Writer, cfg config) error {
	file, err := scenefile.Load(cfg.scene)
	if err != nil {
		return err
	}
	dev, err := openHeadless()
	if err != nil {
		return err
	}
	defer dev.Close()

	f := feature.New(dev)
	defer f.Destroy()

	scene, err := scenefile.Build(file, f.StencilAllocator())
	if err != nil {
		return errors.Wrap(err, "failed to build scene")
	}
	for _, b := range scene.Buffers {
		f.AddBuffer(b)
	}

	for frame := 0; frame < cfg.frames; frame++ {
		f.BeginFrame(scene.CameraList())
		for _, view := range scene.Cameras {
			if err := renderCamera(w, f, scene, view, frame, cfg); err != nil {
				return errors.Wrapf(err, "frame %d camera %q", frame, view.Camera.Name)
			}
		}
	}
	fmt.Fprintf(w, "textures created: %d\n", dev.created)
	return nil
}

func renderCamera(w io.Writer, f *feature.Feature, scene *scenefile.Scene, view *scenefile.CameraView, frame int, cfg config) error {
	cam := view.Camera
	for _, p := range scene.Projectors {
		if !p.VisibleIn(cam) {
			continue
		}
		if p.Shadow != nil {
			p.Shadow.Register(f, cam)
		} else {
			f.AddDecal(cam, p.Decal)
		}
	}

	queue := recording.NewQueue()
	applies := f.AddRenderPasses(queue, view.Data)

	rec := recording.NewRecorder(cam.Name)
	queue.Execute(rec, view.Data)
	defer f.EndCamera(cam)

	fmt.Fprintf(w, "frame %d camera %s: %d passes, %d shadow applies\n", frame, cam.Name, queue.Len(), applies)
	for _, p := range queue.Passes() {
		fmt.Fprintf(w, "  pass %-28s %s\n", p.Event(), p.Name())
	}
	buffers := f.CameraBuffers(cam.ID)
	for _, b := range buffers {
		s := stateOf(b)
		fmt.Fprintf(w, "  buffer %-16s sort=%-3d %s %s\n", s.Name, s.SortIndex, s.Texture, s.Channels)
	}
	if cfg.dump {
		states := make([]bufferState, len(buffers))
		for i, b := range buffers {
			states[i] = stateOf(b)
		}
		spewConfig.Fdump(w, states)
	}

	backend, err := recording.NewBackend(cfg.format)
	if err != nil {
		return err
	}
	out, ok := backend.(recording.WriterBackend)
	if !ok {
		return errors.Errorf("backend %q has no text output", cfg.format)
	}
	if err := rec.Finish().Playback(out); err != nil {
		return err
	}
	_, err = out.WriteTo(w)
	return err
}

func stateOf(b *shadow.Buffer) bufferState {
	s := bufferState{
		Name:               b.Name,
		Method:             b.Method.String(),
		SortIndex:          b.SortIndex(),
		Texture:            "-",
		Channels:           shadowtex.FormatWriteMask(b.WriteMask()),
		VisibleLight:       b.VisibleLightIndex(),
		AdditionalLight:    b.AdditionalLightIndex(),
		AppliedToLightPass: b.AppliedToLightPass(),
	}
	if ref := b.TextureRef(); ref != nil {
		s.Texture = ref.Label()
	}
	return s
}
