// Package feature wires projector shadows and decals into the host frame.
//
// A Feature owns the per-frame resources shared by every projector: the
// stencil bit pool, the shadow texture pool, the projector registry and the
// lighting pass shadow state. The host drives it with one call per frame
// and three calls per camera:
//
//	f.BeginFrame(cameras)
//	for _, cam := range cameras {
//	    // projectors visible in cam register here
//	    f.AddRenderPasses(queue, rd)
//	    // the host executes the queue
//	    f.EndCamera(cam)
//	}
package feature

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/gogpu/projector"
	"github.com/gogpu/projector/decal"
	"github.com/gogpu/projector/litshader"
	"github.com/gogpu/projector/shadow"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/projector/stencil"
)

// cameraState is the per-camera arena. Slices are truncated, not
// reallocated, between frames.
type cameraState struct {
	buffers []*shadow.Buffer
	sorted  []*shadow.Buffer
	decals  []*decal.Projector

	applyPasses int
	collect     *collectPass
	residual    *residualPass
}

func (s *cameraState) addBuffer(b *shadow.Buffer) {
	if !slices.Contains(s.buffers, b) {
		s.buffers = append(s.buffers, b)
	}
}

func (s *cameraState) reset() {
	clear(s.buffers)
	s.buffers = s.buffers[:0]
	clear(s.sorted)
	s.sorted = s.sorted[:0]
	clear(s.decals)
	s.decals = s.decals[:0]
	s.applyPasses = 0
}

// Feature is the frame orchestrator.
//
// Feature is not safe for concurrent use. Every call must come from the
// rendering thread in frame order.
type Feature struct {
	opts options

	stencil    *stencil.Allocator
	pool       *shadowtex.Pool
	packer     shadowtex.Packer
	registry   *shadow.Registry
	coord      *shadow.Coordinator
	dispatcher *shadow.Dispatcher
	lit        *litshader.State

	buffers     []*shadow.Buffer
	cameras     map[projector.CameraID]*cameraState
	decalPasses map[*decal.Projector]projector.RenderPass
	refs        []*shadowtex.Ref
}

var _ decal.Registrar = (*Feature)(nil)

// New creates a feature that allocates shadow textures from device.
func New(device shadowtex.TextureAllocator, opts ...Option) *Feature {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	alloc := stencil.NewAllocator(stencil.WithUsableBits(o.stencilBits))
	lit := litshader.NewState(o.maxAdditionalLights)
	registry := shadow.NewRegistry()
	coord := shadow.NewCoordinator(registry, alloc, lit)
	return &Feature{
		opts:        o,
		stencil:     alloc,
		pool:        shadowtex.NewPool(device),
		registry:    registry,
		coord:       coord,
		dispatcher:  shadow.NewDispatcher(coord),
		lit:         lit,
		cameras:     make(map[projector.CameraID]*cameraState),
		decalPasses: make(map[*decal.Projector]projector.RenderPass),
	}
}

// StencilAllocator returns the stencil bit pool of the frame.
func (f *Feature) StencilAllocator() *stencil.Allocator { return f.stencil }

// Pool returns the shadow texture pool.
func (f *Feature) Pool() *shadowtex.Pool { return f.pool }

// Registry returns the projector registry.
func (f *Feature) Registry() *shadow.Registry { return f.registry }

// LitShaderState returns the shadow inputs of the lighting pass for the
// camera being rendered. The host binds it after the collect pass.
func (f *Feature) LitShaderState() *litshader.State { return f.lit }

// Buffers returns the buffers known to the feature.
func (f *Feature) Buffers() []*shadow.Buffer { return f.buffers }

// AddBuffer makes b known to the feature. Known lit shader buffers collect
// the realtime shadows of their light in every camera that renders their
// layer, even without projectors.
func (f *Feature) AddBuffer(b *shadow.Buffer) {
	if b == nil || slices.Contains(f.buffers, b) {
		return
	}
	f.buffers = append(f.buffers, b)
}

// RemoveBuffer forgets b and every registration made with it.
func (f *Feature) RemoveBuffer(b *shadow.Buffer) {
	f.registry.Forget(b)
	f.dispatcher.Forget(b)
	if err := b.ReleaseTexture(); err != nil {
		projector.Logger().Warn("feature: release on remove", "buffer", b.Name, "err", err)
	}
	f.buffers = slices.DeleteFunc(f.buffers, func(x *shadow.Buffer) bool { return x == b })
	for _, st := range f.cameras {
		st.buffers = slices.DeleteFunc(st.buffers, func(x *shadow.Buffer) bool { return x == b })
		st.sorted = slices.DeleteFunc(st.sorted, func(x *shadow.Buffer) bool { return x == b })
	}
}

func (f *Feature) camera(cam *projector.Camera) *cameraState {
	st := f.cameras[cam.ID]
	if st == nil {
		st = &cameraState{}
		st.collect = &collectPass{feature: f, state: st}
		st.residual = &residualPass{feature: f, state: st}
		f.cameras[cam.ID] = st
	}
	return st
}

// BeginFrame starts a frame for the given cameras. It returns every stencil
// bit to the pool, ages out registrations of the previous frame and trims
// shadow textures nobody used.
func (f *Feature) BeginFrame(cameras []*projector.Camera) {
	f.stencil.ResetFrame()
	f.registry.BeginFrame()
	for _, b := range f.buffers {
		if err := b.ReleaseTexture(); err != nil {
			projector.Logger().Warn("feature: stale shadow texture", "buffer", b.Name, "err", err)
		}
	}
	for _, st := range f.cameras {
		st.reset()
	}
	for _, b := range f.buffers {
		if !b.Enabled || !b.CollectRealtimeShadows() {
			continue
		}
		for _, cam := range cameras {
			if cam.CullingMask.Contains(b.Layer) {
				f.camera(cam).addBuffer(b)
			}
		}
	}
	f.pool.Trim()
}

// RegisterProjector registers p with b for cam. It implements
// decal.Registrar. Disabled buffers and buffers without material accept no
// projectors.
func (f *Feature) RegisterProjector(cam *projector.Camera, b *shadow.Buffer, p shadow.Projector) bool {
	if b == nil || !b.Enabled {
		return false
	}
	if !f.coord.Register(cam, b, p) {
		return false
	}
	f.AddBuffer(b)
	f.camera(cam).addBuffer(b)
	return true
}

// AddDecal renders p in cam this frame.
func (f *Feature) AddDecal(cam *projector.Camera, p *decal.Projector) {
	st := f.camera(cam)
	if !slices.Contains(st.decals, p) {
		st.decals = append(st.decals, p)
	}
}

// AddRenderPasses enqueues the passes of the camera in rd and returns the
// number of apply passes of buffers composited by shadow projectors. The
// lighting-pass shadow slots start empty for every camera.
func (f *Feature) AddRenderPasses(queue projector.PassQueue, rd *projector.RenderingData) int {
	cam := rd.Camera()
	st := f.camera(cam)
	f.lit.Reset()

	clear(st.sorted)
	st.sorted = st.sorted[:0]
	for _, b := range st.buffers {
		if !b.Enabled {
			f.registry.Clear(cam.ID, b)
			continue
		}
		b.SetupLightSource(rd)
		if !b.IsVisible() {
			f.registry.Clear(cam.ID, b)
			continue
		}
		st.sorted = append(st.sorted, b)
	}
	slices.SortStableFunc(st.sorted, func(a, b *shadow.Buffer) int {
		return cmp.Compare(a.SortIndex(), b.SortIndex())
	})
	if projector.Logger().Enabled(context.Background(), slog.LevelDebug) {
		for _, b := range st.sorted {
			projector.Logger().Debug("feature: buffer order",
				"camera", cam.String(), "buffer", b.Name, "sortIndex", b.SortIndex(), "method", b.Method.String())
		}
	}

	if len(st.sorted) > 0 {
		queue.EnqueuePass(st.collect)
	}
	st.applyPasses = f.dispatcher.Dispatch(queue, rd, st.sorted)
	if slices.ContainsFunc(st.sorted, func(b *shadow.Buffer) bool { return b.Method != shadow.ApplyByShadowProjectors }) {
		queue.EnqueuePass(st.residual)
	}
	for _, p := range st.decals {
		pass := f.decalPasses[p]
		if pass == nil {
			pass = p.RenderPass(f.stencil)
			f.decalPasses[p] = pass
		}
		queue.EnqueuePass(pass)
	}
	return st.applyPasses
}

// ApplyPassCount returns the number of apply passes the last AddRenderPasses
// enqueued for cam.
func (f *Feature) ApplyPassCount(cam projector.CameraID) int {
	if st := f.cameras[cam]; st != nil {
		return st.applyPasses
	}
	return 0
}

// CameraBuffers returns the buffers of cam in collect order. Valid after
// AddRenderPasses.
func (f *Feature) CameraBuffers(cam projector.CameraID) []*shadow.Buffer {
	if st := f.cameras[cam]; st != nil {
		return st.sorted
	}
	return nil
}

// EndCamera drops the registrations of cam, releases the shadow textures
// its buffers hold and clears the lighting-pass shadow slots.
func (f *Feature) EndCamera(cam *projector.Camera) {
	f.lit.Reset()
	st := f.cameras[cam.ID]
	if st == nil {
		return
	}
	for _, b := range st.buffers {
		if err := f.coord.EndCamera(cam, b); err != nil {
			projector.Logger().Warn("feature: end camera", "camera", cam.String(), "buffer", b.Name, "err", err)
		}
	}
	f.registry.ClearCamera(cam.ID)
	st.reset()
}

// RemoveDecal drops the cached pass of p.
func (f *Feature) RemoveDecal(p *decal.Projector) {
	delete(f.decalPasses, p)
	for _, st := range f.cameras {
		st.decals = slices.DeleteFunc(st.decals, func(x *decal.Projector) bool { return x == p })
	}
}

// Destroy releases every shadow texture. The feature must not be used
// afterwards.
func (f *Feature) Destroy() {
	for _, b := range f.buffers {
		_ = b.ReleaseTexture()
	}
	f.pool.Destroy()
	clear(f.cameras)
}
