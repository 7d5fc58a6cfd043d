package shadow

import (
	"errors"

	"github.com/gogpu/projector"
)

// Dispatcher enqueues the apply passes of buffers composited by shadow
// projectors. Passes are cached per buffer and reused every frame.
type Dispatcher struct {
	coord  *Coordinator
	passes map[*Buffer]*applyPass
}

// NewDispatcher creates a dispatcher applying through coord.
func NewDispatcher(coord *Coordinator) *Dispatcher {
	return &Dispatcher{coord: coord, passes: make(map[*Buffer]*applyPass)}
}

// Dispatch enqueues one apply pass for every buffer in buffers that is
// applied by shadow projectors and has projectors for the camera in rd. It
// returns the number of passes enqueued. Buffers consumed by lit shaders
// never get an apply pass here.
func (d *Dispatcher) Dispatch(queue projector.PassQueue, rd *projector.RenderingData, buffers []*Buffer) int {
	cam := rd.Camera()
	count := 0
	for _, b := range buffers {
		if b.Method != ApplyByShadowProjectors {
			continue
		}
		if len(d.coord.registry.Projectors(cam.ID, b)) == 0 {
			continue
		}
		pass := d.passes[b]
		if pass == nil {
			pass = &applyPass{coord: d.coord, buffer: b}
			d.passes[b] = pass
		}
		queue.EnqueuePass(pass)
		count++
	}
	return count
}

// Forget drops the cached pass of b.
func (d *Dispatcher) Forget(b *Buffer) {
	delete(d.passes, b)
}

// applyPass composites one buffer at the buffer's configured event.
type applyPass struct {
	coord  *Coordinator
	buffer *Buffer
}

func (p *applyPass) Name() string { return "ApplyShadowBuffer(" + p.buffer.Name + ")" }

func (p *applyPass) Event() projector.RenderPassEvent { return p.buffer.Event }

func (p *applyPass) Execute(ctx projector.DrawContext, data *projector.RenderingData) {
	ApplyAndLog(p.coord, ctx, data, p.buffer)
}

// ApplyAndLog runs Apply and logs a skipped buffer. Stencil exhaustion and
// a missing material are warnings; the other skips are routine.
func ApplyAndLog(coord *Coordinator, ctx projector.DrawContext, data *projector.RenderingData, b *Buffer) {
	err := coord.Apply(ctx, data, b)
	switch {
	case err == nil:
	case errors.Is(err, ErrStencilExhausted), errors.Is(err, ErrNoMaterial):
		projector.Logger().Warn("shadow: apply skipped", "buffer", b.Name, "camera", data.Camera().String(), "err", err)
	default:
		projector.Logger().Debug("shadow: apply skipped", "buffer", b.Name, "camera", data.Camera().String(), "err", err)
	}
}
