package recording

import (
	"cmp"
	"slices"

	"github.com/gogpu/projector"
)

// Queue collects the passes of one camera and runs them in event order.
// Passes with the same event run in the order they were enqueued. It
// implements projector.PassQueue.
type Queue struct {
	passes []projector.RenderPass
}

var _ projector.PassQueue = (*Queue)(nil)

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{passes: make([]projector.RenderPass, 0, 8)}
}

// EnqueuePass implements projector.PassQueue.
func (q *Queue) EnqueuePass(pass projector.RenderPass) {
	if pass == nil {
		return
	}
	q.passes = append(q.passes, pass)
}

// Passes returns the enqueued passes in execution order.
func (q *Queue) Passes() []projector.RenderPass {
	slices.SortStableFunc(q.passes, func(a, b projector.RenderPass) int {
		return cmp.Compare(a.Event(), b.Event())
	})
	return q.passes
}

// Len returns the number of enqueued passes.
func (q *Queue) Len() int { return len(q.passes) }

// Execute runs every pass in event order against ctx.
func (q *Queue) Execute(ctx projector.DrawContext, data *projector.RenderingData) {
	for _, pass := range q.Passes() {
		projector.Logger().Debug("recording: execute pass",
			"pass", pass.Name(), "event", pass.Event().String(), "camera", data.Camera().String())
		pass.Execute(ctx, data)
	}
}

// Reset drops every pass.
func (q *Queue) Reset() {
	clear(q.passes)
	q.passes = q.passes[:0]
}
