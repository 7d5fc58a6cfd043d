package recording

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
	"github.com/gogpu/projector/shadowtex"
	"github.com/gogpu/projector/stencil"
	"github.com/gogpu/wgpu/hal"
)

// KeywordSource is implemented by materials that can list their enabled
// keywords. The recorder snapshots them with every draw.
type KeywordSource interface {
	EnabledKeywords() []string
}

// Recorder captures the draws of render passes. It implements
// projector.DrawContext.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	name      string
	commands  []Command
	resources *ResourcePool
	target    TextureRef
}

var _ projector.DrawContext = (*Recorder)(nil)

// NewRecorder creates an empty recorder. name identifies the recording,
// usually after the camera.
func NewRecorder(name string) *Recorder {
	return &Recorder{
		name:      name,
		commands:  make([]Command, 0, 64),
		resources: NewResourcePool(),
		target:    TextureRef(InvalidRef),
	}
}

// Name returns the recording name.
func (r *Recorder) Name() string { return r.name }

// SetRenderTarget implements projector.DrawContext.
func (r *Recorder) SetRenderTarget(target hal.Texture, clearColor *gputypes.Color) {
	ref := r.resources.AddTexture(target)
	var c *gputypes.Color
	if clearColor != nil {
		cc := *clearColor
		c = &cc
	}
	r.target = ref
	r.commands = append(r.commands, SetRenderTargetCommand{Target: ref, Clear: c})
}

// DrawMesh implements projector.DrawContext.
func (r *Recorder) DrawMesh(mesh *projector.Mesh, transform mgl32.Mat4, material projector.Material, pass int, props *projector.PropertyBlock, state *projector.RenderStateBlock) {
	r.commands = append(r.commands, DrawMeshCommand{
		Mesh:       r.resources.AddMesh(mesh),
		Transform:  transform,
		Material:   r.resources.AddMaterial(material),
		Pass:       pass,
		Keywords:   snapshotKeywords(material),
		Properties: props.Ints(),
		State:      cloneState(state),
	})
}

// DrawRenderers implements projector.DrawContext.
func (r *Recorder) DrawRenderers(drawing *projector.DrawingSettings, filtering *projector.FilteringSettings, state *projector.RenderStateBlock) {
	cmd := DrawRenderersCommand{
		Material: MaterialRef(InvalidRef),
		State:    cloneState(state),
	}
	if drawing != nil {
		cmd.Material = r.resources.AddMaterial(drawing.OverrideMaterial)
		cmd.Keywords = snapshotKeywords(drawing.OverrideMaterial)
		cmd.ShaderTags = slices.Clone(drawing.ShaderTags)
		cmd.PerObjectData = drawing.PerObjectData
		cmd.EnableDynamicBatching = drawing.EnableDynamicBatching
	}
	if filtering != nil {
		cmd.RenderQueue = filtering.RenderQueue
		cmd.LayerMask = filtering.LayerMask
	}
	r.commands = append(r.commands, cmd)
}

func snapshotKeywords(m projector.Material) []string {
	if ks, ok := m.(KeywordSource); ok {
		return ks.EnabledKeywords()
	}
	return nil
}

func cloneState(s *projector.RenderStateBlock) *projector.RenderStateBlock {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []Command { return r.commands }

// Resources returns the resource pool of the recording.
func (r *Recorder) Resources() *ResourcePool { return r.resources }

// Target returns the current render target, InvalidRef for the camera.
func (r *Recorder) Target() TextureRef { return r.target }

// Len returns the number of recorded commands.
func (r *Recorder) Len() int { return len(r.commands) }

// Count returns the number of recorded commands of type t.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, cmd := range r.commands {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

// Reset drops every command and resource. The recorder can be reused for
// the next camera.
func (r *Recorder) Reset() {
	clear(r.commands)
	r.commands = r.commands[:0]
	// Finished recordings keep the old pool.
	r.resources = NewResourcePool()
	r.target = TextureRef(InvalidRef)
}

// Finish returns an immutable snapshot of the recorded commands.
func (r *Recorder) Finish() *Recording {
	return &Recording{
		name:      r.name,
		commands:  slices.Clone(r.commands),
		resources: r.resources,
	}
}

// Describe returns a one line description of cmd.
func (r *Recorder) Describe(cmd Command) string {
	return Describe(cmd, r.resources)
}

// Describe returns a one line description of cmd with references resolved
// through res.
func Describe(cmd Command, res *ResourcePool) string {
	var b strings.Builder
	b.WriteString(cmd.Type().String())
	switch c := cmd.(type) {
	case SetRenderTargetCommand:
		fmt.Fprintf(&b, " %s", res.TextureLabel(c.Target))
		if c.Clear != nil {
			fmt.Fprintf(&b, " clear=(%.2g,%.2g,%.2g,%.2g)", c.Clear.R, c.Clear.G, c.Clear.B, c.Clear.A)
		}
	case DrawMeshCommand:
		fmt.Fprintf(&b, " material=%s pass=%d", res.MaterialName(c.Material), c.Pass)
		if ref, ok := c.Properties[stencil.RefProperty]; ok {
			fmt.Fprintf(&b, " ref=%08b", ref)
		}
		describeState(&b, c.State)
	case DrawRenderersCommand:
		fmt.Fprintf(&b, " material=%s queue=%d..%d layers=%#x",
			res.MaterialName(c.Material), c.RenderQueue.Lower, c.RenderQueue.Upper, uint32(c.LayerMask))
		if c.PerObjectData != projector.PerObjectNone {
			fmt.Fprintf(&b, " perObject=%#x", uint32(c.PerObjectData))
		}
		describeState(&b, c.State)
	}
	if kw := keywordsOf(cmd); len(kw) > 0 {
		fmt.Fprintf(&b, " keywords=%s", strings.Join(kw, ","))
	}
	return b.String()
}

func keywordsOf(cmd Command) []string {
	switch c := cmd.(type) {
	case DrawMeshCommand:
		return c.Keywords
	case DrawRenderersCommand:
		return c.Keywords
	}
	return nil
}

func describeState(b *strings.Builder, s *projector.RenderStateBlock) {
	if s.Overrides(projector.OverrideStencil) {
		fmt.Fprintf(b, " stencil=%08b/%v/%v", s.Stencil.Reference, s.Stencil.Front.Compare, s.Stencil.Front.PassOp)
	}
	if s.Overrides(projector.OverrideColorWrite) {
		fmt.Fprintf(b, " colorMask=%s", shadowtex.FormatWriteMask(s.ColorWriteMask))
	}
	if s.Overrides(projector.OverrideCull) {
		fmt.Fprintf(b, " cull=%v", s.CullMode)
	}
}

// Recording is an immutable list of recorded commands.
type Recording struct {
	name      string
	commands  []Command
	resources *ResourcePool
}

// Name returns the recording name.
func (r *Recording) Name() string { return r.name }

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command { return r.commands }

// Resources returns the resource pool referenced by the commands.
func (r *Recording) Resources() *ResourcePool { return r.resources }

// Playback sends every command to b between Begin and End.
func (r *Recording) Playback(b Backend) error {
	if err := b.Begin(r.name); err != nil {
		return fmt.Errorf("recording: begin %s: %w", r.name, err)
	}
	for i, cmd := range r.commands {
		if err := b.Execute(cmd, r.resources); err != nil {
			return fmt.Errorf("recording: command %d (%s): %w", i, cmd.Type(), err)
		}
	}
	return b.End()
}
