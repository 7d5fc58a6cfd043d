package recording

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/projector"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdSetRenderTarget CommandType = iota // Redirect draws to a texture
	CmdDrawMesh                           // Draw one pass of a material over a mesh
	CmdDrawRenderers                      // Draw the visible receivers
)

var commandTypeNames = [...]string{
	CmdSetRenderTarget: "SetRenderTarget",
	CmdDrawMesh:        "DrawMesh",
	CmdDrawRenderers:   "DrawRenderers",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is a recorded draw operation.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Reference Types
// --------------------------------------------------------------------------

// MaterialRef is a reference to a material in the resource pool.
type MaterialRef uint32

// MeshRef is a reference to a mesh in the resource pool.
type MeshRef uint32

// TextureRef is a reference to a texture in the resource pool.
type TextureRef uint32

// InvalidRef is the sentinel value for an invalid reference. A nil material
// or texture is recorded as InvalidRef.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a material.
func (r MaterialRef) IsValid() bool { return uint32(r) != InvalidRef }

// IsValid returns true if the reference points to a mesh.
func (r MeshRef) IsValid() bool { return uint32(r) != InvalidRef }

// IsValid returns true if the reference points to a texture.
func (r TextureRef) IsValid() bool { return uint32(r) != InvalidRef }

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// SetRenderTargetCommand redirects subsequent draws.
type SetRenderTargetCommand struct {
	// Target is InvalidRef for the camera target.
	Target TextureRef
	// Clear is the clear color, or nil to keep the contents.
	Clear *gputypes.Color
}

// Type implements Command.
func (SetRenderTargetCommand) Type() CommandType { return CmdSetRenderTarget }

// DrawMeshCommand draws one shader pass of a material over a mesh.
type DrawMeshCommand struct {
	Mesh      MeshRef
	Transform mgl32.Mat4
	Material  MaterialRef
	Pass      int

	// Keywords are the keywords enabled on Material when recorded.
	Keywords []string

	// Properties are the integer properties of the draw.
	Properties map[string]int32

	// State is nil when the draw keeps the material state.
	State *projector.RenderStateBlock
}

// Type implements Command.
func (DrawMeshCommand) Type() CommandType { return CmdDrawMesh }

// DrawRenderersCommand draws the receivers selected by a filter.
type DrawRenderersCommand struct {
	// Material is the override material, or InvalidRef.
	Material MaterialRef
	Keywords []string

	ShaderTags            []string
	PerObjectData         projector.PerObjectData
	EnableDynamicBatching bool

	RenderQueue projector.RenderQueueRange
	LayerMask   projector.LayerMask

	State *projector.RenderStateBlock
}

// Type implements Command.
func (DrawRenderersCommand) Type() CommandType { return CmdDrawRenderers }
