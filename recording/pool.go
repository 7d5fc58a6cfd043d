package recording

import (
	"fmt"

	"github.com/gogpu/projector"
	"github.com/gogpu/wgpu/hal"
)

// ResourcePool stores the materials, meshes and textures referenced by
// recorded commands. Each resource is stored once; adding it again returns
// the existing reference.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	materials []projector.Material
	meshes    []*projector.Mesh
	textures  []hal.Texture

	materialIndex map[projector.Material]MaterialRef
	meshIndex     map[*projector.Mesh]MeshRef
	textureIndex  map[hal.Texture]TextureRef
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		materials:     make([]projector.Material, 0, 16),
		meshes:        make([]*projector.Mesh, 0, 8),
		textures:      make([]hal.Texture, 0, 4),
		materialIndex: make(map[projector.Material]MaterialRef),
		meshIndex:     make(map[*projector.Mesh]MeshRef),
		textureIndex:  make(map[hal.Texture]TextureRef),
	}
}

// AddMaterial adds a material and returns its reference. A nil material
// yields InvalidRef.
func (p *ResourcePool) AddMaterial(m projector.Material) MaterialRef {
	if m == nil {
		return MaterialRef(InvalidRef)
	}
	if ref, ok := p.materialIndex[m]; ok {
		return ref
	}
	p.materials = append(p.materials, m)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := MaterialRef(uint32(len(p.materials) - 1))
	p.materialIndex[m] = ref
	return ref
}

// GetMaterial returns the material for the given reference, or nil.
func (p *ResourcePool) GetMaterial(ref MaterialRef) projector.Material {
	if int(ref) >= len(p.materials) {
		return nil
	}
	return p.materials[ref]
}

// AddMesh adds a mesh and returns its reference. A nil mesh yields
// InvalidRef.
func (p *ResourcePool) AddMesh(m *projector.Mesh) MeshRef {
	if m == nil {
		return MeshRef(InvalidRef)
	}
	if ref, ok := p.meshIndex[m]; ok {
		return ref
	}
	p.meshes = append(p.meshes, m)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := MeshRef(uint32(len(p.meshes) - 1))
	p.meshIndex[m] = ref
	return ref
}

// GetMesh returns the mesh for the given reference, or nil.
func (p *ResourcePool) GetMesh(ref MeshRef) *projector.Mesh {
	if int(ref) >= len(p.meshes) {
		return nil
	}
	return p.meshes[ref]
}

// AddTexture adds a texture and returns its reference. A nil texture yields
// InvalidRef.
func (p *ResourcePool) AddTexture(t hal.Texture) TextureRef {
	if t == nil {
		return TextureRef(InvalidRef)
	}
	if ref, ok := p.textureIndex[t]; ok {
		return ref
	}
	p.textures = append(p.textures, t)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := TextureRef(uint32(len(p.textures) - 1))
	p.textureIndex[t] = ref
	return ref
}

// GetTexture returns the texture for the given reference, or nil.
func (p *ResourcePool) GetTexture(ref TextureRef) hal.Texture {
	if int(ref) >= len(p.textures) {
		return nil
	}
	return p.textures[ref]
}

// MaterialCount returns the number of materials in the pool.
func (p *ResourcePool) MaterialCount() int { return len(p.materials) }

// MeshCount returns the number of meshes in the pool.
func (p *ResourcePool) MeshCount() int { return len(p.meshes) }

// TextureCount returns the number of textures in the pool.
func (p *ResourcePool) TextureCount() int { return len(p.textures) }

// Clear removes all resources from the pool.
func (p *ResourcePool) Clear() {
	clear(p.materials)
	clear(p.meshes)
	clear(p.textures)
	p.materials = p.materials[:0]
	p.meshes = p.meshes[:0]
	p.textures = p.textures[:0]
	clear(p.materialIndex)
	clear(p.meshIndex)
	clear(p.textureIndex)
}

// MaterialName returns the name of a referenced material, or "-".
func (p *ResourcePool) MaterialName(ref MaterialRef) string {
	m := p.GetMaterial(ref)
	if m == nil {
		return "-"
	}
	return m.Name()
}

// TextureLabel returns a printable name of a referenced texture. InvalidRef
// is the camera target.
func (p *ResourcePool) TextureLabel(ref TextureRef) string {
	if !ref.IsValid() {
		return "camera"
	}
	return TextureLabel(p.GetTexture(ref))
}

// TextureLabel returns the label of textures that carry one, or the texture
// type otherwise.
func TextureLabel(t hal.Texture) string {
	if t == nil {
		return "camera"
	}
	if l, ok := t.(interface{ Label() string }); ok {
		return l.Label()
	}
	return fmt.Sprintf("%T", t)
}
