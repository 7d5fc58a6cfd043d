package recording

import (
	"maps"
	"slices"

	"github.com/gogpu/projector"
	"github.com/gogpu/wgpu/hal"
)

// Material is a projector.Material that keeps its state in memory.
type Material struct {
	name     string
	tags     map[string]string
	keywords map[string]bool
	textures map[string]hal.Texture
}

var (
	_ projector.Material = (*Material)(nil)
	_ KeywordSource      = (*Material)(nil)
)

// NewMaterial creates a material without keywords or textures.
func NewMaterial(name string) *Material {
	return &Material{
		name:     name,
		tags:     make(map[string]string),
		keywords: make(map[string]bool),
		textures: make(map[string]hal.Texture),
	}
}

// Name implements projector.Material.
func (m *Material) Name() string { return m.name }

// EnableKeyword implements projector.Material.
func (m *Material) EnableKeyword(keyword string) { m.keywords[keyword] = true }

// DisableKeyword implements projector.Material.
func (m *Material) DisableKeyword(keyword string) { delete(m.keywords, keyword) }

// IsKeywordEnabled reports whether keyword is enabled.
func (m *Material) IsKeywordEnabled(keyword string) bool { return m.keywords[keyword] }

// EnabledKeywords returns the enabled keywords in sorted order.
func (m *Material) EnabledKeywords() []string {
	if len(m.keywords) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(m.keywords))
}

// SetTexture implements projector.Material.
func (m *Material) SetTexture(property string, tex hal.Texture) {
	if tex == nil {
		delete(m.textures, property)
		return
	}
	m.textures[property] = tex
}

// Texture returns the texture bound to property, or nil.
func (m *Material) Texture(property string) hal.Texture { return m.textures[property] }

// SetTag sets a shader tag.
func (m *Material) SetTag(key, value string) *Material {
	m.tags[key] = value
	return m
}

// Tag implements projector.Material.
func (m *Material) Tag(key string) string { return m.tags[key] }
