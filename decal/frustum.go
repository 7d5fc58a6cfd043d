// Package decal draws projectors: textures projected onto receivers inside a
// frustum volume.
//
// A Projector with a stencil pass material first marks its frustum volume in
// the stencil buffer and then draws the receivers with a stencil test, so the
// projection never bleeds onto geometry outside the volume and each pixel is
// drawn once. A ShadowProjector additionally takes part in shadow buffer
// collection and apply (see package shadow).
package decal

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/projector"
)

// ErrInvalidFrustum is returned by Frustum.Validate.
var ErrInvalidFrustum = errors.New("decal: invalid frustum")

// Frustum is the projection volume of a projector in its local space. The
// projector looks down +Z.
type Frustum struct {
	Orthographic bool

	// FieldOfView is the vertical angle in degrees of a perspective frustum.
	FieldOfView float32

	// OrthographicSize is half the height of an orthographic frustum.
	OrthographicSize float32

	AspectRatio float32
	Near        float32
	Far         float32
}

// DefaultFrustum returns a 30 degree perspective frustum reaching 100 units.
func DefaultFrustum() Frustum {
	return Frustum{
		FieldOfView:      30,
		OrthographicSize: 2,
		AspectRatio:      1,
		Near:             0.1,
		Far:              100,
	}
}

// Validate reports whether the frustum encloses a volume.
func (f Frustum) Validate() error {
	switch {
	case f.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio must be positive", ErrInvalidFrustum)
	case f.Far <= f.Near:
		return fmt.Errorf("%w: far plane must lie beyond near plane", ErrInvalidFrustum)
	case f.Orthographic && f.OrthographicSize <= 0:
		return fmt.Errorf("%w: orthographic size must be positive", ErrInvalidFrustum)
	case !f.Orthographic && f.Near <= 0:
		return fmt.Errorf("%w: near plane must be positive", ErrInvalidFrustum)
	case !f.Orthographic && (f.FieldOfView <= 0 || f.FieldOfView >= 180):
		return fmt.Errorf("%w: field of view must be in (0, 180)", ErrInvalidFrustum)
	}
	return nil
}

func (f Frustum) halfExtents(z float32) (w, h float32) {
	if f.Orthographic {
		h = f.OrthographicSize
	} else {
		h = z * float32(math.Tan(float64(mgl32.DegToRad(f.FieldOfView))/2))
	}
	return h * f.AspectRatio, h
}

// Corners returns the eight corners: the near plane followed by the far
// plane, each counter-clockwise from bottom left.
func (f Frustum) Corners() [8]mgl32.Vec3 {
	nw, nh := f.halfExtents(f.Near)
	fw, fh := f.halfExtents(f.Far)
	return [8]mgl32.Vec3{
		{-nw, -nh, f.Near}, {nw, -nh, f.Near}, {nw, nh, f.Near}, {-nw, nh, f.Near},
		{-fw, -fh, f.Far}, {fw, -fh, f.Far}, {fw, fh, f.Far}, {-fw, fh, f.Far},
	}
}

// frustumIndices are the twelve outward facing triangles of a box whose
// vertices are ordered like Corners.
var frustumIndices = []uint16{
	0, 2, 1, 0, 3, 2, // near
	4, 5, 6, 4, 6, 7, // far
	0, 1, 5, 0, 5, 4, // bottom
	3, 6, 2, 3, 7, 6, // top
	0, 4, 7, 0, 7, 3, // left
	1, 2, 6, 1, 6, 5, // right
}

// Mesh returns the frustum volume as a closed triangle mesh.
func (f Frustum) Mesh() *projector.Mesh {
	corners := f.Corners()
	return &projector.Mesh{
		Vertices: corners[:],
		Indices:  append([]uint16(nil), frustumIndices...),
	}
}

// Contains reports whether the local space point lies inside the frustum.
func (f Frustum) Contains(p mgl32.Vec3) bool {
	if p.Z() < f.Near || p.Z() > f.Far {
		return false
	}
	w, h := f.halfExtents(p.Z())
	return abs32(p.X()) <= w && abs32(p.Y()) <= h
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
