// Package debug provides debug visualization and capture utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
)

// WireframeVertexCount is the number of line vertices per box (12 edges × 2).
const WireframeVertexCount = 24

// BoundsPadding keeps bounds lines off flat geometry so they do not z-fight.
const BoundsPadding = 0.01

// AppendWireframe appends the 12 edges of b, grown by padding on every side,
// as line-list positions [x, y, z] to dst.
func AppendWireframe(dst []float32, b gfx.AABB, padding float32) []float32 {
	if b.IsEmpty() {
		return dst
	}
	lo := b.Min.Sub(mgl32.Vec3{padding, padding, padding})
	hi := b.Max.Add(mgl32.Vec3{padding, padding, padding})
	minX, minY, minZ := lo[0], lo[1], lo[2]
	maxX, maxY, maxZ := hi[0], hi[1], hi[2]

	return append(dst,
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	)
}

// WorldBounds returns the wireframe of local bounds b placed by world.
func WorldBounds(dst []float32, b gfx.AABB, world mgl32.Mat4) []float32 {
	if b.IsEmpty() {
		return dst
	}
	return AppendWireframe(dst, b.Transform(world), BoundsPadding)
}
