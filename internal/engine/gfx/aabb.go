package gfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Extend grows the box to contain p.
func (b *AABB) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// IsEmpty reports whether the box was never extended.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0]
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfSize returns half the box extent on each axis.
func (b AABB) HalfSize() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// BoundsOf folds min/max over points. With no points the result is the
// degenerate box at the origin.
func BoundsOf(points []mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := EmptyAABB()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Transform returns the box enclosing the eight corners of b under m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}
