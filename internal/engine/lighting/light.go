// Package lighting packs scene lights for GPU upload.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the light arrays in the scene shader.
const MaxLights = 32

// Kind matches the light type constants in the scene shader.
type Kind int32

const (
	Directional Kind = 0
	Point       Kind = 1
	Spot        Kind = 2
)

// Light is one light in world space, ready for upload.
type Light struct {
	Kind      Kind
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // unit vector the light travels along
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3

	Range     float32
	Constant  float32
	Linear    float32
	Quadratic float32

	// Cosines of the half cone angles, for spot lights.
	CosInner float32
	CosOuter float32
}

// SpotCone converts full cone angles in radians to half-angle cosines.
// The outer cone never ends up narrower than the inner one.
func SpotCone(inner, outer float32) (cosInner, cosOuter float32) {
	outer = math32.Max(outer, inner)
	return math32.Cos(inner / 2), math32.Cos(outer / 2)
}
