package sceneimport

import "github.com/go-gl/mathgl/mgl32"

var upVector = mgl32.Vec3{0, 1, 0}

// ComputeNormals returns area-weighted vertex normals. Vertices on no face,
// or only on degenerate faces, get the up vector.
func ComputeNormals(positions []mgl32.Vec3, faces [][3]uint32) []mgl32.Vec3 {
	acc := make([]mgl32.Vec3, len(positions))
	for _, f := range faces {
		a, b, c := positions[f[0]], positions[f[1]], positions[f[2]]
		// Cross product length is twice the triangle area.
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range f {
			acc[idx] = acc[idx].Add(n)
		}
	}
	for i, n := range acc {
		if n.Len() < 1e-12 {
			acc[i] = upVector
			continue
		}
		acc[i] = n.Normalize()
	}
	return acc
}
