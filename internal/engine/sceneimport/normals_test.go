package sceneimport

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestComputeNormals(t *testing.T) {
	// Counter-clockwise in the XZ plane seen from above faces +Y.
	positions := []mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {5, 5, 5}}
	got := ComputeNormals(positions, [][3]uint32{{0, 1, 2}})

	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, got[i].X(), 1e-6, "vertex %d", i)
		assert.InDelta(t, 1, got[i].Y(), 1e-6, "vertex %d", i)
		assert.InDelta(t, 0, got[i].Z(), 1e-6, "vertex %d", i)
	}
	assert.Equal(t, upVector, got[3], "unreferenced vertex keeps the up vector")
}

func TestComputeNormalsAreaWeighted(t *testing.T) {
	// Vertex 0 is shared by a large +Z face and a small +X face.
	positions := []mgl32.Vec3{
		{0, 0, 0}, {10, 0, 0}, {0, 10, 0},
		{0, 1, 0}, {0, 0, 1},
	}
	got := ComputeNormals(positions, [][3]uint32{{0, 1, 2}, {0, 3, 4}})
	assert.Greater(t, got[0].Z(), got[0].X())
	assert.InDelta(t, 1, got[0].Len(), 1e-5)
}

func TestComputeNormalsDegenerate(t *testing.T) {
	positions := []mgl32.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	got := ComputeNormals(positions, [][3]uint32{{0, 1, 2}})
	for _, n := range got {
		assert.Equal(t, upVector, n)
	}
}
