package asset

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/qmuntal/gltf/ext/specular"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleDoc builds a document with one node holding a one-triangle mesh
// and a directional light on a child node.
func triangleDoc(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, -1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "floor", Mesh: gltf.Index(0), Translation: [3]float64{1, 2, 3}, Children: []int{1}},
		{
			Name:        "sun",
			Translation: [3]float64{0, 10, 0},
			Extensions: gltf.Extensions{
				lightspunctual.ExtensionName: json.RawMessage(`{"light":0}`),
			},
		},
	}
	doc.Scenes[0].Nodes = []int{0}
	doc.Extensions = gltf.Extensions{
		lightspunctual.ExtensionName: json.RawMessage(`{"lights":[{"name":"sun","type":"directional","color":[1,0.5,0.5],"intensity":2}]}`),
	}
	return doc
}

func TestFromDocument(t *testing.T) {
	s, err := FromDocument(triangleDoc(t))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	// A single scene root becomes the scene root itself.
	assert.Equal(t, "floor", s.Root.Name)
	assert.Equal(t, 2, s.Root.Count())
	assert.Equal(t, []int{0}, s.Root.Meshes)

	_, _, trans := Decompose(s.Root.Transform)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, trans)

	require.Len(t, s.Meshes, 1)
	m := s.Meshes[0]
	assert.Empty(t, m.Problem)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 2, -1}}, m.Positions)
	assert.Nil(t, m.Normals)
	assert.Equal(t, [][3]uint32{{0, 1, 2}}, m.Faces)
	assert.Equal(t, 0, m.Material)

	require.Len(t, s.Materials, 1)
	require.NotNil(t, s.Materials[0].BaseColor)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, *s.Materials[0].BaseColor)
	assert.Nil(t, s.Materials[0].Diffuse)

	require.Len(t, s.Lights, 1)
	l := s.Lights[0]
	assert.Equal(t, LightDirectional, l.Type)
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, l.Diffuse)
	assert.Equal(t, l.Diffuse, l.Specular)
	// Light position is in world space: floor (1,2,3) + sun (0,10,0).
	assert.InDelta(t, 1, l.Position.X(), 1e-5)
	assert.InDelta(t, 12, l.Position.Y(), 1e-5)
	assert.InDelta(t, 3, l.Position.Z(), 1e-5)
	assert.InDelta(t, 0, l.Direction.X(), 1e-5)
	assert.InDelta(t, 0, l.Direction.Y(), 1e-5)
	assert.InDelta(t, -1, l.Direction.Z(), 1e-5)
	assert.Equal(t, float32(1), l.AttenuationQuadratic)
}

func TestFromDocumentMultipleRoots(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "a"}, {Name: "b"}}
	doc.Scenes[0].Nodes = []int{0, 1}

	s, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "root", s.Root.Name)
	require.Len(t, s.Root.Children, 2)
	assert.Equal(t, "a", s.Root.Children[0].Name)
	assert.Equal(t, "b", s.Root.Children[1].Name)
}

func TestFromDocumentCycle(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "a", Children: []int{1}}, {Name: "b", Children: []int{0}}}
	doc.Scenes[0].Nodes = []int{0}

	_, err := FromDocument(doc)
	assert.Error(t, err)
}

func TestConvertPrimitiveProblems(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}})

	lines := convertPrimitive(doc, "lines", &gltf.Primitive{
		Mode:       gltf.PrimitiveLines,
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
	})
	assert.Contains(t, lines.Problem, "primitive mode")

	noPos := convertPrimitive(doc, "empty", &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{}})
	assert.Equal(t, "no POSITION attribute", noPos.Problem)
	assert.Equal(t, -1, noPos.Material)
}

func TestConvertPrimitiveNonIndexed(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {2, 1, 0}, {2, 2, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})

	m := convertPrimitive(doc, "quad", &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos, gltf.NORMAL: nrm},
	})
	assert.Empty(t, m.Problem)
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {3, 4, 5}}, m.Faces)
	assert.Len(t, m.Normals, 6)
}

func TestConvertMaterialDiffuseFallback(t *testing.T) {
	m := convertMaterial(3, &gltf.Material{
		Extensions: gltf.Extensions{
			specular.ExtensionName: json.RawMessage(`{"diffuseFactor":[0.2,0.4,0.6,1]}`),
		},
	})
	assert.Equal(t, "material3", m.Name)
	assert.Nil(t, m.BaseColor)
	require.NotNil(t, m.Diffuse)
	assert.InDelta(t, 0.2, m.Diffuse.X(), 1e-6)
	assert.InDelta(t, 0.4, m.Diffuse.Y(), 1e-6)
	assert.InDelta(t, 0.6, m.Diffuse.Z(), 1e-6)

	decoded := convertMaterial(0, &gltf.Material{
		Extensions: gltf.Extensions{
			specular.ExtensionName: &specular.PBRSpecularGlossiness{DiffuseFactor: &[4]float64{1, 0.5, 0, 1}},
		},
	})
	require.NotNil(t, decoded.Diffuse)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0}, *decoded.Diffuse)
}

func TestSpotLightConeAngles(t *testing.T) {
	outer := 0.5
	l := convertLight(&lightspunctual.Light{
		Type: "spot",
		Spot: &lightspunctual.Spot{InnerConeAngle: 0.25, OuterConeAngle: &outer},
	}, mgl32.Ident4())
	assert.Equal(t, LightSpot, l.Type)
	assert.InDelta(t, 0.5, l.InnerCone, 1e-6)
	assert.InDelta(t, 1.0, l.OuterCone, 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Diffuse, "color and intensity default to white and 1")

	// No spot block: the glTF default outer angle of pi/4.
	bare := convertLight(&lightspunctual.Light{Type: "spot"}, mgl32.Ident4())
	assert.InDelta(t, math.Pi/2, bare.OuterCone, 1e-6)
	assert.Zero(t, bare.InnerCone)

	unknown := convertLight(&lightspunctual.Light{Type: "area"}, mgl32.Ident4())
	assert.Equal(t, LightUnsupported, unknown.Type)
}

func TestFromDocumentDecodedLights(t *testing.T) {
	inf := math.Inf(1)
	doc := triangleDoc(t)
	doc.Nodes[1].Extensions[lightspunctual.ExtensionName] = lightspunctual.LightIndex(0)
	doc.Extensions[lightspunctual.ExtensionName] = lightspunctual.Lights{
		{Name: "sun", Type: "directional", Color: &[3]float64{1, 0.5, 0.5}, Intensity: gltf.Float(2), Range: &inf},
	}

	s, err := FromDocument(doc)
	require.NoError(t, err)
	require.Len(t, s.Lights, 1)
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, s.Lights[0].Diffuse)
}

// sunlitGLTF is a hand-written file with one directional light and no
// range, the way exporters write it.
const sunlitGLTF = `{
  "asset": {"version": "2.0"},
  "extensionsUsed": ["KHR_lights_punctual"],
  "extensions": {
    "KHR_lights_punctual": {
      "lights": [{"name": "sun", "type": "directional", "intensity": 3}]
    }
  },
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "sun", "rotation": [-0.7071068, 0, 0, 0.7071068], "extensions": {"KHR_lights_punctual": {"light": 0}}}
  ]
}`

func TestLoadGLTFLightWithoutRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunlit.gltf")
	require.NoError(t, os.WriteFile(path, []byte(sunlitGLTF), 0o644))

	s, err := LoadGLTF(path)
	require.NoError(t, err)
	require.Len(t, s.Lights, 1)
	l := s.Lights[0]
	assert.Equal(t, "sun", l.Name)
	assert.Equal(t, LightDirectional, l.Type)
	assert.Equal(t, mgl32.Vec3{3, 3, 3}, l.Diffuse)
	// -90 degrees about X turns -Z into -Y.
	assert.InDelta(t, 0, l.Direction.X(), 1e-5)
	assert.InDelta(t, -1, l.Direction.Y(), 1e-5)
	assert.InDelta(t, 0, l.Direction.Z(), 1e-5)
}

func TestLoadGLTF(t *testing.T) {
	dir := t.TempDir()
	glb := filepath.Join(dir, "scene.glb")
	require.NoError(t, gltf.SaveBinary(triangleDoc(t), glb))
	text := filepath.Join(dir, "scene.gltf")
	doc := triangleDoc(t)
	doc.Buffers[0].EmbeddedResource()
	require.NoError(t, gltf.Save(doc, text))

	for _, path := range []string{glb, text} {
		s, err := LoadGLTF(path)
		require.NoError(t, err, path)
		require.Len(t, s.Meshes, 1)
		assert.Len(t, s.Meshes[0].Faces, 1)
		require.Len(t, s.Lights, 1)
		assert.Equal(t, LightDirectional, s.Lights[0].Type)
		assert.Equal(t, "sun", s.Lights[0].Name)
		assert.Equal(t, mgl32.Vec3{2, 1, 1}, s.Lights[0].Diffuse)
	}
}

func TestLoadGLTFMissing(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "nope.glb"))
	assert.Error(t, err)
}

func TestDecomposeRoundTrip(t *testing.T) {
	trans := mgl32.Vec3{4, -2, 7}
	rot := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	scale := mgl32.Vec3{2, 3, 0.5}

	s, r, tr := Decompose(Compose(trans, rot, scale))
	assert.True(t, tr.ApproxEqualThreshold(trans, 1e-5), "translation %v", tr)
	assert.True(t, s.ApproxEqualThreshold(scale, 1e-5), "scale %v", s)
	assert.True(t, r.OrientationEqualThreshold(rot, 1e-5), "rotation %v", r)
}

func TestValidate(t *testing.T) {
	root := NewNode("root")
	root.Meshes = []int{2}
	s := &Scene{Root: root}
	assert.Error(t, s.Validate())

	shared := NewNode("shared")
	s = &Scene{Root: &Node{Name: "r", Transform: mgl32.Ident4(), Children: []*Node{shared, shared}}}
	assert.Error(t, s.Validate())

	assert.Error(t, (&Scene{}).Validate())

	s = &Scene{Root: &Node{Name: "r", Transform: mgl32.Ident4(), Children: []*Node{NewNode("a"), nil}}}
	assert.ErrorContains(t, s.Validate(), "nil child 1")

	s = &Scene{Root: NewNode("r"), Meshes: []*Mesh{{Name: "m"}, nil}}
	assert.ErrorContains(t, s.Validate(), "mesh 1 is nil")

	s = &Scene{Root: NewNode("r"), Meshes: []*Mesh{{Name: "m"}}}
	assert.NoError(t, s.Validate())
}
