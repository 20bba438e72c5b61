package sceneimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fpsgame/internal/engine/asset"
	"github.com/Faultbox/fpsgame/internal/engine/gfx"
	"github.com/Faultbox/fpsgame/internal/engine/gfx/gfxtest"
)

func triangleScene() *asset.Scene {
	red := mgl32.Vec3{1, 0, 0}
	root := asset.NewNode("tri")
	root.Meshes = []int{0}
	return &asset.Scene{
		Root: root,
		Meshes: []*asset.Mesh{{
			Name:      "tri",
			Positions: []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 3, -1}},
			Faces:     [][3]uint32{{0, 1, 2}},
			Material:  0,
		}},
		Materials: []*asset.Material{{Name: "red", BaseColor: &red}},
		Lights: []*asset.Light{{
			Name:      "sun",
			Type:      asset.LightDirectional,
			Direction: mgl32.Vec3{0, -1, 0},
			Diffuse:   mgl32.Vec3{1, 1, 1},
			Specular:  mgl32.Vec3{1, 1, 1},
		}},
	}
}

func staticLoader(s *asset.Scene) Loader {
	return func(string) (*asset.Scene, error) { return s, nil }
}

func TestImportTriangleAndDirectionalLight(t *testing.T) {
	reg := gfxtest.NewRegistry()
	w := New(reg, WithLoader(staticLoader(triangleScene())))

	rep, err := w.Import("levels/tri.glb", reg.RootNode())
	require.NoError(t, err)

	// One mesh node plus one light node under the root.
	root := reg.Root()
	require.Len(t, root.Children, 2)
	meshNode := root.Children[0]
	require.Len(t, meshNode.Items, 1)
	assert.Empty(t, meshNode.Children)

	item := meshNode.Items[0]
	assert.Equal(t, "tri/mesh0", item.MeshName())
	vao := item.Mesh.VAO
	assert.Equal(t, 3, vao.VB.Count())
	assert.Equal(t, 3, vao.IB.Count())
	assert.Equal(t, []uint16{0, 1, 2}, vao.IB.Data)
	assert.Equal(t, gfx.AABB{Min: mgl32.Vec3{0, 0, -1}, Max: mgl32.Vec3{2, 3, 0}}, item.Mesh.Bounds())

	require.NotNil(t, item.Material)
	assert.Equal(t, "tri/mesh0/Material", item.Material.Name())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, item.Material.BaseColor)

	require.Len(t, reg.Lights, 1)
	l := reg.Lights[0]
	assert.Equal(t, gfx.LightDirectional, l.Kind)
	assert.Equal(t, "sun", l.Name)
	assert.False(t, l.SpotRangeSet)
	assert.Equal(t, float32(lightMaxRange), l.Attenuation.Range)
	require.NotNil(t, l.Node)
	assert.Same(t, root, l.Node.Parent)
	assert.Nil(t, l.Node.Position, "directional light must not get a position")
	require.NotNil(t, l.Node.Direction)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, *l.Node.Direction)

	assert.Equal(t, Report{Nodes: 1, Meshes: 1, Items: 1, Materials: 1, Lights: 1, Vertices: 3, Triangles: 1}, rep)
}

func TestImportLightFields(t *testing.T) {
	scene := &asset.Scene{
		Root: asset.NewNode("root"),
		Lights: []*asset.Light{
			{Name: "lamp", Type: asset.LightPoint, Position: mgl32.Vec3{1, 2, 3}, Direction: mgl32.Vec3{0, 0, -1}},
			{Name: "torch", Type: asset.LightSpot, Position: mgl32.Vec3{4, 5, 6}, Direction: mgl32.Vec3{1, 0, 0}, InnerCone: 0.3, OuterCone: 0.6},
			{Name: "area", Type: asset.LightUnsupported},
		},
	}
	reg := gfxtest.NewRegistry()
	rep, err := New(reg).ImportScene(scene, "lights", reg.RootNode())
	require.NoError(t, err)

	require.Len(t, reg.Lights, 2)
	point, spot := reg.Lights[0], reg.Lights[1]

	assert.Equal(t, gfx.LightPoint, point.Kind)
	require.NotNil(t, point.Node.Position)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, *point.Node.Position)
	assert.Nil(t, point.Node.Direction, "point light must not get a direction")
	assert.InDelta(t, pointLightPowerScale, point.PowerScale, 1e-9)

	assert.Equal(t, gfx.LightSpot, spot.Kind)
	require.NotNil(t, spot.Node.Position)
	require.NotNil(t, spot.Node.Direction)
	assert.True(t, spot.SpotRangeSet)
	assert.Equal(t, float32(0.3), spot.SpotInner)
	assert.Equal(t, float32(0.6), spot.SpotOuter)

	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, Skipped{Kind: "light", Name: "area", Reason: "unsupported light type unsupported"}, rep.Skipped[0])
}

func TestLightsAreFlattened(t *testing.T) {
	// Lights attach to root-level nodes no matter how deep the import parent is.
	reg := gfxtest.NewRegistry()
	deep := reg.RootNode().CreateChild().CreateChild()

	_, err := New(reg, WithLoader(staticLoader(triangleScene()))).Import("tri.glb", deep)
	require.NoError(t, err)

	require.Len(t, reg.Lights, 1)
	assert.Same(t, reg.Root(), reg.Lights[0].Node.Parent)
}

// chain builds a depth-d tree where every level has fan children.
func chain(depth, fan int) *asset.Node {
	n := asset.NewNode(fmt.Sprintf("d%d", depth))
	if depth > 1 {
		for i := 0; i < fan; i++ {
			n.Children = append(n.Children, chain(depth-1, fan))
		}
	}
	return n
}

func TestImportMirrorsTree(t *testing.T) {
	tests := []struct{ depth, fan int }{{1, 1}, {3, 1}, {3, 2}, {5, 3}}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("depth%d_fan%d", tt.depth, tt.fan), func(t *testing.T) {
			scene := &asset.Scene{Root: chain(tt.depth, tt.fan)}
			reg := gfxtest.NewRegistry()
			rep, err := New(reg).ImportScene(scene, "tree", reg.RootNode())
			require.NoError(t, err)

			require.Len(t, reg.Root().Children, 1)
			top := reg.Root().Children[0]
			assert.Equal(t, tt.depth, top.Depth())
			assert.Equal(t, scene.Root.Count(), top.Count())
			assert.Equal(t, scene.Root.Count(), rep.Nodes)
			assertSameShape(t, scene.Root, top)
		})
	}
}

func assertSameShape(t *testing.T, a *asset.Node, n *gfxtest.Node) {
	t.Helper()
	require.Len(t, n.Children, len(a.Children))
	for i := range a.Children {
		assertSameShape(t, a.Children[i], n.Children[i])
	}
}

func TestImportAppliesTransform(t *testing.T) {
	root := asset.NewNode("moved")
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	root.Transform = asset.Compose(mgl32.Vec3{5, 0, -2}, rot, mgl32.Vec3{2, 2, 2})

	reg := gfxtest.NewRegistry()
	_, err := New(reg).ImportScene(&asset.Scene{Root: root}, "t", reg.RootNode())
	require.NoError(t, err)

	n := reg.Root().Children[0]
	require.NotNil(t, n.Position)
	assert.InDelta(t, 5, n.Position.X(), 1e-5)
	assert.InDelta(t, 0, n.Position.Y(), 1e-5)
	assert.InDelta(t, -2, n.Position.Z(), 1e-5)
	assert.True(t, n.Scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-5))
	assert.True(t, n.Orientation.OrientationEqualThreshold(rot, 1e-5))
}

func TestImportZeroFaceMesh(t *testing.T) {
	tests := []struct {
		name      string
		positions []mgl32.Vec3
		want      gfx.AABB
	}{
		{"no vertices", nil, gfx.AABB{}},
		{"single point", []mgl32.Vec3{{1, 2, 3}}, gfx.AABB{Min: mgl32.Vec3{1, 2, 3}, Max: mgl32.Vec3{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := asset.NewNode("root")
			root.Meshes = []int{0}
			scene := &asset.Scene{
				Root:   root,
				Meshes: []*asset.Mesh{{Positions: tt.positions, Material: -1}},
			}
			reg := gfxtest.NewRegistry()
			_, err := New(reg).ImportScene(scene, "empty", reg.RootNode())
			require.NoError(t, err)

			m := reg.Meshes["empty/mesh0"]
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.Bounds())
			assert.Equal(t, 0, m.VAO.IB.Count())
			assert.Empty(t, m.VAO.IB.Data)
		})
	}
}

func TestImportSharedMeshRegisteredOnce(t *testing.T) {
	scene := triangleScene()
	child := asset.NewNode("copy")
	child.Meshes = []int{0}
	scene.Root.Children = []*asset.Node{child}

	reg := gfxtest.NewRegistry()
	rep, err := New(reg).ImportScene(scene, "s", reg.RootNode())
	require.NoError(t, err)

	assert.Len(t, reg.Meshes, 1)
	assert.Len(t, reg.Materials, 1)
	assert.Len(t, reg.Items, 2)
	assert.Same(t, reg.Items[0].Mesh, reg.Items[1].Mesh)
	assert.Equal(t, 2, rep.Items)
}

func TestImportSkipsBadMeshes(t *testing.T) {
	big := make([]mgl32.Vec3, gfx.MaxIndexedVertices+1)
	root := asset.NewNode("root")
	root.Meshes = []int{0, 1, 2, 3}
	scene := &asset.Scene{
		Root: root,
		Meshes: []*asset.Mesh{
			{Name: "huge", Positions: big, Material: -1},
			{Name: "lines", Problem: "unsupported primitive mode 1", Material: -1},
			{Name: "broken", Positions: []mgl32.Vec3{{}}, Faces: [][3]uint32{{0, 1, 2}}, Material: -1},
			{Name: "ok", Positions: []mgl32.Vec3{{}, {1, 0, 0}, {0, 1, 0}}, Faces: [][3]uint32{{0, 1, 2}}, Material: -1},
		},
	}

	reg := gfxtest.NewRegistry()
	rep, err := New(reg).ImportScene(scene, "bad", reg.RootNode())
	require.NoError(t, err)

	assert.Len(t, reg.Meshes, 1)
	assert.Contains(t, reg.Meshes, "bad/mesh3")
	assert.Equal(t, 1, rep.Items)

	var meshSkips, materialSkips int
	for _, s := range rep.Skipped {
		switch s.Kind {
		case "mesh":
			meshSkips++
		case "material":
			materialSkips++
		}
	}
	assert.Equal(t, 3, meshSkips)
	assert.Equal(t, 1, materialSkips, "the surviving mesh has no material")
	assert.Contains(t, rep.Skipped[0].Reason, ErrTooManyVertices.Error())
}

func TestImportMaterialFallbacks(t *testing.T) {
	diffuse := mgl32.Vec3{0, 0, 1}
	base := mgl32.Vec3{0, 1, 0}
	tests := []struct {
		name string
		mat  *asset.Material
		want mgl32.Vec3
	}{
		{"base colour wins", &asset.Material{BaseColor: &base, Diffuse: &diffuse}, base},
		{"diffuse fallback", &asset.Material{Diffuse: &diffuse}, diffuse},
		{"white default", &asset.Material{}, mgl32.Vec3{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := triangleScene()
			scene.Materials = []*asset.Material{tt.mat}
			reg := gfxtest.NewRegistry()
			_, err := New(reg).ImportScene(scene, "m", reg.RootNode())
			require.NoError(t, err)
			assert.Equal(t, tt.want, reg.Materials["m/mesh0/Material"].BaseColor)
		})
	}
}

func TestImportDuplicateFails(t *testing.T) {
	reg := gfxtest.NewRegistry()
	w := New(reg, WithLoader(staticLoader(triangleScene())))

	_, err := w.Import("tri.glb", reg.RootNode())
	require.NoError(t, err)

	uploads := len(reg.VertexBuffers) + len(reg.IndexBuffers) + len(reg.VertexArrays)

	rep, err := w.Import("tri.glb", reg.RootNode())
	require.NoError(t, err, "per-mesh failures are not fatal")
	require.NotEmpty(t, rep.Skipped)
	assert.Contains(t, rep.Skipped[0].Reason, gfx.ErrDuplicateName.Error())
	assert.Len(t, reg.Meshes, 1)
	assert.Equal(t, uploads, len(reg.VertexBuffers)+len(reg.IndexBuffers)+len(reg.VertexArrays),
		"a rejected mesh name uploads no buffers")
}

func TestImportParseFailureLeavesSceneUntouched(t *testing.T) {
	reg := gfxtest.NewRegistry()
	parseErr := errors.New("unexpected EOF")
	w := New(reg, WithLoader(func(string) (*asset.Scene, error) { return nil, parseErr }))

	_, err := w.Import("broken.glb", reg.RootNode())
	assert.ErrorIs(t, err, ErrImport)
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.Empty(t, reg.Calls)
	assert.Empty(t, reg.Root().Children)
}

func TestImportPreOrder(t *testing.T) {
	scene := triangleScene()
	child := asset.NewNode("child")
	scene.Root.Children = []*asset.Node{child}
	scene.Lights = nil

	reg := gfxtest.NewRegistry()
	_, err := New(reg).ImportScene(scene, "p", reg.RootNode())
	require.NoError(t, err)

	// Parent node, its mesh resources and item, then the child node.
	assert.Equal(t, []string{
		"node",
		"vertexbuffer 3",
		"indexbuffer 3",
		"vertexarray",
		"mesh p/mesh0",
		"material p/mesh0/Material",
		"item p/mesh0",
		"node",
	}, reg.Calls)
}

func TestImportGLTFFile(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
	}}}}
	doc.Nodes = []*gltf.Node{{Name: "ground", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "ground.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	reg := gfxtest.NewRegistry()
	rep, err := New(reg).Import(path, reg.RootNode())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Items)

	// No source normals: the flat face normal is computed.
	vb := reg.Meshes["ground/mesh0"].VAO.VB
	assert.Equal(t, []float32{0, 1, 0}, vb.Data[3:6])
}

func TestImportMissingFile(t *testing.T) {
	reg := gfxtest.NewRegistry()
	_, err := New(reg).Import(filepath.Join(t.TempDir(), "missing.glb"), reg.RootNode())
	assert.ErrorIs(t, err, ErrImport)
	assert.Empty(t, reg.Root().Children)
}
