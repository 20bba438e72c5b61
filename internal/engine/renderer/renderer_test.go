package renderer

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fpsgame/internal/config"
	"github.com/Faultbox/fpsgame/internal/engine/asset"
	"github.com/Faultbox/fpsgame/internal/engine/debug"
	"github.com/Faultbox/fpsgame/internal/engine/gfx"
	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/lighting"
	"github.com/Faultbox/fpsgame/internal/engine/sceneimport"
)

type fakeDevice struct {
	next     uint32
	released bool
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) vertexBuffer([]float32) uint32                  { return d.id() }
func (d *fakeDevice) indexBuffer([]uint16) uint32                    { return d.id() }
func (d *fakeDevice) vertexArray(*vertexBuffer, *indexBuffer) uint32 { return d.id() }
func (d *fakeDevice) release()                                       { d.released = true }

type nopBinder struct{}

func (nopBinder) MakeCurrent(glctx.ID) error { return nil }

func newTestRenderer() *Renderer {
	return newRenderer(Config{Width: 800, Height: 600, Settings: config.DefaultRenderSettings()}, &fakeDevice{})
}

func triangleMesh(t *testing.T, r *Renderer, name string) gfx.Mesh {
	t.Helper()
	vb, err := r.CreateVertexBuffer(gfx.LayoutPositionNormal, 3, []float32{
		0, 0, 0, 0, 0, 1,
		1, 0, 0, 0, 0, 1,
		0, 1, 0, 0, 0, 1,
	})
	require.NoError(t, err)
	ib, err := r.CreateIndexBuffer(gfx.Index16, 3, []uint16{0, 1, 2})
	require.NoError(t, err)
	vao, err := r.CreateVertexArray(vb, ib, gfx.TriangleList)
	require.NoError(t, err)
	m, err := r.CreateMesh(name, vao, gfx.AABB{Max: mgl32.Vec3{1, 1, 0}})
	require.NoError(t, err)
	return m
}

func TestRegistryNames(t *testing.T) {
	r := newTestRenderer()
	assert.False(t, r.HasMesh("tri"))
	triangleMesh(t, r, "tri")
	assert.True(t, r.HasMesh("tri"))

	vb, err := r.CreateVertexBuffer(gfx.LayoutPositionNormal, 0, nil)
	require.NoError(t, err)
	vao, err := r.CreateVertexArray(vb, nil, gfx.TriangleList)
	require.NoError(t, err)
	_, err = r.CreateMesh("tri", vao, gfx.AABB{})
	assert.ErrorIs(t, err, gfx.ErrDuplicateName)

	_, err = r.CreateMaterial("tri/Material")
	require.NoError(t, err)
	_, err = r.CreateMaterial("tri/Material")
	assert.ErrorIs(t, err, gfx.ErrDuplicateName)

	_, err = r.CreateItem("missing")
	assert.ErrorIs(t, err, gfx.ErrUnknownMesh)

	it, err := r.CreateItem("tri")
	require.NoError(t, err)
	assert.Equal(t, "tri", it.MeshName())
}

func TestRegistryRejectsBadBuffers(t *testing.T) {
	r := newTestRenderer()
	_, err := r.CreateVertexBuffer(gfx.LayoutPositionNormal, 2, make([]float32, 6))
	assert.ErrorIs(t, err, gfx.ErrBufferSize)
	_, err = r.CreateIndexBuffer(gfx.Index16, 4, make([]uint16, 3))
	assert.ErrorIs(t, err, gfx.ErrBufferSize)
}

func TestPrepareWorldTransformsAndMetrics(t *testing.T) {
	r := newTestRenderer()
	assert.False(t, r.HasMesh("tri"))
	triangleMesh(t, r, "tri")
	assert.True(t, r.HasMesh("tri"))

	parent := r.RootNode().CreateChild()
	parent.SetPosition(mgl32.Vec3{10, 0, 0})
	child := parent.CreateChild()
	child.SetScale(mgl32.Vec3{2, 2, 2})
	for _, n := range []gfx.Node{parent, child} {
		it, err := r.CreateItem("tri")
		require.NoError(t, err)
		n.AttachItem(it)
	}

	r.prepare()
	require.Len(t, r.frame.draws, 2)

	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, r.frame.draws[1].world)
	assert.InDelta(t, 12, p[0], 1e-5)

	m := r.Metrics()
	assert.Equal(t, 2, m.Faces)
	assert.Equal(t, 6, m.Vertices)
	assert.Equal(t, 2, m.DrawCalls)
	assert.Empty(t, r.lineVerts)

	r.SetShowBounds(true)
	r.prepare()
	assert.Len(t, r.lineVerts, 2*debug.WireframeVertexCount*3)
}

func TestPrepareLights(t *testing.T) {
	r := newTestRenderer()

	sun, err := r.CreateLight()
	require.NoError(t, err)
	sun.SetKind(gfx.LightDirectional)
	sun.SetDiffuse(mgl32.Vec3{1, 1, 1})
	sunNode := r.RootNode().CreateChild()
	sunNode.SetDirection(mgl32.Vec3{0, -1, 0})
	sunNode.AttachLight(sun)

	lamp, err := r.CreateLight()
	require.NoError(t, err)
	lamp.SetKind(gfx.LightSpot)
	lamp.SetDiffuse(mgl32.Vec3{1000, 1000, 1000})
	lamp.SetPowerScale(0.002)
	lamp.SetSpotRange(mgl32.DegToRad(20), mgl32.DegToRad(40))
	lamp.SetAttenuation(gfx.Attenuation{Range: 100, Constant: 1})
	lampNode := r.RootNode().CreateChild()
	lampNode.SetPosition(mgl32.Vec3{0, 4, 0})
	lampNode.AttachLight(lamp)

	r.prepare()
	require.Equal(t, 2, r.frame.lights.Count())

	l0 := r.frame.lights.Lights[0]
	assert.Equal(t, lighting.Directional, l0.Kind)
	assert.InDelta(t, -1, l0.Direction[1], 1e-5)

	l1 := r.frame.lights.Lights[1]
	assert.Equal(t, lighting.Spot, l1.Kind)
	assert.Equal(t, mgl32.Vec3{0, 4, 0}, l1.Position)
	assert.InDelta(t, 2, l1.Diffuse[0], 1e-4)
	assert.Equal(t, float32(100), l1.Range)
	assert.Greater(t, l1.CosInner, l1.CosOuter)
}

func TestPrepareDropsLightsPastLimit(t *testing.T) {
	cfg := Config{Settings: config.DefaultRenderSettings()}
	cfg.Settings.MaxLights = 1
	r := newRenderer(cfg, &fakeDevice{})
	for i := 0; i < 3; i++ {
		l, _ := r.CreateLight()
		r.RootNode().CreateChild().AttachLight(l)
	}

	r.prepare()
	assert.Equal(t, 1, r.frame.lights.Count())
	assert.Equal(t, 2, r.frame.dropped)
}

func TestImportedSceneRenders(t *testing.T) {
	r := newTestRenderer()
	root := asset.NewNode("room")
	root.Meshes = []int{0}
	scene := &asset.Scene{
		Root: root,
		Meshes: []*asset.Mesh{{
			Name:      "floor",
			Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
			Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
			Material:  -1,
		}},
		Lights: []*asset.Light{{Name: "sun", Type: asset.LightDirectional, Direction: mgl32.Vec3{0, -1, 0}}},
	}

	rep, err := sceneimport.New(r).ImportScene(scene, "room", r.RootNode())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Items)

	r.prepare()
	assert.Equal(t, 2, r.Metrics().Faces)
	assert.Equal(t, 4, r.Metrics().Vertices)
	assert.Equal(t, 1, r.frame.lights.Count())

	// A second import under the same name collides and registers nothing.
	rep, err = sceneimport.New(r).ImportScene(scene, "room", r.RootNode())
	require.NoError(t, err)
	assert.Zero(t, rep.Items)
	require.NotEmpty(t, rep.Skipped)
	assert.Contains(t, rep.Skipped[0].Reason, "duplicate")
}

func TestRenderOneFrameRequiresSceneContext(t *testing.T) {
	r := newTestRenderer()

	err := r.RenderOneFrame(glctx.Token{})
	assert.ErrorIs(t, err, ErrFrameFailed)
	assert.ErrorIs(t, err, glctx.ErrWrongContext)

	sw := glctx.NewSwitcher(nopBinder{})
	ui, err := sw.Acquire(glctx.UI)
	require.NoError(t, err)
	err = r.RenderOneFrame(ui)
	assert.ErrorIs(t, err, glctx.ErrWrongContext)

	scene, err := sw.Acquire(glctx.Scene)
	require.NoError(t, err)
	err = r.RenderOneFrame(scene)
	assert.ErrorIs(t, err, ErrFrameFailed, "no camera set")
}

func TestFrameStatsTick(t *testing.T) {
	r := newTestRenderer()
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	r.tick()
	for i := 0; i < 4; i++ {
		clock = clock.Add(10 * time.Millisecond)
		r.tick()
	}

	snap := r.FrameStats()
	assert.Equal(t, uint64(4), snap.Frames)
	assert.InDelta(t, 10, snap.AvgMs, 1e-9)
	assert.InDelta(t, 100, snap.FPS, 1e-6)

	r.ResetFrameStats()
	assert.Zero(t, r.FrameStats().Frames)
}

func TestResize(t *testing.T) {
	r := newTestRenderer()
	r.Resize(1920, 1080)
	w, h := r.Size()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}
