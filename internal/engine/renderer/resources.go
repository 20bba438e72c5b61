package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
)

type vertexBuffer struct {
	id     uint32
	layout gfx.VertexLayout
	count  int
}

func (b *vertexBuffer) Layout() gfx.VertexLayout { return b.layout }
func (b *vertexBuffer) Count() int               { return b.count }

type indexBuffer struct {
	id    uint32
	count int
}

func (b *indexBuffer) Width() gfx.IndexWidth { return gfx.Index16 }
func (b *indexBuffer) Count() int            { return b.count }

type vertexArray struct {
	id       uint32
	vb       *vertexBuffer
	ib       *indexBuffer
	topology gfx.Topology
}

func (a *vertexArray) Topology() gfx.Topology { return a.topology }

// elements returns the number of vertices a draw call consumes.
func (a *vertexArray) elements() int {
	if a.ib != nil {
		return a.ib.count
	}
	return a.vb.count
}

type mesh struct {
	name   string
	vao    *vertexArray
	bounds gfx.AABB
}

func (m *mesh) Name() string     { return m.name }
func (m *mesh) Bounds() gfx.AABB { return m.bounds }

type material struct {
	name      string
	baseColor mgl32.Vec3
}

func (m *material) Name() string              { return m.name }
func (m *material) SetBaseColor(c mgl32.Vec3) { m.baseColor = c }

// defaultMaterial is used by items that never had a material set.
var defaultMaterial = &material{name: "default", baseColor: mgl32.Vec3{1, 1, 1}}

type item struct {
	mesh     *mesh
	material *material
}

func (it *item) MeshName() string { return it.mesh.name }

func (it *item) SetMaterial(m gfx.Material) {
	if mat, ok := m.(*material); ok {
		it.material = mat
	}
}

type light struct {
	name        string
	kind        gfx.LightKind
	diffuse     mgl32.Vec3
	specular    mgl32.Vec3
	attenuation gfx.Attenuation
	inner       float32
	outer       float32
	power       float32
}

func (l *light) SetName(name string)               { l.name = name }
func (l *light) SetKind(k gfx.LightKind)           { l.kind = k }
func (l *light) SetDiffuse(c mgl32.Vec3)           { l.diffuse = c }
func (l *light) SetSpecular(c mgl32.Vec3)          { l.specular = c }
func (l *light) SetAttenuation(a gfx.Attenuation)  { l.attenuation = a }
func (l *light) SetSpotRange(inner, outer float32) { l.inner, l.outer = inner, outer }
func (l *light) SetPowerScale(s float32)           { l.power = s }
