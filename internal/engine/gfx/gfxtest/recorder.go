// Package gfxtest provides a recording gfx.Registry for tests that run
// without a graphics context.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
)

// Registry records every resource created through it.
type Registry struct {
	Calls []string

	VertexBuffers []*VertexBuffer
	IndexBuffers  []*IndexBuffer
	VertexArrays  []*VertexArray
	Meshes        map[string]*Mesh
	Materials     map[string]*Material
	Items         []*Item
	Lights        []*Light

	// FailMesh makes CreateMesh fail for the named mesh.
	FailMesh map[string]error

	root  *Node
	names gfx.NameSet
}

// NewRegistry returns an empty recording registry.
func NewRegistry() *Registry {
	r := &Registry{
		Meshes:    make(map[string]*Mesh),
		Materials: make(map[string]*Material),
	}
	r.root = &Node{reg: r, Scale: mgl32.Vec3{1, 1, 1}, Orientation: mgl32.QuatIdent()}
	return r
}

func (r *Registry) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// Root returns the root node with its concrete type.
func (r *Registry) Root() *Node { return r.root }

func (r *Registry) RootNode() gfx.Node { return r.root }

func (r *Registry) CreateVertexBuffer(layout gfx.VertexLayout, count int, data []float32) (gfx.VertexBuffer, error) {
	if err := gfx.CheckVertexData(layout, count, data); err != nil {
		return nil, err
	}
	vb := &VertexBuffer{layout: layout, count: count, Data: append([]float32(nil), data...)}
	r.VertexBuffers = append(r.VertexBuffers, vb)
	r.record("vertexbuffer %d", count)
	return vb, nil
}

func (r *Registry) CreateIndexBuffer(width gfx.IndexWidth, count int, data []uint16) (gfx.IndexBuffer, error) {
	if err := gfx.CheckIndexData(width, count, data); err != nil {
		return nil, err
	}
	ib := &IndexBuffer{width: width, count: count, Data: append([]uint16(nil), data...)}
	r.IndexBuffers = append(r.IndexBuffers, ib)
	r.record("indexbuffer %d", count)
	return ib, nil
}

func (r *Registry) CreateVertexArray(vb gfx.VertexBuffer, ib gfx.IndexBuffer, topology gfx.Topology) (gfx.VertexArray, error) {
	vao := &VertexArray{VB: vb.(*VertexBuffer), topology: topology}
	if ib != nil {
		vao.IB = ib.(*IndexBuffer)
	}
	r.VertexArrays = append(r.VertexArrays, vao)
	r.record("vertexarray")
	return vao, nil
}

func (r *Registry) CreateMesh(name string, vao gfx.VertexArray, bounds gfx.AABB) (gfx.Mesh, error) {
	if err, ok := r.FailMesh[name]; ok {
		return nil, err
	}
	if err := r.names.Claim("mesh", name); err != nil {
		return nil, err
	}
	m := &Mesh{name: name, bounds: bounds, VAO: vao.(*VertexArray)}
	r.Meshes[name] = m
	r.record("mesh %s", name)
	return m, nil
}

func (r *Registry) HasMesh(name string) bool {
	return r.names.Has("mesh", name)
}

func (r *Registry) CreateItem(meshName string) (gfx.Item, error) {
	m, ok := r.Meshes[meshName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", gfx.ErrUnknownMesh, meshName)
	}
	it := &Item{Mesh: m}
	r.Items = append(r.Items, it)
	r.record("item %s", meshName)
	return it, nil
}

func (r *Registry) CreateMaterial(name string) (gfx.Material, error) {
	if err := r.names.Claim("material", name); err != nil {
		return nil, err
	}
	m := &Material{name: name}
	r.Materials[name] = m
	r.record("material %s", name)
	return m, nil
}

func (r *Registry) CreateLight() (gfx.Light, error) {
	l := &Light{PowerScale: 1}
	r.Lights = append(r.Lights, l)
	r.record("light")
	return l, nil
}

// VertexBuffer is a recorded vertex upload.
type VertexBuffer struct {
	layout gfx.VertexLayout
	count  int
	Data   []float32
}

func (b *VertexBuffer) Layout() gfx.VertexLayout { return b.layout }
func (b *VertexBuffer) Count() int               { return b.count }

// IndexBuffer is a recorded index upload.
type IndexBuffer struct {
	width gfx.IndexWidth
	count int
	Data  []uint16
}

func (b *IndexBuffer) Width() gfx.IndexWidth { return b.width }
func (b *IndexBuffer) Count() int            { return b.count }

// VertexArray is a recorded vertex array.
type VertexArray struct {
	VB       *VertexBuffer
	IB       *IndexBuffer
	topology gfx.Topology
}

func (v *VertexArray) Topology() gfx.Topology { return v.topology }

// Mesh is a recorded mesh.
type Mesh struct {
	name   string
	bounds gfx.AABB
	VAO    *VertexArray
}

func (m *Mesh) Name() string     { return m.name }
func (m *Mesh) Bounds() gfx.AABB { return m.bounds }

// Material is a recorded material.
type Material struct {
	name      string
	BaseColor mgl32.Vec3
}

func (m *Material) Name() string              { return m.name }
func (m *Material) SetBaseColor(c mgl32.Vec3) { m.BaseColor = c }

// Item is a recorded item.
type Item struct {
	Mesh     *Mesh
	Material *Material
	Node     *Node
}

func (it *Item) MeshName() string { return it.Mesh.name }

func (it *Item) SetMaterial(m gfx.Material) { it.Material = m.(*Material) }

// Light is a recorded light.
type Light struct {
	Name         string
	Kind         gfx.LightKind
	KindSet      bool
	Diffuse      mgl32.Vec3
	Specular     mgl32.Vec3
	Attenuation  gfx.Attenuation
	SpotInner    float32
	SpotOuter    float32
	SpotRangeSet bool
	PowerScale   float32
	Node         *Node
}

func (l *Light) SetName(name string)              { l.Name = name }
func (l *Light) SetKind(k gfx.LightKind)          { l.Kind, l.KindSet = k, true }
func (l *Light) SetDiffuse(c mgl32.Vec3)          { l.Diffuse = c }
func (l *Light) SetSpecular(c mgl32.Vec3)         { l.Specular = c }
func (l *Light) SetAttenuation(a gfx.Attenuation) { l.Attenuation = a }
func (l *Light) SetPowerScale(s float32)          { l.PowerScale = s }

func (l *Light) SetSpotRange(inner, outer float32) {
	l.SpotInner, l.SpotOuter, l.SpotRangeSet = inner, outer, true
}

// Node is a recorded scene node. Pointer fields are nil until set.
type Node struct {
	reg      *Registry
	Parent   *Node
	Children []*Node

	Position    *mgl32.Vec3
	Direction   *mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3

	Items  []*Item
	Lights []*Light
}

func (n *Node) CreateChild() gfx.Node {
	c := &Node{reg: n.reg, Parent: n, Scale: mgl32.Vec3{1, 1, 1}, Orientation: mgl32.QuatIdent()}
	n.Children = append(n.Children, c)
	n.reg.record("node")
	return c
}

func (n *Node) SetPosition(p mgl32.Vec3)    { n.Position = &p }
func (n *Node) SetOrientation(q mgl32.Quat) { n.Orientation = q }
func (n *Node) SetScale(s mgl32.Vec3)       { n.Scale = s }

func (n *Node) SetDirection(d mgl32.Vec3) {
	n.Direction = &d
	n.Orientation = gfx.DirectionToQuat(d)
}

func (n *Node) AttachItem(it gfx.Item) {
	item := it.(*Item)
	item.Node = n
	n.Items = append(n.Items, item)
}

func (n *Node) AttachLight(l gfx.Light) {
	light := l.(*Light)
	light.Node = n
	n.Lights = append(n.Lights, light)
}

// Depth returns the number of node levels below n, counting n itself.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	c := 1
	for _, child := range n.Children {
		c += child.Count()
	}
	return c
}
