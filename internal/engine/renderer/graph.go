package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
	"github.com/Faultbox/fpsgame/internal/engine/lighting"
)

// node is a scene graph node. World transforms are recomputed every frame
// by walking down from the root.
type node struct {
	parent   *node
	children []*node

	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3

	items  []*item
	lights []*light
}

func newNode(parent *node) *node {
	return &node{
		parent:      parent,
		orientation: mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

func (n *node) CreateChild() gfx.Node {
	c := newNode(n)
	n.children = append(n.children, c)
	return c
}

func (n *node) SetPosition(p mgl32.Vec3)    { n.position = p }
func (n *node) SetOrientation(q mgl32.Quat) { n.orientation = q.Normalize() }
func (n *node) SetScale(s mgl32.Vec3)       { n.scale = s }

func (n *node) SetDirection(d mgl32.Vec3) {
	n.orientation = gfx.DirectionToQuat(d)
}

func (n *node) AttachItem(it gfx.Item) {
	if i, ok := it.(*item); ok {
		n.items = append(n.items, i)
	}
}

func (n *node) AttachLight(l gfx.Light) {
	if li, ok := l.(*light); ok {
		n.lights = append(n.lights, li)
	}
}

func (n *node) local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.position[0], n.position[1], n.position[2])
	s := mgl32.Scale3D(n.scale[0], n.scale[1], n.scale[2])
	return t.Mul4(n.orientation.Mat4()).Mul4(s)
}

// drawable is one item with its world transform for the current frame.
type drawable struct {
	item  *item
	world mgl32.Mat4
}

// frame is the flattened scene for one render.
type frame struct {
	draws   []drawable
	lights  *lighting.Buffer
	dropped int // lights past the buffer limit
}

func (f *frame) reset() {
	f.draws = f.draws[:0]
	f.lights.Clear()
	f.dropped = 0
}

// collect walks the subtree in pre-order, appending drawables and lights.
func (n *node) collect(parent mgl32.Mat4, f *frame) {
	world := parent.Mul4(n.local())
	for _, it := range n.items {
		f.draws = append(f.draws, drawable{item: it, world: world})
	}
	for _, l := range n.lights {
		if !f.lights.Add(l.toLighting(world)) {
			f.dropped++
		}
	}
	for _, c := range n.children {
		c.collect(world, f)
	}
}

var lightKinds = map[gfx.LightKind]lighting.Kind{
	gfx.LightDirectional: lighting.Directional,
	gfx.LightPoint:       lighting.Point,
	gfx.LightSpot:        lighting.Spot,
}

// toLighting places l using the world transform of the node it hangs from.
// The node's local -Z axis is the light direction.
func (l *light) toLighting(world mgl32.Mat4) lighting.Light {
	power := l.power
	if power == 0 {
		power = 1
	}
	dir := world.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if dir.Len() > 1e-6 {
		dir = dir.Normalize()
	}
	out := lighting.Light{
		Kind:      lightKinds[l.kind],
		Position:  world.Col(3).Vec3(),
		Direction: dir,
		Diffuse:   l.diffuse.Mul(power),
		Specular:  l.specular.Mul(power),
		Range:     l.attenuation.Range,
		Constant:  l.attenuation.Constant,
		Linear:    l.attenuation.Linear,
		Quadratic: l.attenuation.Quadratic,
	}
	if l.kind == gfx.LightSpot {
		out.CosInner, out.CosOuter = lighting.SpotCone(l.inner, l.outer)
	}
	return out
}
