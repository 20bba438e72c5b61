// Package asset holds the in-memory scene graph produced by parsing a 3D
// scene file, and the glTF adapter that builds it.
package asset

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is a parsed scene file. Nodes form a tree under Root and reference
// meshes by index into Meshes.
type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	Lights    []*Light
}

// Node is one node of the scene tree.
type Node struct {
	Name      string
	Transform mgl32.Mat4
	Meshes    []int
	Children  []*Node
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: mgl32.Ident4()}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	c := 1
	for _, child := range n.Children {
		c += child.Count()
	}
	return c
}

// Mesh is a triangle list. Normals is nil when the source had none.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Faces     [][3]uint32
	Material  int // index into Scene.Materials, -1 for none

	// Problem is set when the source primitive cannot be imported.
	Problem string
}

// Material carries the colour properties the importer understands. Either
// colour may be nil when the source did not define it.
type Material struct {
	Name      string
	BaseColor *mgl32.Vec3
	Diffuse   *mgl32.Vec3
}

// LightType is the kind of a scene light.
type LightType int

const (
	LightUnsupported LightType = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unsupported"
	}
}

// Light is a light source in world space. Cone angles are full angles in
// radians.
type Light struct {
	Name      string
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3

	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32

	InnerCone float32
	OuterCone float32
}

// Decompose splits an affine transform into scale, rotation and translation.
// A negative determinant is folded into the X scale.
func Decompose(m mgl32.Mat4) (scale mgl32.Vec3, rot mgl32.Quat, trans mgl32.Vec3) {
	trans = m.Col(3).Vec3()

	sx, sy, sz := mgl32.Extract3DScale(m)
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	scale = mgl32.Vec3{sx, sy, sz}

	var r mgl32.Mat4
	for c := 0; c < 3; c++ {
		s := scale[c]
		if math32.Abs(s) < 1e-8 {
			s = 1
		}
		col := m.Col(c).Vec3().Mul(1 / s)
		r.SetCol(c, col.Vec4(0))
	}
	r.Set(3, 3, 1)
	rot = mgl32.Mat4ToQuat(r).Normalize()
	return scale, rot, trans
}

// Compose builds a transform from translation, rotation and scale.
func Compose(trans mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(trans[0], trans[1], trans[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Validate checks the tree for cycles, nil entries and out-of-range mesh
// references.
func (s *Scene) Validate() error {
	if s.Root == nil {
		return fmt.Errorf("scene has no root node")
	}
	for i, m := range s.Meshes {
		if m == nil {
			return fmt.Errorf("mesh %d is nil", i)
		}
	}
	seen := make(map[*Node]bool)
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if seen[n] {
			return fmt.Errorf("node %q is reachable twice", n.Name)
		}
		seen[n] = true
		for _, mi := range n.Meshes {
			if mi < 0 || mi >= len(s.Meshes) {
				return fmt.Errorf("node %q references mesh %d of %d", n.Name, mi, len(s.Meshes))
			}
		}
		for i, c := range n.Children {
			if c == nil {
				return fmt.Errorf("node %q has nil child %d", n.Name, i)
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.Root)
}
