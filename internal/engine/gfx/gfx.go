// Package gfx defines the renderer resource registry consumed by scene import.
//
// The registry is an interface so import code can run against the OpenGL
// renderer or against the recording fake in gfxtest.
package gfx

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDuplicateName is returned when a named resource already exists.
	ErrDuplicateName = errors.New("gfx: duplicate resource name")
	// ErrUnknownMesh is returned when an item references an unregistered mesh.
	ErrUnknownMesh = errors.New("gfx: unknown mesh")
	// ErrBufferSize is returned when buffer data does not match its declared count.
	ErrBufferSize = errors.New("gfx: buffer size mismatch")
)

// VertexLayout describes the interleaved attributes of a vertex buffer.
type VertexLayout int

const (
	// LayoutPositionNormal is float3 position followed by float3 normal.
	LayoutPositionNormal VertexLayout = iota
)

// Stride returns the number of float32 values per vertex.
func (l VertexLayout) Stride() int {
	switch l {
	case LayoutPositionNormal:
		return 6
	default:
		return 0
	}
}

func (l VertexLayout) String() string {
	switch l {
	case LayoutPositionNormal:
		return "position+normal"
	default:
		return fmt.Sprintf("VertexLayout(%d)", int(l))
	}
}

// IndexWidth is the size in bits of one index.
type IndexWidth int

// Index16 is the only index width used by imported meshes.
const Index16 IndexWidth = 16

// MaxIndexedVertices is the largest vertex count addressable by Index16.
const MaxIndexedVertices = 1 << 16

// Topology is the primitive assembly mode of a vertex array.
type Topology int

const (
	TriangleList Topology = iota
)

// LightKind selects how a light's node transform is interpreted.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return fmt.Sprintf("LightKind(%d)", int(k))
	}
}

// Attenuation is a distance falloff with a hard range cap.
type Attenuation struct {
	Range     float32
	Constant  float32
	Linear    float32
	Quadratic float32
}

// VertexBuffer is an uploaded vertex buffer.
type VertexBuffer interface {
	Layout() VertexLayout
	Count() int
}

// IndexBuffer is an uploaded index buffer.
type IndexBuffer interface {
	Width() IndexWidth
	Count() int
}

// VertexArray binds a vertex buffer and an optional index buffer.
type VertexArray interface {
	Topology() Topology
}

// Mesh is a named, immutable piece of geometry.
type Mesh interface {
	Name() string
	Bounds() AABB
}

// Material holds surface parameters for items.
type Material interface {
	Name() string
	SetBaseColor(c mgl32.Vec3)
}

// Item is a drawable instance of a mesh.
type Item interface {
	MeshName() string
	SetMaterial(m Material)
}

// Light is a light source. Its position and direction come from the node it
// is attached to.
type Light interface {
	SetName(name string)
	SetKind(k LightKind)
	SetDiffuse(c mgl32.Vec3)
	SetSpecular(c mgl32.Vec3)
	SetAttenuation(a Attenuation)
	// SetSpotRange sets the full inner and outer cone angles in radians.
	SetSpotRange(inner, outer float32)
	SetPowerScale(s float32)
}

// Node is a scene graph node with a local transform.
type Node interface {
	CreateChild() Node
	SetPosition(p mgl32.Vec3)
	SetOrientation(q mgl32.Quat)
	SetScale(s mgl32.Vec3)
	// SetDirection orients the node so its local -Z axis points along d.
	SetDirection(d mgl32.Vec3)
	AttachItem(it Item)
	AttachLight(l Light)
}

// Registry creates renderer-owned resources. Named creations fail with
// ErrDuplicateName rather than overwrite.
type Registry interface {
	CreateVertexBuffer(layout VertexLayout, count int, data []float32) (VertexBuffer, error)
	CreateIndexBuffer(width IndexWidth, count int, data []uint16) (IndexBuffer, error)
	CreateVertexArray(vb VertexBuffer, ib IndexBuffer, topology Topology) (VertexArray, error)
	CreateMesh(name string, vao VertexArray, bounds AABB) (Mesh, error)
	// HasMesh reports whether a mesh already holds name.
	HasMesh(name string) bool
	CreateItem(meshName string) (Item, error)
	CreateMaterial(name string) (Material, error)
	CreateLight() (Light, error)
	RootNode() Node
}

// CheckVertexData validates a vertex upload against its declared count.
func CheckVertexData(layout VertexLayout, count int, data []float32) error {
	if count < 0 || len(data) != count*layout.Stride() {
		return fmt.Errorf("%w: %d floats for %d %s vertices", ErrBufferSize, len(data), count, layout)
	}
	return nil
}

// CheckIndexData validates an index upload against its declared count.
func CheckIndexData(width IndexWidth, count int, data []uint16) error {
	if width != Index16 {
		return fmt.Errorf("gfx: unsupported index width %d", width)
	}
	if count < 0 || len(data) != count {
		return fmt.Errorf("%w: %d indices, declared %d", ErrBufferSize, len(data), count)
	}
	return nil
}

// DirectionToQuat returns the rotation taking the default forward axis
// (-Z) onto d. A zero d yields the identity.
func DirectionToQuat(d mgl32.Vec3) mgl32.Quat {
	if d.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, d.Normalize())
}
