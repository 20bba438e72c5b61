package asset

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/qmuntal/gltf/ext/specular"
	"github.com/qmuntal/gltf/modeler"
)

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// LoadGLTF parses a .gltf or .glb file.
func LoadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded glTF document. Each primitive becomes one
// Mesh; a node referencing a multi-primitive mesh references all of them.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	s := &Scene{}

	for i, m := range doc.Materials {
		s.Materials = append(s.Materials, convertMaterial(i, m))
	}

	primBase := make([]int, len(doc.Meshes))
	for i, m := range doc.Meshes {
		primBase[i] = len(s.Meshes)
		for j, prim := range m.Primitives {
			name := m.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", i)
			}
			if len(m.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", name, j)
			}
			s.Meshes = append(s.Meshes, convertPrimitive(doc, name, prim))
		}
	}

	lights, err := documentLights(doc)
	if err != nil {
		return nil, err
	}

	c := converter{doc: doc, scene: s, primBase: primBase, lights: lights, visiting: make(map[int]bool)}

	roots := sceneRoots(doc)
	if len(roots) == 1 {
		root, err := c.node(roots[0], mgl32.Ident4())
		if err != nil {
			return nil, err
		}
		s.Root = root
	} else {
		s.Root = NewNode("root")
		for _, idx := range roots {
			child, err := c.node(idx, mgl32.Ident4())
			if err != nil {
				return nil, err
			}
			s.Root.Children = append(s.Root.Children, child)
		}
	}

	return s, nil
}

type converter struct {
	doc      *gltf.Document
	scene    *Scene
	primBase []int
	lights   lightspunctual.Lights
	visiting map[int]bool
}

func (c *converter) node(idx int, parentWorld mgl32.Mat4) (*Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, fmt.Errorf("node %d is part of a cycle", idx)
	}
	c.visiting[idx] = true
	defer delete(c.visiting, idx)

	src := c.doc.Nodes[idx]
	n := &Node{Name: src.Name, Transform: localTransform(src)}
	if n.Name == "" {
		n.Name = fmt.Sprintf("node%d", idx)
	}
	world := parentWorld.Mul4(n.Transform)

	if src.Mesh != nil {
		mi := *src.Mesh
		if mi < 0 || mi >= len(c.doc.Meshes) {
			return nil, fmt.Errorf("node %q references mesh %d of %d", n.Name, mi, len(c.doc.Meshes))
		}
		for j := range c.doc.Meshes[mi].Primitives {
			n.Meshes = append(n.Meshes, c.primBase[mi]+j)
		}
	}

	if li, ok := nodeLight(src); ok {
		if li < 0 || li >= len(c.lights) {
			return nil, fmt.Errorf("node %q references light %d of %d", n.Name, li, len(c.lights))
		}
		c.scene.Lights = append(c.scene.Lights, convertLight(c.lights[li], world))
	}

	for _, child := range src.Children {
		cn, err := c.node(child, world)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			si = *doc.Scene
		}
		return doc.Scenes[si].Nodes
	}

	// No scenes: every node without a parent is a root.
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func localTransform(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t, r, s := n.Translation, n.Rotation, n.Scale
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	return Compose(
		mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize(),
		mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	)
}

func convertPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) *Mesh {
	m := &Mesh{Name: name, Material: -1}
	if prim.Material != nil {
		m.Material = *prim.Material
	}

	if prim.Mode != gltf.PrimitiveTriangles {
		m.Problem = fmt.Sprintf("unsupported primitive mode %d", prim.Mode)
		return m
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		m.Problem = "no POSITION attribute"
		return m
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		m.Problem = fmt.Sprintf("reading positions: %v", err)
		return m
	}
	m.Positions = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		m.Positions[i] = mgl32.Vec3(p)
	}

	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err == nil && len(normals) == len(positions) {
			m.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				m.Normals[i] = mgl32.Vec3(n)
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			m.Problem = fmt.Sprintf("reading indices: %v", err)
			return m
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m.Faces = make([][3]uint32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		m.Faces = append(m.Faces, [3]uint32{indices[i], indices[i+1], indices[i+2]})
	}
	return m
}

func convertMaterial(idx int, src *gltf.Material) *Material {
	m := &Material{Name: src.Name}
	if m.Name == "" {
		m.Name = fmt.Sprintf("material%d", idx)
	}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := pbr.BaseColorFactor
		m.BaseColor = &mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
	}
	if v, ok := src.Extensions[specular.ExtensionName]; ok {
		v, err := decodeRaw(v, specular.Unmarshal)
		if sg, ok := v.(*specular.PBRSpecularGlossiness); ok && err == nil {
			c := sg.DiffuseFactorOrDefault()
			m.Diffuse = &mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
		}
	}
	return m
}

func convertLight(p *lightspunctual.Light, world mgl32.Mat4) *Light {
	l := &Light{Name: p.Name}

	switch p.Type {
	case "directional":
		l.Type = LightDirectional
	case "point":
		l.Type = LightPoint
	case "spot":
		l.Type = LightSpot
	default:
		l.Type = LightUnsupported
	}

	c := p.ColorOrDefault()
	l.Diffuse = mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}.Mul(float32(p.IntensityOrDefault()))
	l.Specular = l.Diffuse

	// glTF punctual lights fall off with the inverse square of distance.
	// Range is left to the renderer's fixed cap; files omitting it mean
	// infinite.
	l.AttenuationQuadratic = 1

	if l.Type == LightSpot {
		inner, outer := 0.0, math.Pi/4
		if p.Spot != nil {
			inner = p.Spot.InnerConeAngle
			outer = p.Spot.OuterConeAngleOrDefault()
		}
		l.InnerCone = float32(2 * inner)
		l.OuterCone = float32(2 * outer)
	}

	l.Position = world.Col(3).Vec3()
	l.Direction = world.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if l.Direction.Len() > 1e-6 {
		l.Direction = l.Direction.Normalize()
	}
	return l
}

// documentLights returns the document-level light list. Extensions arrive
// decoded when the extension is registered, or raw when a document was
// built in memory.
func documentLights(doc *gltf.Document) (lightspunctual.Lights, error) {
	v, ok := doc.Extensions[lightspunctual.ExtensionName]
	if !ok {
		return nil, nil
	}
	v, err := decodeRaw(v, lightspunctual.Unmarshal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lightspunctual.ExtensionName, err)
	}
	switch lights := v.(type) {
	case lightspunctual.Lights:
		return lights, nil
	case *lightspunctual.Lights:
		return *lights, nil
	}
	return nil, fmt.Errorf("%s: unexpected document extension %T", lightspunctual.ExtensionName, v)
}

func nodeLight(n *gltf.Node) (int, bool) {
	v, ok := n.Extensions[lightspunctual.ExtensionName]
	if !ok {
		return 0, false
	}
	v, err := decodeRaw(v, lightspunctual.Unmarshal)
	if err != nil {
		return 0, false
	}
	switch idx := v.(type) {
	case lightspunctual.LightIndex:
		return int(idx), true
	case *lightspunctual.LightIndex:
		return int(*idx), true
	}
	return 0, false
}

// decodeRaw runs an extension's registered decoder over undecoded JSON.
func decodeRaw(v any, unmarshal func([]byte) (any, error)) (any, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		return v, nil
	}
	return unmarshal(raw)
}
