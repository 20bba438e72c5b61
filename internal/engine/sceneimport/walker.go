// Package sceneimport converts a parsed asset scene into renderer resources.
//
// Meshes keep the asset's node hierarchy: every asset node becomes one scene
// node under the caller's parent, depth for depth. Lights are flattened: each
// gets its own node directly under the registry root, placed from the
// light's world-space fields.
package sceneimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/engine/asset"
	"github.com/Faultbox/fpsgame/internal/engine/gfx"
	"github.com/Faultbox/fpsgame/internal/logger"
)

var (
	// ErrImport is returned when a scene file cannot be read or parsed.
	ErrImport = errors.New("scene import failed")
	// ErrTooManyVertices marks a mesh that 16-bit indices cannot address.
	ErrTooManyVertices = errors.New("mesh exceeds 16-bit index range")
)

const (
	// lightMaxRange caps every imported light's attenuation.
	lightMaxRange = 100
	// pointLightPowerScale brings photometric point intensities into the
	// renderer's range.
	pointLightPowerScale = 0.002
)

// Loader parses a scene file.
type Loader func(path string) (*asset.Scene, error)

// Walker imports scenes into a registry.
type Walker struct {
	reg  gfx.Registry
	load Loader
	log  *zap.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLoader replaces the glTF loader.
func WithLoader(l Loader) Option {
	return func(w *Walker) { w.load = l }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Walker) { w.log = l }
}

// New returns a walker writing into reg.
func New(reg gfx.Registry, opts ...Option) *Walker {
	w := &Walker{reg: reg, load: asset.LoadGLTF}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.L()
	}
	return w
}

// Skipped is one element left out of an import.
type Skipped struct {
	Kind   string // "mesh", "material" or "light"
	Name   string
	Reason string
}

// Report summarizes an import.
type Report struct {
	Nodes     int
	Meshes    int
	Items     int
	Materials int
	Lights    int
	Vertices  int
	Triangles int
	Skipped   []Skipped
}

// Import parses path and imports it under parent. On a parse failure the
// returned error wraps ErrImport and nothing is created.
func (w *Walker) Import(path string, parent gfx.Node) (Report, error) {
	scene, err := w.load(path)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %s: %v", ErrImport, path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return w.ImportScene(scene, name, parent)
}

// ImportScene imports an already parsed scene. name prefixes every
// registered resource name.
func (w *Walker) ImportScene(scene *asset.Scene, name string, parent gfx.Node) (Report, error) {
	if err := scene.Validate(); err != nil {
		return Report{}, fmt.Errorf("%w: %s: %v", ErrImport, name, err)
	}

	s := &session{
		w:      w,
		scene:  scene,
		prefix: name,
		meshes: make(map[int]*builtMesh),
	}
	s.node(scene.Root, parent)
	s.lights()

	w.log.Info("scene imported",
		zap.String("scene", name),
		zap.Int("nodes", s.report.Nodes),
		zap.Int("items", s.report.Items),
		zap.Int("lights", s.report.Lights),
		zap.Int("skipped", len(s.report.Skipped)))
	return s.report, nil
}

// session holds state for one import call.
type session struct {
	w      *Walker
	scene  *asset.Scene
	prefix string
	report Report

	// meshes caches registration per asset mesh index; nil means the mesh
	// was skipped.
	meshes map[int]*builtMesh
}

type builtMesh struct {
	name     string
	material gfx.Material
}

func (s *session) skip(kind, name string, err error) {
	s.report.Skipped = append(s.report.Skipped, Skipped{Kind: kind, Name: name, Reason: err.Error()})
	s.w.log.Warn("import: skipping "+kind, zap.String(kind, name), zap.Error(err))
}

// node creates the scene node for n, attaches its meshes and recurses.
func (s *session) node(n *asset.Node, parent gfx.Node) {
	sn := parent.CreateChild()
	s.report.Nodes++

	scale, rot, trans := asset.Decompose(n.Transform)
	sn.SetPosition(trans)
	sn.SetOrientation(rot)
	sn.SetScale(scale)

	for _, mi := range n.Meshes {
		bm := s.mesh(mi)
		if bm == nil {
			continue
		}
		item, err := s.w.reg.CreateItem(bm.name)
		if err != nil {
			s.skip("mesh", bm.name, err)
			continue
		}
		if bm.material != nil {
			item.SetMaterial(bm.material)
		}
		sn.AttachItem(item)
		s.report.Items++
	}

	for _, c := range n.Children {
		s.node(c, sn)
	}
}

// mesh registers asset mesh mi once per session.
func (s *session) mesh(mi int) *builtMesh {
	if bm, ok := s.meshes[mi]; ok {
		return bm
	}
	src := s.scene.Meshes[mi]
	name := fmt.Sprintf("%s/mesh%d", s.prefix, mi)

	bm, err := s.buildMesh(name, src)
	if err != nil {
		s.skip("mesh", name, err)
		s.meshes[mi] = nil
		return nil
	}
	s.meshes[mi] = bm
	return bm
}

func (s *session) buildMesh(name string, src *asset.Mesh) (*builtMesh, error) {
	if src.Problem != "" {
		return nil, errors.New(src.Problem)
	}
	verts, indices, err := buildBuffers(src)
	if err != nil {
		return nil, err
	}
	count := len(src.Positions)

	reg := s.w.reg
	// Claim checks run before any upload so a rejected name leaks nothing.
	if reg.HasMesh(name) {
		return nil, fmt.Errorf("%w: mesh %q", gfx.ErrDuplicateName, name)
	}
	vb, err := reg.CreateVertexBuffer(gfx.LayoutPositionNormal, count, verts)
	if err != nil {
		return nil, err
	}
	ib, err := reg.CreateIndexBuffer(gfx.Index16, len(indices), indices)
	if err != nil {
		return nil, err
	}
	vao, err := reg.CreateVertexArray(vb, ib, gfx.TriangleList)
	if err != nil {
		return nil, err
	}
	if _, err := reg.CreateMesh(name, vao, gfx.BoundsOf(src.Positions)); err != nil {
		return nil, err
	}
	s.report.Meshes++
	s.report.Vertices += count
	s.report.Triangles += len(src.Faces)

	return &builtMesh{name: name, material: s.material(name, src)}, nil
}

// buildBuffers interleaves position and normal per vertex and flattens faces
// into 16-bit indices.
func buildBuffers(src *asset.Mesh) ([]float32, []uint16, error) {
	count := len(src.Positions)
	if count > gfx.MaxIndexedVertices {
		return nil, nil, fmt.Errorf("%w: %d vertices", ErrTooManyVertices, count)
	}
	for _, f := range src.Faces {
		for _, idx := range f {
			if int(idx) >= count {
				return nil, nil, fmt.Errorf("face index %d out of range for %d vertices", idx, count)
			}
		}
	}

	normals := src.Normals
	if len(normals) != count {
		normals = ComputeNormals(src.Positions, src.Faces)
	}

	verts := make([]float32, 0, count*gfx.LayoutPositionNormal.Stride())
	for i, p := range src.Positions {
		n := normals[i]
		verts = append(verts, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	indices := make([]uint16, 0, len(src.Faces)*3)
	for _, f := range src.Faces {
		indices = append(indices, uint16(f[0]), uint16(f[1]), uint16(f[2]))
	}
	return verts, indices, nil
}

// material creates the mesh's material from its base colour, falling back to
// the diffuse colour, then white.
func (s *session) material(meshName string, src *asset.Mesh) gfx.Material {
	if src.Material < 0 || src.Material >= len(s.scene.Materials) {
		s.skip("material", meshName, fmt.Errorf("mesh has no material"))
		return nil
	}
	am := s.scene.Materials[src.Material]

	color := mgl32.Vec3{1, 1, 1}
	switch {
	case am.BaseColor != nil:
		color = *am.BaseColor
	case am.Diffuse != nil:
		color = *am.Diffuse
	}

	name := meshName + "/Material"
	mat, err := s.w.reg.CreateMaterial(name)
	if err != nil {
		s.skip("material", name, err)
		return nil
	}
	mat.SetBaseColor(color)
	s.report.Materials++
	return mat
}

// lights creates one root-level node per asset light.
func (s *session) lights() {
	root := s.w.reg.RootNode()
	for i, al := range s.scene.Lights {
		name := al.Name
		if name == "" {
			name = fmt.Sprintf("%s/light%d", s.prefix, i)
		}

		var kind gfx.LightKind
		switch al.Type {
		case asset.LightDirectional:
			kind = gfx.LightDirectional
		case asset.LightPoint:
			kind = gfx.LightPoint
		case asset.LightSpot:
			kind = gfx.LightSpot
		default:
			s.skip("light", name, fmt.Errorf("unsupported light type %s", al.Type))
			continue
		}

		l, err := s.w.reg.CreateLight()
		if err != nil {
			s.skip("light", name, err)
			continue
		}
		l.SetName(name)
		l.SetKind(kind)
		switch kind {
		case gfx.LightPoint:
			l.SetPowerScale(pointLightPowerScale)
		case gfx.LightSpot:
			l.SetSpotRange(al.InnerCone, al.OuterCone)
		}
		l.SetDiffuse(al.Diffuse)
		l.SetSpecular(al.Specular)
		l.SetAttenuation(gfx.Attenuation{
			Range:     lightMaxRange,
			Constant:  al.AttenuationConstant,
			Linear:    al.AttenuationLinear,
			Quadratic: al.AttenuationQuadratic,
		})

		ln := root.CreateChild()
		if kind != gfx.LightDirectional {
			ln.SetPosition(al.Position)
		}
		if kind != gfx.LightPoint {
			ln.SetDirection(al.Direction)
		}
		ln.AttachLight(l)
		s.report.Lights++
	}
}
