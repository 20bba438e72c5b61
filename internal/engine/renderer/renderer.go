// Package renderer is the OpenGL 4.1 forward renderer for imported scenes.
//
// Renderer implements gfx.Registry, so scene import writes straight into it,
// and draws the resulting node tree once per RenderOneFrame.
package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/config"
	"github.com/Faultbox/fpsgame/internal/engine/camera"
	"github.com/Faultbox/fpsgame/internal/engine/debug"
	"github.com/Faultbox/fpsgame/internal/engine/gfx"
	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/lighting"
	"github.com/Faultbox/fpsgame/internal/engine/shader"
	"github.com/Faultbox/fpsgame/internal/engine/stats"
	"github.com/Faultbox/fpsgame/internal/logger"
)

// ErrFrameFailed is returned when a frame cannot be produced.
var ErrFrameFailed = errors.New("renderer: frame failed")

// boundsColor is the colour of the bounds overlay lines.
var boundsColor = mgl32.Vec3{1, 0.85, 0.1}

// Config holds renderer configuration.
type Config struct {
	Width    int
	Height   int
	Settings config.RenderSettings
}

// Camera supplies the view each frame.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix(aspect float32) mgl32.Mat4
	Pose() camera.State
}

// Renderer owns every GPU resource of the 3D scene.
type Renderer struct {
	config Config
	dev    device

	names  gfx.NameSet
	meshes map[string]*mesh
	root   *node
	frame  frame
	cam    Camera

	sceneProg *shader.Program
	lineProg  *shader.Program
	lineVAO   uint32
	lineVBO   uint32
	lineVerts []float32

	showBounds    bool
	warnedDropped bool

	frames  *stats.FrameStats
	metrics stats.Metrics
	last    time.Time
	now     func() time.Time
}

// New creates a renderer. The scene GL context must be current.
func New(cfg Config, lib *shader.Library) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := newRenderer(cfg, &glDevice{})

	var err error
	if r.sceneProg, err = shader.Build(lib, "scene"); err != nil {
		return nil, err
	}
	if r.lineProg, err = shader.Build(lib, "line"); err != nil {
		r.sceneProg.Delete()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.Settings.SRGB {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	}

	return r, nil
}

func newRenderer(cfg Config, dev device) *Renderer {
	return &Renderer{
		config: cfg,
		dev:    dev,
		meshes: make(map[string]*mesh),
		root:   newNode(nil),
		frame:  frame{lights: lighting.NewBuffer(cfg.Settings.MaxLights)},
		frames: stats.New(stats.DefaultWindow),
		now:    time.Now,
	}
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.dev.release()
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.sceneProg != nil {
		r.sceneProg.Delete()
	}
	if r.lineProg != nil {
		r.lineProg.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// SetCamera sets the camera used by subsequent frames.
func (r *Renderer) SetCamera(c Camera) {
	r.cam = c
}

// SetShowBounds toggles the bounding-box overlay.
func (r *Renderer) SetShowBounds(show bool) {
	r.showBounds = show
}

// ShowBounds reports whether the bounding-box overlay is drawn.
func (r *Renderer) ShowBounds() bool {
	return r.showBounds
}

// FrameStats returns the rolling frame statistics.
func (r *Renderer) FrameStats() stats.Snapshot {
	return r.frames.Snapshot()
}

// ResetFrameStats clears the rolling frame statistics.
func (r *Renderer) ResetFrameStats() {
	r.frames.Reset()
	logger.Debug("frame stats reset")
}

// Metrics returns the counters of the last rendered frame.
func (r *Renderer) Metrics() stats.Metrics {
	return r.metrics
}

// RenderOneFrame draws the scene. The token must be the live scene-context
// token; every failure wraps ErrFrameFailed.
func (r *Renderer) RenderOneFrame(token glctx.Token) error {
	if err := token.Require(glctx.Scene); err != nil {
		return fmt.Errorf("%w: %w", ErrFrameFailed, err)
	}
	if r.cam == nil {
		return fmt.Errorf("%w: no camera", ErrFrameFailed)
	}

	r.tick()
	r.prepare()
	r.draw()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%w: GL error 0x%04x", ErrFrameFailed, code)
	}
	return nil
}

// tick records the time since the previous frame.
func (r *Renderer) tick() {
	now := r.now()
	if !r.last.IsZero() {
		r.frames.Record(now.Sub(r.last))
	}
	r.last = now
}

// prepare flattens the scene graph and updates the frame counters.
func (r *Renderer) prepare() {
	r.frame.reset()
	r.root.collect(mgl32.Ident4(), &r.frame)

	if r.frame.dropped > 0 && !r.warnedDropped {
		logger.Warn("light limit reached",
			zap.Int("limit", r.frame.lights.Limit()),
			zap.Int("dropped", r.frame.dropped),
		)
		r.warnedDropped = true
	}

	r.metrics = stats.Metrics{}
	r.lineVerts = r.lineVerts[:0]
	for _, d := range r.frame.draws {
		vao := d.item.mesh.vao
		r.metrics.Faces += vao.elements() / 3
		r.metrics.Vertices += vao.vb.count
		r.metrics.DrawCalls++
		if r.showBounds {
			r.lineVerts = debug.WorldBounds(r.lineVerts, d.item.mesh.bounds, d.world)
		}
	}
}

func (r *Renderer) draw() {
	w, h := r.config.Width, r.config.Height
	gl.Viewport(0, 0, int32(w), int32(h))

	bg := r.config.Settings.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	view := r.cam.ViewMatrix()
	proj := r.cam.ProjectionMatrix(aspect)
	eye := r.cam.Pose().Position
	amb := r.config.Settings.Ambient

	p := r.sceneProg
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uView"), 1, false, &view[0])
	gl.UniformMatrix4fv(p.Uniform("uProjection"), 1, false, &proj[0])
	gl.Uniform3f(p.Uniform("uCameraPos"), eye[0], eye[1], eye[2])
	gl.Uniform3f(p.Uniform("uAmbient"), amb[0], amb[1], amb[2])

	lights := r.frame.lights.Pack()
	gl.Uniform1i(p.Uniform("uLightCount"), lights.Count)
	gl.Uniform1iv(p.Uniform("uLightKind"), lighting.MaxLights, &lights.Kinds[0])
	gl.Uniform3fv(p.Uniform("uLightPosition"), lighting.MaxLights, &lights.Positions[0])
	gl.Uniform3fv(p.Uniform("uLightDirection"), lighting.MaxLights, &lights.Directions[0])
	gl.Uniform3fv(p.Uniform("uLightDiffuse"), lighting.MaxLights, &lights.Diffuse[0])
	gl.Uniform3fv(p.Uniform("uLightSpecular"), lighting.MaxLights, &lights.Specular[0])
	gl.Uniform4fv(p.Uniform("uLightAttenuation"), lighting.MaxLights, &lights.Attenuation[0])
	gl.Uniform2fv(p.Uniform("uLightCone"), lighting.MaxLights, &lights.Cones[0])

	for _, d := range r.frame.draws {
		model := d.world
		normal := model.Mat3().Inv().Transpose()
		gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &model[0])
		gl.UniformMatrix3fv(p.Uniform("uNormalMatrix"), 1, false, &normal[0])

		mat := d.item.material
		if mat == nil {
			mat = defaultMaterial
		}
		c := mat.baseColor
		gl.Uniform3f(p.Uniform("uBaseColor"), c[0], c[1], c[2])

		vao := d.item.mesh.vao
		n := int32(vao.elements())
		if n == 0 {
			continue
		}
		gl.BindVertexArray(vao.id)
		if vao.ib != nil {
			gl.DrawElements(gl.TRIANGLES, n, gl.UNSIGNED_SHORT, nil)
		} else {
			gl.DrawArrays(gl.TRIANGLES, 0, n)
		}
	}
	gl.BindVertexArray(0)

	if len(r.lineVerts) > 0 {
		r.drawBounds(proj.Mul4(view))
	}
}

func (r *Renderer) drawBounds(viewProj mgl32.Mat4) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.lineVerts)*4, gl.Ptr(r.lineVerts), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	p := r.lineProg
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uViewProjection"), 1, false, &viewProj[0])
	gl.Uniform3f(p.Uniform("uColor"), boundsColor[0], boundsColor[1], boundsColor[2])

	gl.BindVertexArray(r.lineVAO)
	gl.DrawArrays(gl.LINES, 0, int32(len(r.lineVerts)/3))
	gl.BindVertexArray(0)
}
