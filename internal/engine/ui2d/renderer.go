// Package ui2d is a small immediate-mode 2D UI drawn with OpenGL.
package ui2d

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fpsgame/internal/engine/shader"
)

const solidVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragmentShader = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    float coverage = texture(uTexture, vTexCoord).r;
    FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
`

// Floats per vertex in each batch.
const (
	solidStride = 6 // x, y, r, g, b, a
	textStride  = 8 // x, y, u, v, r, g, b, a
)

// Renderer batches quads and text for one frame and draws them in End.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidProg uint32
	textProg  uint32
	solidVAO  uint32
	solidVBO  uint32
	textVAO   uint32
	textVBO   uint32

	batch batch
}

// batch is the GL-free part of the renderer: vertex lists and text layout.
type batch struct {
	font  *Font
	solid []float32
	text  []float32
}

// New creates a 2D renderer. The UI GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
		batch:        newBatch(),
	}

	var err error
	if r.solidProg, err = shader.CompileProgram(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.textProg, err = shader.CompileProgram(textVertexShader, textFragmentShader); err != nil {
		gl.DeleteProgram(r.solidProg)
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = vertexArray(solidStride, 2, 4)
	r.textVAO, r.textVBO = vertexArray(textStride, 2, 2, 4)
	r.batch.font.Upload()

	return r, nil
}

func newBatch() batch {
	return batch{
		font:  NewFont(),
		solid: make([]float32, 0, 4096),
		text:  make([]float32, 0, 4096),
	}
}

// vertexArray creates a VAO with float attributes of the given sizes at
// consecutive locations.
func vertexArray(stride int, sizes ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// ScreenSize returns the current screen dimensions.
func (r *Renderer) ScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.batch.reset()
}

// End draws everything queued since Begin.
func (r *Renderer) End() {
	gl.Viewport(0, 0, int32(r.screenWidth), int32(r.screenHeight))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := mgl32.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.batch.solid) > 0 {
		gl.UseProgram(r.solidProg)
		gl.UniformMatrix4fv(gl.GetUniformLocation(r.solidProg, gl.Str("uProjection\x00")), 1, false, &proj[0])
		draw(r.solidVAO, r.solidVBO, r.batch.solid, solidStride)
	}

	if len(r.batch.text) > 0 {
		gl.UseProgram(r.textProg)
		gl.UniformMatrix4fv(gl.GetUniformLocation(r.textProg, gl.Str("uProjection\x00")), 1, false, &proj[0])
		gl.Uniform1i(gl.GetUniformLocation(r.textProg, gl.Str("uTexture\x00")), 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.batch.font.TextureID())
		draw(r.textVAO, r.textVBO, r.batch.text, textStride)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
}

func draw(vao, vbo uint32, verts []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/stride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	r.batch.font.Close()
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.solidProg != 0 {
		gl.DeleteProgram(r.solidProg)
	}
	if r.textProg != 0 {
		gl.DeleteProgram(r.textProg)
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c Color) { r.batch.rect(x, y, w, h, c) }

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, w, h, thickness float32, c Color) {
	r.batch.outline(x, y, w, h, thickness, c)
}

// DrawText draws text with its top-left corner at x, y.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, c Color) {
	r.batch.textAt(x, y, text, scale, c)
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.batch.font.MeasureText(text, scale)
}

func (b *batch) reset() {
	b.solid = b.solid[:0]
	b.text = b.text[:0]
}

func (b *batch) rect(x, y, w, h float32, c Color) {
	if w <= 0 || h <= 0 || c.A <= 0 {
		return
	}
	b.solid = append(b.solid,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

func (b *batch) outline(x, y, w, h, t float32, c Color) {
	b.rect(x, y, w, t, c)
	b.rect(x, y+h-t, w, t, c)
	b.rect(x, y+t, t, h-t*2, c)
	b.rect(x+w-t, y+t, t, h-t*2, c)
}

func (b *batch) textAt(x, y float32, text string, scale float32, c Color) {
	adv, lh := b.font.GlyphSize()
	cw := float32(b.font.CellWidth()) * scale
	ch := float32(lh) * scale

	cx := x
	for _, r := range text {
		if r == '\n' {
			cx = x
			y += ch
			continue
		}
		if r != ' ' {
			u0, v0, u1, v1 := b.font.GlyphUV(r)
			b.text = append(b.text,
				cx, y, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y, u1, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, u1, v1, c.R, c.G, c.B, c.A,
				cx, y, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, u1, v1, c.R, c.G, c.B, c.A,
				cx, y+ch, u0, v1, c.R, c.G, c.B, c.A,
			)
		}
		cx += float32(adv) * scale
	}
}
