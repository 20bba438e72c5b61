package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
)

// device uploads geometry. The GL implementation needs a current context;
// tests substitute one that only hands out ids.
type device interface {
	vertexBuffer(data []float32) uint32
	indexBuffer(data []uint16) uint32
	vertexArray(vb *vertexBuffer, ib *indexBuffer) uint32
	release()
}

type glDevice struct {
	buffers []uint32
	arrays  []uint32
}

func (d *glDevice) vertexBuffer(data []float32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.buffers = append(d.buffers, id)
	return id
}

// indexBuffer uploads through ARRAY_BUFFER; the element binding is VAO
// state and is only set inside vertexArray.
func (d *glDevice) indexBuffer(data []uint16) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.buffers = append(d.buffers, id)
	return id
}

func (d *glDevice) vertexArray(vb *vertexBuffer, ib *indexBuffer) uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	gl.BindVertexArray(id)

	stride := int32(vb.layout.Stride() * 4)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	if vb.layout == gfx.LayoutPositionNormal {
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(1)
	}
	if ib != nil {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.arrays = append(d.arrays, id)
	return id
}

func (d *glDevice) release() {
	if len(d.arrays) > 0 {
		gl.DeleteVertexArrays(int32(len(d.arrays)), &d.arrays[0])
	}
	if len(d.buffers) > 0 {
		gl.DeleteBuffers(int32(len(d.buffers)), &d.buffers[0])
	}
	d.arrays, d.buffers = nil, nil
}
