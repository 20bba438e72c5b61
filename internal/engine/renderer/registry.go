package renderer

import (
	"fmt"

	"github.com/Faultbox/fpsgame/internal/engine/gfx"
)

func (r *Renderer) RootNode() gfx.Node { return r.root }

func (r *Renderer) CreateVertexBuffer(layout gfx.VertexLayout, count int, data []float32) (gfx.VertexBuffer, error) {
	if err := gfx.CheckVertexData(layout, count, data); err != nil {
		return nil, err
	}
	return &vertexBuffer{id: r.dev.vertexBuffer(data), layout: layout, count: count}, nil
}

func (r *Renderer) CreateIndexBuffer(width gfx.IndexWidth, count int, data []uint16) (gfx.IndexBuffer, error) {
	if err := gfx.CheckIndexData(width, count, data); err != nil {
		return nil, err
	}
	return &indexBuffer{id: r.dev.indexBuffer(data), count: count}, nil
}

func (r *Renderer) CreateVertexArray(vb gfx.VertexBuffer, ib gfx.IndexBuffer, topology gfx.Topology) (gfx.VertexArray, error) {
	if topology != gfx.TriangleList {
		return nil, fmt.Errorf("renderer: unsupported topology %d", topology)
	}
	v, ok := vb.(*vertexBuffer)
	if !ok {
		return nil, fmt.Errorf("renderer: foreign vertex buffer %T", vb)
	}
	var i *indexBuffer
	if ib != nil {
		if i, ok = ib.(*indexBuffer); !ok {
			return nil, fmt.Errorf("renderer: foreign index buffer %T", ib)
		}
	}
	return &vertexArray{id: r.dev.vertexArray(v, i), vb: v, ib: i, topology: topology}, nil
}

func (r *Renderer) CreateMesh(name string, vao gfx.VertexArray, bounds gfx.AABB) (gfx.Mesh, error) {
	va, ok := vao.(*vertexArray)
	if !ok {
		return nil, fmt.Errorf("renderer: foreign vertex array %T", vao)
	}
	if err := r.names.Claim("mesh", name); err != nil {
		return nil, err
	}
	m := &mesh{name: name, vao: va, bounds: bounds}
	r.meshes[name] = m
	return m, nil
}

func (r *Renderer) HasMesh(name string) bool {
	return r.names.Has("mesh", name)
}

func (r *Renderer) CreateItem(meshName string) (gfx.Item, error) {
	m, ok := r.meshes[meshName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", gfx.ErrUnknownMesh, meshName)
	}
	return &item{mesh: m}, nil
}

func (r *Renderer) CreateMaterial(name string) (gfx.Material, error) {
	if err := r.names.Claim("material", name); err != nil {
		return nil, err
	}
	return &material{name: name, baseColor: defaultMaterial.baseColor}, nil
}

func (r *Renderer) CreateLight() (gfx.Light, error) {
	return &light{power: 1}, nil
}
