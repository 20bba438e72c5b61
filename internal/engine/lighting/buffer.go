package lighting

// Buffer holds up to a fixed number of lights and packs them into the flat
// arrays the shader uniforms expect.
type Buffer struct {
	Lights []Light
	limit  int
}

// NewBuffer creates an empty buffer holding at most limit lights, capped at
// MaxLights.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 || limit > MaxLights {
		limit = MaxLights
	}
	return &Buffer{
		Lights: make([]Light, 0, limit),
		limit:  limit,
	}
}

// Limit returns the buffer capacity.
func (b *Buffer) Limit() int {
	return b.limit
}

// Count returns the number of lights in the buffer.
func (b *Buffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.Lights = b.Lights[:0]
}

// Add appends a light. Returns false if the buffer is full.
func (b *Buffer) Add(l Light) bool {
	if len(b.Lights) >= b.limit {
		return false
	}
	b.Lights = append(b.Lights, l)
	return true
}

// Packed is the uniform-ready form of a Buffer. Every array is sized for
// MaxLights; entries past Count are zero.
type Packed struct {
	Count       int32
	Kinds       []int32
	Positions   []float32 // xyz per light
	Directions  []float32 // xyz per light
	Diffuse     []float32 // rgb per light
	Specular    []float32 // rgb per light
	Attenuation []float32 // range, constant, linear, quadratic per light
	Cones       []float32 // cos inner, cos outer per light
}

// Pack flattens the buffer for upload.
func (b *Buffer) Pack() Packed {
	p := Packed{
		Count:       int32(len(b.Lights)),
		Kinds:       make([]int32, MaxLights),
		Positions:   make([]float32, MaxLights*3),
		Directions:  make([]float32, MaxLights*3),
		Diffuse:     make([]float32, MaxLights*3),
		Specular:    make([]float32, MaxLights*3),
		Attenuation: make([]float32, MaxLights*4),
		Cones:       make([]float32, MaxLights*2),
	}
	for i, l := range b.Lights {
		p.Kinds[i] = int32(l.Kind)
		copy(p.Positions[i*3:], l.Position[:])
		copy(p.Directions[i*3:], l.Direction[:])
		copy(p.Diffuse[i*3:], l.Diffuse[:])
		copy(p.Specular[i*3:], l.Specular[:])
		copy(p.Attenuation[i*4:], []float32{l.Range, l.Constant, l.Linear, l.Quadratic})
		p.Cones[i*2+0] = l.CosInner
		p.Cones[i*2+1] = l.CosOuter
	}
	return p
}
