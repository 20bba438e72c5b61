package ui2d

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font/basicfont"
)

// Font is a fixed-width bitmap font. Glyphs are stacked vertically in a
// single-channel atlas texture, one cell per glyph.
type Font struct {
	face *basicfont.Face
	tex  uint32
}

// NewFont returns the built-in 7x13 font. Call Upload with a current GL
// context before drawing.
func NewFont() *Font {
	return &Font{face: basicfont.Face7x13}
}

// Upload creates the atlas texture.
func (f *Font) Upload() {
	b := f.face.Mask.Bounds()
	w, h := b.Dx(), b.Dy()
	atlas := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(atlas, atlas.Bounds(), f.face.Mask, b.Min, draw.Src)
	pix := atlas.Pix

	gl.GenTextures(1, &f.tex)
	gl.BindTexture(gl.TEXTURE_2D, f.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// TextureID returns the atlas texture, 0 before Upload.
func (f *Font) TextureID() uint32 {
	return f.tex
}

// Close deletes the atlas texture.
func (f *Font) Close() {
	if f.tex != 0 {
		gl.DeleteTextures(1, &f.tex)
		f.tex = 0
	}
}

// GlyphSize returns the advance and line height in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.face.Advance, f.face.Height
}

// glyphIndex maps r to its atlas cell, falling back to '?'.
func (f *Font) glyphIndex(r rune) int {
	for _, rr := range f.face.Ranges {
		if r >= rr.Low && r < rr.High {
			return rr.Offset + int(r-rr.Low)
		}
	}
	if r != '?' {
		return f.glyphIndex('?')
	}
	return 0
}

// GlyphUV returns the atlas coordinates of r. The glyph cell is Width
// pixels wide, narrower than the advance.
func (f *Font) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	cells := float32(f.face.Mask.Bounds().Dy()) / float32(f.face.Height)
	i := float32(f.glyphIndex(r))
	return 0, i / cells, 1, (i + 1) / cells
}

// CellWidth returns the pixel width of one atlas cell.
func (f *Font) CellWidth() int {
	return f.face.Width
}

// MeasureText returns the size of text drawn at scale. Newlines start a
// new line.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	adv, lh := f.GlyphSize()
	lines, col, widest := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			col = 0
			continue
		}
		col++
		widest = max(widest, col)
	}
	return float32(widest*adv) * scale, float32(lines*lh) * scale
}
