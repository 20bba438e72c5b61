package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Palette used by the overlay widgets.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}

	ColorPanelBg      = Color{0.06, 0.08, 0.12, 0.85}
	ColorPanelBorder  = Color{0.28, 0.34, 0.45, 1}
	ColorButtonNormal = Color{0.14, 0.17, 0.24, 1}
	ColorButtonHover  = Color{0.22, 0.27, 0.38, 1}
	ColorButtonActive = Color{0.12, 0.35, 0.55, 1}
	ColorInputBg      = Color{0.04, 0.05, 0.08, 1}
	ColorText         = Color{0.92, 0.92, 0.92, 1}
	ColorTextDim      = Color{0.55, 0.58, 0.65, 1}
	ColorHighlight    = Color{0.25, 0.65, 0.95, 1}
	ColorGood         = Color{0.3, 0.9, 0.4, 1}
	ColorWarn         = Color{1, 0.75, 0.2, 1}
)

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Lerp blends from c to o by t in [0, 1].
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}
