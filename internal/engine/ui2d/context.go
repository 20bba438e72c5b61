package ui2d

import "fmt"

// textScale doubles the 7x13 glyphs for readability.
const textScale = float32(2.0)

// Canvas receives the draw calls issued by widgets. Renderer implements it.
type Canvas interface {
	Begin()
	End()
	Resize(width, height int)
	ScreenSize() (int, int)
	DrawRect(x, y, w, h float32, c Color)
	DrawRectOutline(x, y, w, h, thickness float32, c Color)
	DrawText(x, y float32, text string, scale float32, c Color)
	MeasureText(text string, scale float32) (float32, float32)
}

// Context is the main UI context that manages layout and input.
type Context struct {
	canvas Canvas
	closer func()
	input  *InputState

	// Active/hot widget tracking for interaction
	hotWidget    string
	activeWidget string

	windows       map[string]*WindowState
	currentWindow *WindowState

	// Layout state
	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState holds state for a UI window.
type WindowState struct {
	ID   string
	X, Y float32
	W, H float32
}

// NewContext creates a UI context drawing through a new GL renderer.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	c := NewContextWith(r)
	c.closer = r.Close
	return c, nil
}

// NewContextWith creates a UI context drawing onto canvas.
func NewContextWith(canvas Canvas) *Context {
	return &Context{
		canvas:  canvas,
		input:   &InputState{},
		windows: make(map[string]*WindowState),
	}
}

// Close releases resources.
func (c *Context) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Canvas returns the underlying canvas.
func (c *Context) Canvas() Canvas {
	return c.canvas
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.canvas.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.canvas.Begin()
	c.hotWidget = ""
}

// End finishes the UI frame.
func (c *Context) End() {
	c.canvas.End()
	c.input.EndFrame()
}

// BeginWindow starts a window with a title bar. The position is taken from
// the arguments every frame so callers can animate it.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id}
		c.windows[id] = ws
	}
	ws.X, ws.Y, ws.W, ws.H = x, y, w, h
	c.currentWindow = ws

	titleBarH := float32(25)
	c.canvas.DrawRect(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg)
	c.canvas.DrawRectOutline(ws.X, ws.Y, ws.W, ws.H, 1, ColorPanelBorder)
	c.canvas.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorButtonNormal)

	_, textH := c.canvas.MeasureText(title, textScale)
	c.canvas.DrawText(ws.X+8, ws.Y+(titleBarH-textH)/2, title, textScale, ColorText)

	c.cursorX = ws.X + 8
	c.cursorY = ws.Y + titleBarH + 8
	c.rowH = 0
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	c.currentWindow = nil
}

// Forget drops the state of a window that is no longer drawn.
func (c *Context) Forget(id string) {
	delete(c.windows, id)
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + 8
	c.cursorY += c.rowH + 4
	c.rowH = height
}

// Button draws a button and returns true if clicked.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x, y, h := c.cursorX, c.cursorY, c.rowH
	if h == 0 {
		h = 28
	}
	if width == 0 {
		width = c.currentWindow.W - 16
	}

	fullID := c.currentWindow.ID + "_" + id
	hovered := Rect{x, y, width, h}.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = fullID
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = fullID
			clicked = true
			c.input.MouseLeftClicked = false
		}
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	color := ColorButtonNormal
	if c.activeWidget == fullID {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}

	c.canvas.DrawRect(x, y, width, h, color)
	c.canvas.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)

	textW, textH := c.canvas.MeasureText(label, textScale)
	c.canvas.DrawText(x+(width-textW)/2, y+(h-textH)/2, label, textScale, ColorText)

	c.cursorX += width + 4
	return clicked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	c.canvas.DrawText(c.cursorX, c.cursorY, text, textScale, color)
	w, _ := c.canvas.MeasureText(text, textScale)
	c.cursorX += w + 4
}

// Checkbox draws a checkbox and returns its new state.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.currentWindow == nil {
		return checked
	}

	x, y := c.cursorX, c.cursorY
	boxSize := float32(18)
	fullID := c.currentWindow.ID + "_" + id
	hovered := Rect{x, y, boxSize, boxSize}.Contains(c.input.MouseX, c.input.MouseY)

	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = fullID
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		if hovered {
			checked = !checked
		}
		c.activeWidget = ""
	}

	bg := ColorInputBg
	if hovered {
		bg = ColorButtonHover
	}
	c.canvas.DrawRect(x, y, boxSize, boxSize, bg)
	c.canvas.DrawRectOutline(x, y, boxSize, boxSize, 1, ColorPanelBorder)
	if checked {
		c.canvas.DrawRect(x+4, y+4, boxSize-8, boxSize-8, ColorHighlight)
	}

	labelW, textH := c.canvas.MeasureText(label, textScale)
	c.canvas.DrawText(x+boxSize+8, y+(boxSize-textH)/2, label, textScale, ColorText)

	c.cursorX += boxSize + 8 + labelW + 8
	return checked
}

// Spacer adds vertical space.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Separator draws a horizontal separator line.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + 4
	c.rowH = 0
	x := c.currentWindow.X + 8
	c.canvas.DrawRect(x, c.cursorY, c.currentWindow.W-16, 1, ColorPanelBorder)
	c.cursorY += 8
	c.cursorX = x
}

// ProgressBar draws a bar filled to fraction with an optional label.
func (c *Context) ProgressBar(fraction float32, width, height float32, label string, fill Color) {
	if c.currentWindow == nil {
		return
	}

	x, y := c.cursorX, c.cursorY
	if height == 0 {
		height = 20
	}
	if width == 0 {
		width = c.currentWindow.W - 16
	}
	fraction = max(0, min(1, fraction))

	c.canvas.DrawRect(x, y, width, height, ColorInputBg)
	c.canvas.DrawRectOutline(x, y, width, height, 1, ColorPanelBorder)
	if fw := (width - 2) * fraction; fw > 0 {
		c.canvas.DrawRect(x+1, y+1, fw, height-2, fill)
	}
	if label != "" {
		textW, textH := c.canvas.MeasureText(label, textScale)
		c.canvas.DrawText(x+(width-textW)/2, y+(height-textH)/2, label, textScale, ColorText)
	}

	c.cursorX = c.currentWindow.X + 8
	c.cursorY += height + 4
}

// Toast draws a message box centred horizontally near the bottom of the
// screen. alpha fades the whole box.
func (c *Context) Toast(text string, alpha float32, color Color) {
	if alpha <= 0 {
		return
	}
	sw, sh := c.ScreenSize()
	textW, textH := c.canvas.MeasureText(text, textScale)
	w := textW + 20
	x, y := (sw-w)/2, sh-60
	c.canvas.DrawRect(x, y, w, textH+10, ColorPanelBg.WithAlpha(0.8*alpha))
	c.canvas.DrawText(x+10, y+5, text, textScale, color.WithAlpha(color.A*alpha))
}

// ScreenSize returns the current screen dimensions.
func (c *Context) ScreenSize() (float32, float32) {
	w, h := c.canvas.ScreenSize()
	return float32(w), float32(h)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
