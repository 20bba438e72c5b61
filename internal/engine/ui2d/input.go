package ui2d

import "github.com/Faultbox/fpsgame/internal/engine/input"

// InputState holds the current input state for the UI.
type InputState struct {
	// Mouse state
	MouseX      float32
	MouseY      float32
	MouseDeltaX float32
	MouseDeltaY float32

	// Mouse buttons (current frame)
	MouseLeftDown  bool
	MouseRightDown bool

	// Mouse buttons (pressed this frame)
	MouseLeftPressed  bool
	MouseRightPressed bool

	// Mouse buttons (released this frame)
	MouseLeftReleased  bool
	MouseRightReleased bool

	// MouseLeftClicked is set by a button-down event and consumed by the
	// first widget that claims it, so a press and release inside one frame
	// still registers.
	MouseLeftClicked bool

	// Scroll
	ScrollX float32
	ScrollY float32

	// Text input
	TextInput string

	// Previous frame state for edge detection
	prevMouseLeft  bool
	prevMouseRight bool
	prevMouseX     float32
	prevMouseY     float32
}

// Apply folds one input event into the state. It reports whether the event
// is one the UI consumes.
func (i *InputState) Apply(ev input.Event) bool {
	switch ev.Type {
	case input.EventMouseMove:
		i.MouseX, i.MouseY = float32(ev.X), float32(ev.Y)
	case input.EventMouseDown, input.EventMouseUp:
		down := ev.Type == input.EventMouseDown
		i.MouseX, i.MouseY = float32(ev.X), float32(ev.Y)
		switch ev.Button {
		case input.ButtonLeft:
			i.MouseLeftDown = down
			if down {
				i.MouseLeftClicked = true
			}
		case input.ButtonRight:
			i.MouseRightDown = down
		}
	case input.EventMouseWheel:
		i.ScrollX += ev.ScrollX
		i.ScrollY += ev.ScrollY
	case input.EventTextInput:
		i.TextInput += ev.Text
	default:
		return false
	}
	return true
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after applying events.
func (i *InputState) Update() {
	i.MouseDeltaX = i.MouseX - i.prevMouseX
	i.MouseDeltaY = i.MouseY - i.prevMouseY

	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseRightPressed = i.MouseRightDown && !i.prevMouseRight
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.MouseRightReleased = !i.MouseRightDown && i.prevMouseRight

	i.prevMouseLeft = i.MouseLeftDown
	i.prevMouseRight = i.MouseRightDown
	i.prevMouseX = i.MouseX
	i.prevMouseY = i.MouseY
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.TextInput = ""
	i.ScrollX = 0
	i.ScrollY = 0
	i.MouseLeftClicked = false
}
