// Package input translates platform events into backend-neutral events.
package input

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventTextInput
	EventWindowClose
	EventWindowResize
	EventFocusGained
	EventFocusLost
	EventMinimized
	EventRestored
)

// Key identifies a keyboard key.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyLeft
	KeyDown
	KeyRight
	KeyReturn
	KeyTab
	KeyBackspace
	KeyF8
	KeyF12
	KeySpace
)

// Mod is a keyboard modifier mask.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event is one input or window event.
type Event struct {
	Type     EventType
	Key      Key
	Mod      Mod
	Repeat   bool
	WindowID uint32

	// Mouse position, and relative motion for EventMouseMove.
	X, Y       int
	XRel, YRel int
	Button     uint8

	// New window size for EventWindowResize, in screen coordinates.
	Width, Height int

	// Wheel delta for EventMouseWheel.
	ScrollX, ScrollY float32

	Text string
}

// IsWindowEvent reports whether the event concerns the window rather than
// keyboard or mouse input.
func (e Event) IsWindowEvent() bool {
	switch e.Type {
	case EventWindowClose, EventWindowResize, EventFocusGained, EventFocusLost, EventMinimized, EventRestored:
		return true
	}
	return false
}

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventMouseWheel:
		return "mouse-wheel"
	case EventTextInput:
		return "text"
	case EventWindowClose:
		return "window-close"
	case EventWindowResize:
		return "window-resize"
	case EventFocusGained:
		return "focus-gained"
	case EventFocusLost:
		return "focus-lost"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	default:
		return "none"
	}
}
