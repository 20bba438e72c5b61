package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

var keymap = map[sdl.Keycode]Key{
	sdl.K_ESCAPE:    KeyEscape,
	sdl.K_w:         KeyW,
	sdl.K_a:         KeyA,
	sdl.K_s:         KeyS,
	sdl.K_d:         KeyD,
	sdl.K_UP:        KeyUp,
	sdl.K_LEFT:      KeyLeft,
	sdl.K_DOWN:      KeyDown,
	sdl.K_RIGHT:     KeyRight,
	sdl.K_RETURN:    KeyReturn,
	sdl.K_KP_ENTER:  KeyReturn,
	sdl.K_TAB:       KeyTab,
	sdl.K_BACKSPACE: KeyBackspace,
	sdl.K_F8:        KeyF8,
	sdl.K_F12:       KeyF12,
	sdl.K_SPACE:     KeySpace,
}

func translateMod(m sdl.Keymod) Mod {
	var out Mod
	if m&sdl.KMOD_SHIFT != 0 {
		out |= ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= ModAlt
	}
	return out
}

// FromSDL converts an SDL event. The second result is false for event kinds
// the application does not consume.
func FromSDL(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		ev := Event{WindowID: e.WindowID}
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			ev.Type = EventWindowClose
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			ev.Type = EventWindowResize
			ev.Width, ev.Height = int(e.Data1), int(e.Data2)
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			ev.Type = EventFocusGained
		case sdl.WINDOWEVENT_FOCUS_LOST:
			ev.Type = EventFocusLost
		case sdl.WINDOWEVENT_MINIMIZED:
			ev.Type = EventMinimized
		case sdl.WINDOWEVENT_RESTORED:
			ev.Type = EventRestored
		default:
			return Event{}, false
		}
		return ev, true

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:      keymap[e.Keysym.Sym],
			Mod:      translateMod(sdl.Keymod(e.Keysym.Mod)),
			Repeat:   e.Repeat != 0,
			WindowID: e.WindowID,
		}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		} else {
			ev.Type = EventKeyUp
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:     EventMouseMove,
			WindowID: e.WindowID,
			X:        int(e.X),
			Y:        int(e.Y),
			XRel:     int(e.XRel),
			YRel:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			WindowID: e.WindowID,
			X:        int(e.X),
			Y:        int(e.Y),
			Button:   e.Button,
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
		} else {
			ev.Type = EventMouseUp
		}
		return ev, true

	case *sdl.MouseWheelEvent:
		return Event{
			Type:     EventMouseWheel,
			WindowID: e.WindowID,
			ScrollX:  float32(e.X),
			ScrollY:  float32(e.Y),
		}, true

	case *sdl.TextInputEvent:
		return Event{Type: EventTextInput, WindowID: e.WindowID, Text: e.GetText()}, true
	}
	return Event{}, false
}

// Input drains the SDL event queue once per frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Poll drains pending SDL events and returns the translated ones. The
// returned slice is reused by the next call.
func (i *Input) Poll() []Event {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := FromSDL(event); ok {
			i.events = append(i.events, ev)
		}
	}
	return i.events
}
