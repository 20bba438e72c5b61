// Package control routes platform input to the camera, the overlay, or the
// quit flag.
package control

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/engine/camera"
	"github.com/Faultbox/fpsgame/internal/engine/input"
	"github.com/Faultbox/fpsgame/internal/logger"
)

// Mode is the mouse routing mode.
type Mode int

const (
	// Released forwards mouse events to the overlay.
	Released Mode = iota
	// Captured turns relative mouse motion into camera look.
	Captured
)

func (m Mode) String() string {
	if m == Captured {
		return "captured"
	}
	return "released"
}

// Action is what one event means to the application.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionMoveIntent
	ActionLookIntent
	ActionMouseLook
	ActionCapture
	ActionRelease
	ActionToggleUI
	ActionToggleFullscreen
	ActionToggleDebug
	ActionScreenshot
	ActionResize
	ActionForwardUI
	ActionDiagnostic
)

var actionNames = [...]string{
	ActionNone:             "none",
	ActionQuit:             "quit",
	ActionMoveIntent:       "move-intent",
	ActionLookIntent:       "look-intent",
	ActionMouseLook:        "mouse-look",
	ActionCapture:          "capture",
	ActionRelease:          "release",
	ActionToggleUI:         "toggle-ui",
	ActionToggleFullscreen: "toggle-fullscreen",
	ActionToggleDebug:      "toggle-debug",
	ActionScreenshot:       "screenshot",
	ActionResize:           "resize",
	ActionForwardUI:        "forward-ui",
	ActionDiagnostic:       "diagnostic",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

var moveKeys = map[input.Key]camera.Move{
	input.KeyW: camera.MoveForward,
	input.KeyA: camera.MoveLeft,
	input.KeyS: camera.MoveBack,
	input.KeyD: camera.MoveRight,
}

var lookKeys = map[input.Key]camera.LookDir{
	input.KeyUp:    camera.LookUp,
	input.KeyLeft:  camera.LookLeft,
	input.KeyDown:  camera.LookDown,
	input.KeyRight: camera.LookRight,
}

// Camera receives intents and mouse look.
type Camera interface {
	SetIntent(m camera.Move, held bool)
	SetLook(d camera.LookDir, held bool)
	Look(dx, dy float32)
	ClearIntents()
}

// Overlay is the UI side of the router.
type Overlay interface {
	HandleEvent(ev input.Event) bool
	SetMenuVisible(visible bool)
	ToggleDebug()
	Resize(width, height int)
}

// Pointer is the platform mouse and window control.
type Pointer interface {
	SetRelativeMouseMode(on bool)
	MouseState() (x, y int)
	WarpMouse(x, y int)
	ToggleFullscreen() error
	// DrawableSize is the framebuffer size in pixels. It differs from the
	// window size carried by resize events on high-DPI displays.
	DrawableSize() (width, height int)
}

// Viewport is resized with the window.
type Viewport interface {
	Resize(width, height int)
}

// Targets are the consumers events are dispatched to.
type Targets struct {
	Camera  Camera
	Overlay Overlay
	Pointer Pointer
	Scene   Viewport
}

// Config holds router settings.
type Config struct {
	// WindowID is matched against window-close events.
	WindowID uint32
	// ShowOverlay starts in UI mode.
	ShowOverlay bool
}

// Router classifies events and applies them.
type Router struct {
	t      Targets
	cfg    Config
	mode   Mode
	ui     bool
	quit   bool
	shot   bool
	savedX int
	savedY int
	log    *zap.Logger
}

// New returns a router in capture mode. The pointer's relative mode is
// synced to the initial overlay state.
func New(cfg Config, t Targets) *Router {
	r := &Router{
		t:    t,
		cfg:  cfg,
		mode: Captured,
		ui:   cfg.ShowOverlay,
		log:  logger.L().Named("input"),
	}
	r.savedX, r.savedY = t.Pointer.MouseState()
	t.Pointer.SetRelativeMouseMode(!r.ui)
	t.Overlay.SetMenuVisible(r.ui)
	return r
}

// Mode returns the mouse routing mode.
func (r *Router) Mode() Mode {
	return r.mode
}

// OverlayVisible reports whether events go to the overlay.
func (r *Router) OverlayVisible() bool {
	return r.ui
}

// Quit reports whether a quit condition was seen.
func (r *Router) Quit() bool {
	return r.quit
}

// RequestQuit sets the quit flag.
func (r *Router) RequestQuit() {
	r.quit = true
}

// TakeScreenshot reports and clears a pending screenshot request.
func (r *Router) TakeScreenshot() bool {
	s := r.shot
	r.shot = false
	return s
}

// Classify returns the action ev maps to in the current state. It has no
// side effects.
func (r *Router) Classify(ev input.Event) Action {
	switch ev.Type {
	case input.EventQuit:
		return ActionQuit
	case input.EventWindowClose:
		if ev.WindowID == r.cfg.WindowID {
			return ActionQuit
		}
		return ActionNone
	case input.EventWindowResize:
		return ActionResize
	case input.EventFocusLost:
		return ActionRelease
	case input.EventFocusGained, input.EventMinimized, input.EventRestored:
		return ActionDiagnostic
	}

	if ev.Type == input.EventKeyDown {
		switch {
		case ev.Key == input.KeyEscape:
			return ActionQuit
		case ev.Key == input.KeyTab && !ev.Repeat:
			return ActionToggleUI
		case ev.Key == input.KeyReturn && ev.Mod&input.ModCtrl != 0 && !ev.Repeat:
			return ActionToggleFullscreen
		case ev.Key == input.KeyF12 && !ev.Repeat:
			return ActionScreenshot
		case ev.Key == input.KeyF8 && !ev.Repeat:
			if r.ui {
				return ActionToggleDebug
			}
			return ActionNone
		}
	}

	if r.ui {
		switch ev.Type {
		case input.EventKeyDown, input.EventKeyUp, input.EventMouseMove, input.EventMouseDown,
			input.EventMouseUp, input.EventMouseWheel, input.EventTextInput:
			return ActionForwardUI
		}
		return ActionNone
	}

	switch ev.Type {
	case input.EventKeyDown, input.EventKeyUp:
		if _, ok := moveKeys[ev.Key]; ok {
			return ActionMoveIntent
		}
		if _, ok := lookKeys[ev.Key]; ok {
			return ActionLookIntent
		}
	case input.EventMouseDown:
		if r.mode == Released {
			return ActionCapture
		}
	case input.EventMouseMove:
		if r.mode == Captured {
			return ActionMouseLook
		}
	}
	return ActionNone
}

// Dispatch classifies ev and applies it. It returns the action taken.
func (r *Router) Dispatch(ev input.Event) Action {
	a := r.Classify(ev)
	switch a {
	case ActionQuit:
		r.log.Info("quit requested", zap.Stringer("event", ev.Type))
		r.quit = true

	case ActionMoveIntent:
		r.t.Camera.SetIntent(moveKeys[ev.Key], ev.Type == input.EventKeyDown)

	case ActionLookIntent:
		r.t.Camera.SetLook(lookKeys[ev.Key], ev.Type == input.EventKeyDown)

	case ActionMouseLook:
		r.t.Camera.Look(float32(ev.XRel), float32(ev.YRel))

	case ActionCapture:
		r.mode = Captured
		r.log.Debug("mouse captured")

	case ActionRelease:
		if r.mode == Captured {
			r.mode = Released
			r.log.Debug("mouse released", zap.Stringer("event", ev.Type))
		}

	case ActionToggleUI:
		r.toggleUI()

	case ActionToggleFullscreen:
		if err := r.t.Pointer.ToggleFullscreen(); err != nil {
			r.log.Warn("fullscreen toggle failed", zap.Error(err))
		}

	case ActionToggleDebug:
		r.t.Overlay.ToggleDebug()

	case ActionScreenshot:
		r.shot = true

	case ActionResize:
		w, h := r.t.Pointer.DrawableSize()
		if w <= 0 || h <= 0 {
			w, h = ev.Width, ev.Height
		}
		r.log.Debug("viewport resized",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("window_width", ev.Width), zap.Int("window_height", ev.Height))
		r.t.Scene.Resize(w, h)
		r.t.Overlay.Resize(w, h)

	case ActionForwardUI:
		r.t.Overlay.HandleEvent(ev)

	case ActionDiagnostic:
		r.log.Debug("window event", zap.Stringer("event", ev.Type))
	}
	return a
}

// DispatchAll routes a batch of events, stopping at the first quit.
func (r *Router) DispatchAll(events []input.Event) {
	for _, ev := range events {
		if r.Dispatch(ev) == ActionQuit {
			return
		}
	}
}

// toggleUI flips overlay visibility. Capture mode is left alone. The UI
// cursor position is saved on the way into 3D and restored on the way back.
func (r *Router) toggleUI() {
	r.ui = !r.ui
	if r.ui {
		r.t.Camera.ClearIntents()
		r.t.Pointer.SetRelativeMouseMode(false)
		r.t.Pointer.WarpMouse(r.savedX, r.savedY)
	} else {
		r.savedX, r.savedY = r.t.Pointer.MouseState()
		r.t.Pointer.SetRelativeMouseMode(true)
	}
	r.t.Overlay.SetMenuVisible(r.ui)
	r.log.Debug("overlay toggled", zap.Bool("visible", r.ui), zap.Stringer("mode", r.mode))
}
