// Package window handles the SDL2 window and its two OpenGL contexts.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/input"
	"github.com/Faultbox/fpsgame/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	HighDPI    bool
}

// Window wraps the SDL2 window, one GL context per glctx.ID, and the event
// queue.
type Window struct {
	config     Config
	sdlWindow  *sdl.Window
	contexts   map[glctx.ID]sdl.GLContext
	input      *input.Input
	fullscreen bool
}

// New creates the window and both GL contexts. The UI context is current
// on return.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config:     cfg,
		contexts:   make(map[glctx.ID]sdl.GLContext, 2),
		input:      input.New(),
		fullscreen: cfg.Fullscreen,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.HighDPI {
		flags |= sdl.WINDOW_ALLOW_HIGHDPI
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	// Scene first, then UI. Each new context becomes current.
	for _, id := range []glctx.ID{glctx.Scene, glctx.UI} {
		ctx, err := w.sdlWindow.GLCreateContext()
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("SDL_GL_CreateContext (%s) failed: %w", id, err)
		}
		w.contexts[id] = ctx
		w.setSwapInterval()
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("contexts", len(w.contexts)),
	)

	return w, nil
}

func (w *Window) setSwapInterval() {
	if w.config.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			logger.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}
}

// MakeCurrent binds the context for id to the window.
func (w *Window) MakeCurrent(id glctx.ID) error {
	ctx, ok := w.contexts[id]
	if !ok {
		return fmt.Errorf("no %s context", id)
	}
	return w.sdlWindow.GLMakeCurrent(ctx)
}

// Close destroys the contexts and the window and shuts SDL2 down.
func (w *Window) Close() {
	logger.Info("closing window")

	for id, ctx := range w.contexts {
		sdl.GLDeleteContext(ctx)
		delete(w.contexts, id)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}

	sdl.Quit()
}

// ID returns the SDL window id carried by this window's events.
func (w *Window) ID() uint32 {
	id, err := w.sdlWindow.GetID()
	if err != nil {
		logger.Warn("window id unavailable", zap.Error(err))
	}
	return id
}

// Poll drains the event queue.
func (w *Window) Poll() []input.Event {
	return w.input.Poll()
}

// Clear clears the default framebuffer on the current context.
func (w *Window) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Swap presents the frame.
func (w *Window) Swap() {
	w.sdlWindow.GLSwap()
}

// DrawableSize returns the framebuffer size in pixels.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetRelativeMouseMode hides the cursor and reports only relative motion.
func (w *Window) SetRelativeMouseMode(on bool) {
	if sdl.SetRelativeMouseMode(on) != 0 {
		logger.Warn("relative mouse mode unavailable", zap.Bool("on", on))
	}
}

// MouseState returns the cursor position inside the window.
func (w *Window) MouseState() (int, int) {
	x, y, _ := sdl.GetMouseState()
	return int(x), int(y)
}

// WarpMouse moves the cursor inside the window.
func (w *Window) WarpMouse(x, y int) {
	w.sdlWindow.WarpMouseInWindow(int32(x), int32(y))
}

// ToggleFullscreen switches between windowed and desktop fullscreen. The
// drawable size change arrives later as a resize event.
func (w *Window) ToggleFullscreen() error {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdlWindow.SetFullscreen(flags); err != nil {
		return fmt.Errorf("SDL_SetWindowFullscreen failed: %w", err)
	}
	w.fullscreen = !w.fullscreen
	logger.Debug("fullscreen toggled", zap.Bool("fullscreen", w.fullscreen))
	return nil
}

// ReadPixels reads the default framebuffer as bottom-up RGBA.
func (w *Window) ReadPixels() ([]byte, int, int, error) {
	width, height := w.DrawableSize()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("empty drawable %dx%d", width, height)
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, 0, 0, fmt.Errorf("glReadPixels: error 0x%x", e)
	}
	return pixels, width, height, nil
}
