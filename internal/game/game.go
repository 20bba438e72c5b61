// Package game implements the main frame loop.
package game

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/engine/debug"
	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/input"
	"github.com/Faultbox/fpsgame/internal/engine/stats"
	"github.com/Faultbox/fpsgame/internal/logger"
)

// Config holds frame loop settings.
type Config struct {
	// StatsInterval is the number of frames between telemetry samples.
	StatsInterval int
}

// SceneRenderer draws the 3D frame and exposes its counters.
type SceneRenderer interface {
	RenderOneFrame(token glctx.Token) error
	FrameStats() stats.Snapshot
	Metrics() stats.Metrics
}

// Overlay is the UI drawn over the scene.
type Overlay interface {
	Update(dt float64)
	Render(token glctx.Token) error
	PushStats(s stats.Snapshot, m stats.Metrics)
	Notify(msg string)
}

// Camera is advanced once per frame.
type Camera interface {
	Advance(dt float32)
}

// Router consumes the frame's input events.
type Router interface {
	DispatchAll(events []input.Event)
	Quit() bool
	RequestQuit()
	TakeScreenshot() bool
}

// Platform is the window side of the loop.
type Platform interface {
	Poll() []input.Event
	Clear()
	Swap()
	ReadPixels() (pixels []byte, width, height int, err error)
}

// Deps are the subsystems the loop drives.
type Deps struct {
	Platform    Platform
	Contexts    *glctx.Switcher
	Router      Router
	Camera      Camera
	Scene       SceneRenderer
	Overlay     Overlay
	Screenshots *debug.Screenshots
}

// Game is the main game instance.
type Game struct {
	config Config
	d      Deps
	now    func() time.Time
	last   time.Time
	frames uint64
	log    *zap.Logger
}

// New creates the frame loop.
func New(cfg Config, d Deps) *Game {
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = 20
	}
	g := &Game{
		config: cfg,
		d:      d,
		now:    time.Now,
		log:    logger.L().Named("game"),
	}
	g.last = g.now()
	return g
}

// Frames returns the number of completed frames.
func (g *Game) Frames() uint64 {
	return g.frames
}

// Run steps frames until a quit is requested. A frame that fails ends the
// loop and its error is returned.
func (g *Game) Run() error {
	g.log.Info("starting frame loop", zap.Int("stats_interval", g.config.StatsInterval))
	g.last = g.now()

	for !g.d.Router.Quit() {
		if err := g.Step(); err != nil {
			g.d.Router.RequestQuit()
			g.log.Error("frame failed", zap.Uint64("frame", g.frames), zap.Error(err))
			return err
		}
	}

	g.log.Info("frame loop stopped", zap.Uint64("frames", g.frames))
	return nil
}

// Step runs one frame. A quit seen while routing input still lets the frame
// finish; Run checks the flag before the next one.
func (g *Game) Step() error {
	now := g.now()
	dt := now.Sub(g.last).Seconds()
	g.last = now

	// 1. Input
	g.d.Router.DispatchAll(g.d.Platform.Poll())

	// 2. Update
	g.d.Camera.Advance(float32(dt))
	g.frames++
	if g.frames%uint64(g.config.StatsInterval) == 0 {
		g.d.Overlay.PushStats(g.d.Scene.FrameStats(), g.d.Scene.Metrics())
	}
	g.d.Overlay.Update(dt)

	// 3. Render, scene first then UI
	g.d.Platform.Clear()

	tok, err := g.d.Contexts.Acquire(glctx.Scene)
	if err != nil {
		return err
	}
	if err := g.d.Scene.RenderOneFrame(tok); err != nil {
		return fmt.Errorf("scene render: %w", err)
	}

	tok, err = g.d.Contexts.Acquire(glctx.UI)
	if err != nil {
		return err
	}
	if err := g.d.Overlay.Render(tok); err != nil {
		return fmt.Errorf("ui render: %w", err)
	}

	if g.d.Router.TakeScreenshot() {
		g.screenshot()
	}

	// 4. Present
	g.d.Platform.Swap()
	return nil
}

// screenshot reads back the finished frame. Failures are reported, not fatal.
func (g *Game) screenshot() {
	if g.d.Screenshots == nil {
		return
	}
	pixels, w, h, err := g.d.Platform.ReadPixels()
	if err == nil {
		var path string
		path, err = g.d.Screenshots.Save(pixels, w, h)
		if err == nil {
			g.log.Info("screenshot saved", zap.String("path", path))
			g.d.Overlay.Notify("Saved " + filepath.Base(path))
			return
		}
	}
	g.log.Warn("screenshot failed", zap.Error(err))
	g.d.Overlay.Notify("Screenshot failed")
}
