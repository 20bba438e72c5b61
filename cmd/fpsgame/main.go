// Package main is the entry point for the FPS demo.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/fpsgame/internal/config"
	"github.com/Faultbox/fpsgame/internal/engine/camera"
	"github.com/Faultbox/fpsgame/internal/engine/debug"
	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/renderer"
	"github.com/Faultbox/fpsgame/internal/engine/renderer/shaders"
	"github.com/Faultbox/fpsgame/internal/engine/sceneimport"
	"github.com/Faultbox/fpsgame/internal/engine/shader"
	"github.com/Faultbox/fpsgame/internal/engine/ui2d"
	"github.com/Faultbox/fpsgame/internal/engine/window"
	"github.com/Faultbox/fpsgame/internal/game"
	"github.com/Faultbox/fpsgame/internal/game/control"
	"github.com/Faultbox/fpsgame/internal/game/ui"
	"github.com/Faultbox/fpsgame/internal/logger"
)

const (
	title          = "FPS Game"
	screenshotDir  = "screenshots"
	screenshotName = "fpsgame"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== " + title + " ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	err = run(cfg)
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before exit.
func run(cfg *config.Config) error {
	// Engine files are read before any window exists.
	settings, err := config.LoadRenderSettings(cfg.Renderer.ConfigFile)
	if err != nil {
		logger.Error("renderer config", zap.Error(err))
		return err
	}
	resources, err := config.LoadResources(cfg.Renderer.ResourcesFile)
	if err != nil {
		logger.Error("resource locations", zap.Error(err))
		return err
	}

	lib := shader.NewLibrary(shaders.Builtin())
	if err := lib.Scan(resources); err != nil {
		logger.Error("scanning shader locations", zap.Error(err))
		return err
	}

	win, err := window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		HighDPI:    cfg.Graphics.HighDPI,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		return err
	}
	defer win.Close()

	contexts := glctx.NewSwitcher(win)
	width, height := win.DrawableSize()

	// Scene context: renderer, camera, imported scene.
	if _, err := contexts.Acquire(glctx.Scene); err != nil {
		logger.Error("scene context", zap.Error(err))
		return err
	}
	rend, err := renderer.New(renderer.Config{Width: width, Height: height, Settings: settings}, lib)
	if err != nil {
		logger.Error("failed to create renderer", zap.Error(err))
		return err
	}
	defer func() {
		if _, err := contexts.Acquire(glctx.Scene); err == nil {
			rend.Close()
		}
	}()

	rig := camera.NewRig(mgl32.Vec3(cfg.Scene.CameraStart), camera.Lens{
		FovY: settings.FovY,
		Near: settings.NearClip,
		Far:  settings.FarClip,
	})
	rend.SetCamera(rig)

	report := importScene(rend, cfg.Scene.Asset)

	// UI context: overlay.
	if _, err := contexts.Acquire(glctx.UI); err != nil {
		logger.Error("ui context", zap.Error(err))
		return err
	}
	uiCtx, err := ui2d.NewContext(width, height)
	if err != nil {
		logger.Error("failed to create UI", zap.Error(err))
		return err
	}

	var router *control.Router
	overlay := ui.New(uiCtx, rend, ui.Options{
		ShowOnStart:     cfg.UI.ShowOnStart,
		SpringFrequency: cfg.UI.MenuSpringFrequency,
		SpringDamping:   cfg.UI.MenuSpringDamping,
		DebugInfo: func() ui.DebugInfo {
			return ui.DebugInfo{
				Pose:     rig.Pose(),
				Captured: router.Mode() == control.Captured,
				Nodes:    report.Nodes,
				Items:    report.Items,
				Lights:   report.Lights,
				Skipped:  len(report.Skipped),
			}
		},
	})
	defer func() {
		if _, err := contexts.Acquire(glctx.UI); err == nil {
			overlay.Close()
		}
	}()

	router = control.New(control.Config{
		WindowID:    win.ID(),
		ShowOverlay: cfg.UI.ShowOnStart,
	}, control.Targets{
		Camera:  rig,
		Overlay: overlay,
		Pointer: win,
		Scene:   rend,
	})

	g := game.New(game.Config{StatsInterval: cfg.UI.StatsIntervalFrames}, game.Deps{
		Platform:    win,
		Contexts:    contexts,
		Router:      router,
		Camera:      rig,
		Scene:       rend,
		Overlay:     overlay,
		Screenshots: debug.NewScreenshots(screenshotDir, screenshotName),
	})

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		return err
	}

	logger.Info("game closed normally", zap.Uint64("frames", g.Frames()))
	return nil
}

// importScene loads the configured asset. A failed import leaves the scene
// empty and the demo still runs.
func importScene(rend *renderer.Renderer, path string) sceneimport.Report {
	if path == "" {
		logger.Warn("no scene asset configured")
		return sceneimport.Report{}
	}

	walker := sceneimport.New(rend, sceneimport.WithLogger(logger.L()))
	report, err := walker.Import(path, rend.RootNode())
	if err != nil {
		logger.Error("scene import failed", zap.String("path", path), zap.Error(err))
		return report
	}

	logger.Info("scene imported",
		zap.String("path", path),
		zap.Int("nodes", report.Nodes),
		zap.Int("meshes", report.Meshes),
		zap.Int("lights", report.Lights),
		zap.Int("triangles", report.Triangles),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report
}
