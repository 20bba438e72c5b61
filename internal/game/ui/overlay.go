// Package ui is the in-game overlay: frame statistics, the main menu and
// the debug panel, drawn with ui2d in the UI GL context.
package ui

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/fpsgame/internal/engine/camera"
	"github.com/Faultbox/fpsgame/internal/engine/glctx"
	"github.com/Faultbox/fpsgame/internal/engine/input"
	"github.com/Faultbox/fpsgame/internal/engine/stats"
	"github.com/Faultbox/fpsgame/internal/engine/ui2d"
)

const (
	menuID     = "menu"
	debugID    = "debug"
	menuWidth  = 300
	menuHeight = 360
	debugWidth = 340

	// springFPS is the fixed rate the menu spring is stepped at.
	springFPS = 60

	// frameBarMs is the average frame time that fills the frame bar.
	frameBarMs = 1000.0 / 30
	// frameBudgetMs is the 60 FPS budget; slower frames turn the bar amber.
	frameBudgetMs = 1000.0 / 60

	flashSeconds = 0.8
	toastSeconds = 2.5
)

// Controls are the scene operations the menu exposes.
type Controls interface {
	ResetFrameStats()
	SetShowBounds(show bool)
	ShowBounds() bool
}

// DebugInfo is shown in the F8 panel.
type DebugInfo struct {
	Pose     camera.State
	Captured bool
	Nodes    int
	Items    int
	Lights   int
	Skipped  int
}

// Options configure an Overlay.
type Options struct {
	ShowOnStart     bool
	SpringFrequency float64
	SpringDamping   float64
	// DebugInfo is polled every frame while the debug panel is visible.
	DebugInfo func() DebugInfo
}

// Overlay owns the UI state drawn on top of the 3D scene.
type Overlay struct {
	ctx      *ui2d.Context
	controls Controls
	data     FrameStatData
	info     func() DebugInfo

	menuVisible bool
	menuOffset  float64 // 0 when fully shown
	menuVel     float64
	spring      harmonica.Spring
	springAcc   float64

	debug bool

	flash      *gween.Tween
	flashAlpha float32

	toast      string
	toastTween *gween.Tween
	toastAlpha float32
}

// New creates an overlay drawing through ctx.
func New(ctx *ui2d.Context, controls Controls, opts Options) *Overlay {
	if opts.SpringFrequency <= 0 {
		opts.SpringFrequency = 6
	}
	if opts.SpringDamping <= 0 {
		opts.SpringDamping = 1
	}
	o := &Overlay{
		ctx:         ctx,
		controls:    controls,
		info:        opts.DebugInfo,
		menuVisible: opts.ShowOnStart,
		spring:      harmonica.NewSpring(harmonica.FPS(springFPS), opts.SpringFrequency, opts.SpringDamping),
	}
	if !o.menuVisible {
		o.menuOffset = o.hiddenOffset()
	}
	return o
}

// Close releases UI resources.
func (o *Overlay) Close() {
	o.ctx.Close()
}

// PushStats stores a telemetry sample and marks it dirty.
func (o *Overlay) PushStats(s stats.Snapshot, m stats.Metrics) {
	o.data.Set(s, m)
}

// Stats returns the telemetry model.
func (o *Overlay) Stats() *FrameStatData {
	return &o.data
}

// HandleEvent forwards an event to the widgets.
func (o *Overlay) HandleEvent(ev input.Event) bool {
	return o.ctx.Input().Apply(ev)
}

// SetMenuVisible shows or hides the main menu. The panel slides to its new
// position over the next frames.
func (o *Overlay) SetMenuVisible(visible bool) {
	o.menuVisible = visible
}

// MenuVisible reports whether the menu is shown or sliding in.
func (o *Overlay) MenuVisible() bool {
	return o.menuVisible
}

// ToggleDebug shows or hides the debug panel.
func (o *Overlay) ToggleDebug() {
	o.debug = !o.debug
}

// DebugVisible reports whether the debug panel is shown.
func (o *Overlay) DebugVisible() bool {
	return o.debug
}

// Resize sets the UI viewport.
func (o *Overlay) Resize(width, height int) {
	o.ctx.Resize(width, height)
}

// Notify shows a short message that fades out.
func (o *Overlay) Notify(msg string) {
	o.toast = msg
	o.toastTween = gween.New(1, 0, toastSeconds, ease.InQuad)
	o.toastAlpha = 1
}

// Update advances animations by dt seconds.
func (o *Overlay) Update(dt float64) {
	target := 0.0
	if !o.menuVisible {
		target = o.hiddenOffset()
	}
	o.springAcc += dt
	step := 1.0 / springFPS
	for o.springAcc >= step {
		o.menuOffset, o.menuVel = o.spring.Update(o.menuOffset, o.menuVel, target)
		o.springAcc -= step
	}

	if o.flash != nil {
		v, done := o.flash.Update(float32(dt))
		o.flashAlpha = v
		if done {
			o.flash = nil
			o.flashAlpha = 0
		}
	}
	if o.toastTween != nil {
		v, done := o.toastTween.Update(float32(dt))
		o.toastAlpha = v
		if done {
			o.toastTween = nil
			o.toastAlpha = 0
		}
	}
}

func (o *Overlay) hiddenOffset() float64 {
	return -(menuWidth + 20)
}

// menuOnScreen reports whether any part of the menu is visible.
func (o *Overlay) menuOnScreen() bool {
	return o.menuOffset > o.hiddenOffset()+1
}

// Render draws the overlay. The token must be the live UI-context token.
func (o *Overlay) Render(token glctx.Token) error {
	if err := token.Require(glctx.UI); err != nil {
		return err
	}
	o.draw()
	return nil
}

func (o *Overlay) draw() {
	o.ctx.Begin()
	if o.menuVisible || o.menuOnScreen() {
		o.drawMenu()
	} else {
		o.ctx.Forget(menuID)
	}
	if o.debug {
		o.drawDebug()
	} else {
		o.ctx.Forget(debugID)
	}
	if o.toastAlpha > 0 {
		o.ctx.Toast(o.toast, o.toastAlpha, ui2d.ColorGood)
	}
	o.ctx.End()
}

func (o *Overlay) drawMenu() {
	c := o.ctx
	c.BeginWindow(menuID, 10+float32(o.menuOffset), 10, menuWidth, menuHeight, "Frame Stats")
	defer c.EndWindow()

	for _, line := range o.data.Lines() {
		c.Row(26)
		c.Label(line)
	}

	c.Row(0)
	fill := ui2d.ColorGood
	if o.data.AvgMs > frameBudgetMs {
		fill = ui2d.ColorWarn
	}
	c.ProgressBar(float32(o.data.AvgMs/frameBarMs), 0, 22, fmt.Sprintf("%.1f ms", o.data.AvgMs), fill)

	c.Separator()
	c.Row(28)
	if c.Button("reset", 120, "Reset") {
		o.controls.ResetFrameStats()
		o.flash = gween.New(1, 0, flashSeconds, ease.OutQuad)
		o.flashAlpha = 1
	}
	if o.flashAlpha > 0 {
		c.LabelColored("reset", ui2d.ColorGood.WithAlpha(o.flashAlpha))
	}

	c.Row(22)
	if show := c.Checkbox("bounds", "Show bounds", o.controls.ShowBounds()); show != o.controls.ShowBounds() {
		o.controls.SetShowBounds(show)
	}

	c.Spacer(6)
	c.Row(20)
	c.LabelColored("TAB menu  F8 debug", ui2d.ColorTextDim)
}

func (o *Overlay) drawDebug() {
	c := o.ctx
	sw, _ := c.ScreenSize()
	c.BeginWindow(debugID, sw-debugWidth-10, 10, debugWidth, 200, "Debug")
	defer c.EndWindow()

	if o.info == nil {
		c.Row(20)
		c.LabelColored("no debug source", ui2d.ColorTextDim)
		return
	}
	info := o.info()
	p := info.Pose.Position
	mode := "released"
	if info.Captured {
		mode = "captured"
	}
	lines := []string{
		fmt.Sprintf("pos   %.1f %.1f %.1f", p[0], p[1], p[2]),
		fmt.Sprintf("yaw   %.1f", info.Pose.Yaw),
		fmt.Sprintf("pitch %.1f", info.Pose.Pitch),
		"mouse " + mode,
		fmt.Sprintf("nodes %d items %d", info.Nodes, info.Items),
		fmt.Sprintf("lights %d skipped %d", info.Lights, info.Skipped),
	}
	for _, l := range lines {
		c.Row(20)
		c.Label(l)
	}
}
