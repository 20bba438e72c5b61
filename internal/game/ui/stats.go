package ui

import (
	"fmt"

	"github.com/Faultbox/fpsgame/internal/engine/stats"
)

// FrameStatData is the telemetry shown in the menu. Set marks it dirty;
// the formatted lines are rebuilt only then.
type FrameStatData struct {
	FPS      float64
	AvgMs    float64
	BestMs   float64
	WorstMs  float64
	Faces    int
	Vertices int

	dirty bool
	lines []string
}

// Set replaces the sample and marks the data dirty.
func (d *FrameStatData) Set(s stats.Snapshot, m stats.Metrics) {
	d.FPS = s.FPS
	d.AvgMs = s.AvgMs
	d.BestMs = s.BestMs
	d.WorstMs = s.WorstMs
	d.Faces = m.Faces
	d.Vertices = m.Vertices
	d.dirty = true
}

// Dirty reports whether Set was called since the lines were last built.
func (d *FrameStatData) Dirty() bool {
	return d.dirty
}

// Lines returns the display lines, rebuilding them if dirty. A rebuild
// allocates a new slice; earlier results are never overwritten.
func (d *FrameStatData) Lines() []string {
	if d.dirty || d.lines == nil {
		d.lines = append([]string(nil),
			fmt.Sprintf("FPS:      %.1f", d.FPS),
			fmt.Sprintf("Avg:      %.2f ms", d.AvgMs),
			fmt.Sprintf("Best:     %.2f ms", d.BestMs),
			fmt.Sprintf("Worst:    %.2f ms", d.WorstMs),
			fmt.Sprintf("Faces:    %d", d.Faces),
			fmt.Sprintf("Vertices: %d", d.Vertices),
		)
		d.dirty = false
	}
	return d.lines
}
