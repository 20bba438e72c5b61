// Package stats keeps rolling frame-time statistics.
package stats

import "time"

// DefaultWindow is the number of frames in the rolling average.
const DefaultWindow = 60

// Snapshot is a point-in-time view of frame statistics. Times are in
// milliseconds.
type Snapshot struct {
	FPS     float64
	AvgMs   float64
	BestMs  float64
	WorstMs float64
	Frames  uint64
}

// Metrics are per-frame rendering counters.
type Metrics struct {
	Faces     int
	Vertices  int
	DrawCalls int
}

// FrameStats tracks a rolling average plus best and worst frame times
// since the last Reset.
type FrameStats struct {
	ring   []time.Duration
	next   int
	filled int
	sum    time.Duration
	best   time.Duration
	worst  time.Duration
	frames uint64
}

// New returns stats averaging over window frames.
func New(window int) *FrameStats {
	if window <= 0 {
		window = DefaultWindow
	}
	return &FrameStats{ring: make([]time.Duration, window)}
}

// Record adds one frame time.
func (s *FrameStats) Record(d time.Duration) {
	if s.filled == len(s.ring) {
		s.sum -= s.ring[s.next]
	} else {
		s.filled++
	}
	s.ring[s.next] = d
	s.sum += d
	s.next = (s.next + 1) % len(s.ring)

	if s.frames == 0 || d < s.best {
		s.best = d
	}
	if d > s.worst {
		s.worst = d
	}
	s.frames++
}

// Snapshot returns the current statistics.
func (s *FrameStats) Snapshot() Snapshot {
	snap := Snapshot{Frames: s.frames}
	if s.filled == 0 {
		return snap
	}
	avg := s.sum / time.Duration(s.filled)
	snap.AvgMs = ms(avg)
	snap.BestMs = ms(s.best)
	snap.WorstMs = ms(s.worst)
	if avg > 0 {
		snap.FPS = float64(time.Second) / float64(avg)
	}
	return snap
}

// Reset clears all recorded frames.
func (s *FrameStats) Reset() {
	clear(s.ring)
	s.next, s.filled, s.sum = 0, 0, 0
	s.best, s.worst, s.frames = 0, 0, 0
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
