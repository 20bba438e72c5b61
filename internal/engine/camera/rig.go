// Package camera provides the first-person camera rig.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MoveSpeed is the translation speed in units per second.
	MoveSpeed = 25.0
	// LookRate is the keyboard look speed in degrees per second.
	LookRate = 50.0
	// MouseSensitivity is degrees of rotation per pixel of mouse motion.
	MouseSensitivity = 0.1
	// PitchLimit bounds pitch in degrees on both sides.
	PitchLimit = 89.0
)

// Move is a translational intent.
type Move int

const (
	MoveForward Move = iota
	MoveLeft
	MoveBack
	MoveRight
)

// LookDir is a look intent.
type LookDir int

const (
	LookUp LookDir = iota
	LookLeft
	LookDown
	LookRight
)

// Intents holds the held movement and look keys. Each flag is independent.
type Intents struct {
	Move [4]bool
	Look [4]bool
}

// State is the camera pose. Orientation is always derived from Yaw and Pitch.
type State struct {
	Position    mgl32.Vec3
	Yaw         float32 // degrees, unbounded
	Pitch       float32 // degrees, within ±PitchLimit
	Orientation mgl32.Quat
}

// Lens holds projection parameters.
type Lens struct {
	FovY float32 // degrees
	Near float32
	Far  float32
}

// Rig turns intents and mouse deltas into camera motion.
type Rig struct {
	state   State
	intents Intents
	lens    Lens
}

// NewRig returns a rig at pos looking down -Z.
func NewRig(pos mgl32.Vec3, lens Lens) *Rig {
	r := &Rig{lens: lens}
	r.state.Position = pos
	r.reorient()
	return r
}

// SetIntent sets or clears one movement flag.
func (r *Rig) SetIntent(m Move, held bool) {
	r.intents.Move[m] = held
}

// SetLook sets or clears one look flag.
func (r *Rig) SetLook(d LookDir, held bool) {
	r.intents.Look[d] = held
}

// Intents returns the current intent flags.
func (r *Rig) Intents() Intents {
	return r.intents
}

// ClearIntents releases every held flag.
func (r *Rig) ClearIntents() {
	r.intents = Intents{}
}

// Advance moves and turns the camera by dt seconds of held intents.
func (r *Rig) Advance(dt float32) {
	var local mgl32.Vec3
	if r.intents.Move[MoveForward] {
		local[2]--
	}
	if r.intents.Move[MoveBack] {
		local[2]++
	}
	if r.intents.Move[MoveLeft] {
		local[0]--
	}
	if r.intents.Move[MoveRight] {
		local[0]++
	}
	if local.Len() > 0 {
		dir := r.state.Orientation.Rotate(local.Normalize())
		r.state.Position = r.state.Position.Add(dir.Mul(MoveSpeed * dt))
	}

	var yaw, pitch float32
	if r.intents.Look[LookLeft] {
		yaw--
	}
	if r.intents.Look[LookRight] {
		yaw++
	}
	if r.intents.Look[LookDown] {
		pitch--
	}
	if r.intents.Look[LookUp] {
		pitch++
	}
	if yaw != 0 || pitch != 0 {
		// Positive input turns right and up; yaw and pitch grow the other way.
		r.turn(-yaw*LookRate*dt, pitch*LookRate*dt)
	}
}

// Look applies a relative mouse motion in pixels.
func (r *Rig) Look(dx, dy float32) {
	r.turn(-dx*MouseSensitivity, -dy*MouseSensitivity)
}

// turn is the single path for every orientation change.
func (r *Rig) turn(dYaw, dPitch float32) {
	r.state.Yaw += dYaw
	r.state.Pitch = ClampPitch(r.state.Pitch + dPitch)
	r.reorient()
}

func (r *Rig) reorient() {
	qYaw := mgl32.QuatRotate(mgl32.DegToRad(r.state.Yaw), mgl32.Vec3{0, 1, 0})
	qPitch := mgl32.QuatRotate(mgl32.DegToRad(r.state.Pitch), mgl32.Vec3{1, 0, 0})
	r.state.Orientation = qYaw.Mul(qPitch)
}

// ClampPitch limits p to ±PitchLimit.
func ClampPitch(p float32) float32 {
	return math32.Max(-PitchLimit, math32.Min(PitchLimit, p))
}

// SetPose places the camera.
func (r *Rig) SetPose(pos mgl32.Vec3, yaw, pitch float32) {
	r.state.Position = pos
	r.state.Yaw = yaw
	r.state.Pitch = ClampPitch(pitch)
	r.reorient()
}

// Pose returns the current camera state.
func (r *Rig) Pose() State {
	return r.state
}

// Forward returns the unit view direction.
func (r *Rig) Forward() mgl32.Vec3 {
	return r.state.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// ViewMatrix returns the world-to-camera transform.
func (r *Rig) ViewMatrix() mgl32.Mat4 {
	rot := r.state.Orientation.Conjugate().Mat4()
	p := r.state.Position
	return rot.Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}

// ProjectionMatrix returns the perspective projection for aspect.
func (r *Rig) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(r.lens.FovY), aspect, r.lens.Near, r.lens.Far)
}

// Lens returns the projection parameters.
func (r *Rig) Lens() Lens {
	return r.lens
}
