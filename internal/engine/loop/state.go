package loop

import "github.com/Faultbox/beacon-earth/pkg/math"

// RunState is the render thread's lifecycle state.
type RunState int

const (
	// Paused is the initial state. The render thread blocks until the
	// state changes.
	Paused RunState = iota
	// Running renders frames at the target frame rate.
	Running
	// ExitRequested is terminal. The render thread shuts the renderer
	// down and returns.
	ExitRequested
)

func (s RunState) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case ExitRequested:
		return "exit-requested"
	default:
		return "unknown"
	}
}

// SceneState is the animation state advanced once per rendered frame. It
// is owned by the render thread.
type SceneState struct {
	// Time is the total running time in seconds. Paused time is excluded.
	Time float64
	// Angle is the globe rotation in degrees, kept in [0, 360).
	Angle float64
	// RotationSpeed is in degrees per second.
	RotationSpeed float64
}

// Advance moves the animation forward by dt seconds. Non-positive dt is
// ignored.
func (s *SceneState) Advance(dt float64) {
	if !(dt > 0) {
		return
	}
	s.Time += dt
	s.Angle = math.WrapDegrees(s.Angle + s.RotationSpeed*dt)
}
