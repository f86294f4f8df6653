package loop

import "time"

// Clock is the time source used for frame pacing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
