package clock

import "time"

// Clocker abstracts the wall clock so tests can pin time.
type Clocker interface {
	Now() time.Time
}

type systemClock struct{}

// New returns a Clocker backed by the system clock.
func New() Clocker {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
