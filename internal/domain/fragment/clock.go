package fragment

import "time"

// Timer is a pending one-shot callback
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot callbacks
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with the time package
type RealClock struct{}

// AfterFunc implements Clock
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
