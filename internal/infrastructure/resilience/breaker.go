package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen is returned while the breaker rejects calls
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyRequests is returned when the half-open probe quota is used up
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Probes is the number of calls let through while half-open
	Probes uint32
	// Window is how long failures are counted in the closed state
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing
	Cooldown time.Duration
	// Trip decides whether the closed breaker opens after a failure
	Trip func(c Counts) bool
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from, to State)
	// Now overrides the time source
	Now func() time.Time
}

// Counts holds the statistics of the current window
type Counts struct {
	Calls                uint32
	Successes            uint32
	Failures             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker guards calls to an unreliable upstream
type Breaker struct {
	name     string
	settings Settings

	mu     sync.Mutex
	state  State
	counts Counts
	epoch  uint64
	until  time.Time
}

// New creates a circuit breaker. Zero settings trip after five consecutive
// failures and probe once after thirty seconds.
func New(name string, settings Settings) *Breaker {
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	if settings.Window == 0 {
		settings.Window = time.Minute
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Trip == nil {
		settings.Trip = func(c Counts) bool {
			return c.ConsecutiveFailures >= 5
		}
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
		until:    settings.Now().Add(settings.Window),
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.advance(b.settings.Now())
}

// Counts returns a copy of the current window's counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Execute runs fn through the breaker. A rejected call returns the zero value
// and ErrCircuitOpen or ErrTooManyRequests without invoking fn.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	epoch, err := b.admit()
	if err != nil {
		return zero, err
	}

	defer func() {
		if e := recover(); e != nil {
			b.settle(epoch, false)
			panic(e)
		}
	}()

	result, err := fn()
	b.settle(epoch, err == nil)
	return result, err
}

// Do runs fn through the breaker
func (b *Breaker) Do(fn func() error) error {
	_, err := Execute(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.advance(b.settings.Now()) {
	case StateOpen:
		return b.epoch, ErrCircuitOpen
	case StateHalfOpen:
		if b.counts.Calls >= b.settings.Probes {
			return b.epoch, ErrTooManyRequests
		}
	}
	b.counts.Calls++
	return b.epoch, nil
}

// settle records an outcome unless the breaker moved on since admit
func (b *Breaker) settle(epoch uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.settings.Now()
	state := b.advance(now)
	if epoch != b.epoch {
		return
	}

	if ok {
		b.counts.Successes++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.Probes {
			b.transition(StateClosed, now)
		}
		return
	}

	b.counts.Failures++
	b.counts.ConsecutiveFailures++
	b.counts.ConsecutiveSuccesses = 0
	if state == StateHalfOpen || b.settings.Trip(b.counts) {
		b.transition(StateOpen, now)
	}
}

// advance applies time-based transitions and must be called with b.mu held
func (b *Breaker) advance(now time.Time) State {
	switch b.state {
	case StateClosed:
		if now.After(b.until) {
			b.counts = Counts{}
			b.epoch++
			b.until = now.Add(b.settings.Window)
		}
	case StateOpen:
		if now.After(b.until) {
			b.transition(StateHalfOpen, now)
		}
	}
	return b.state
}

func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.counts = Counts{}
	b.epoch++

	switch to {
	case StateClosed:
		b.until = now.Add(b.settings.Window)
	case StateOpen:
		b.until = now.Add(b.settings.Cooldown)
	case StateHalfOpen:
		b.until = time.Time{}
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
