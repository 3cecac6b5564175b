package fragment

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// DefaultEchoWindow is how long a programmatic write suppresses its own echo
const DefaultEchoWindow = 50 * time.Millisecond

// Opener is the controller command the synchronizer replays external
// fragment changes into
type Opener interface {
	Open(path string, forceCreate, updateFragment bool)
}

// Recorder receives synchronizer counters
type Recorder interface {
	FragmentWritten()
	EchoSuppressed()
}

// Synchronizer bridges controller focus changes and the address fragment.
//
// Every programmatic write bumps a generation and arms a one-shot echo
// window. While the window is armed every change notification is ignored,
// since a burst of writes produces a burst of notifications for values other
// than the last one. A change tagged with the generation of a write we made is
// ignored whenever it arrives. Anything else is a user navigation and is
// replayed as Open(path, false, false).
type Synchronizer struct {
	mu          sync.Mutex
	location    Location
	opener      Opener
	clock       Clock
	window      time.Duration
	logger      *zap.Logger
	recorder    Recorder
	generation  uint64
	suppressing bool
	timer       Timer
	closed      bool
}

// NewSynchronizer creates a synchronizer writing to location
func NewSynchronizer(location Location) *Synchronizer {
	return &Synchronizer{
		location: location,
		clock:    RealClock{},
		window:   DefaultEchoWindow,
		logger:   zap.NewNop(),
	}
}

// WithOpener sets the controller external changes are replayed into
func (s *Synchronizer) WithOpener(o Opener) *Synchronizer {
	s.opener = o
	return s
}

// WithClock replaces the timer source
func (s *Synchronizer) WithClock(c Clock) *Synchronizer {
	if c != nil {
		s.clock = c
	}
	return s
}

// WithEchoWindow sets the suppression window
func (s *Synchronizer) WithEchoWindow(d time.Duration) *Synchronizer {
	if d > 0 {
		s.window = d
	}
	return s
}

// WithLogger sets the logger
func (s *Synchronizer) WithLogger(logger *zap.Logger) *Synchronizer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMetrics adds metrics tracking
func (s *Synchronizer) WithMetrics(r Recorder) *Synchronizer {
	s.recorder = r
	return s
}

// Push writes the external form of path to the fragment
func (s *Synchronizer) Push(path string) {
	s.write(paths.ToExternal(path))
}

// Clear empties the fragment
func (s *Synchronizer) Clear() {
	s.write("")
}

func (s *Synchronizer) write(fragment string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.suppressing = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.window, func() { s.expire(gen) })
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.FragmentWritten()
	}
	s.location.SetFragment(fragment)
}

func (s *Synchronizer) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.suppressing = false
		s.timer = nil
	}
}

// HandleExternalChange reacts to a hashchange that carries no generation tag.
// It reports whether the change was a user navigation.
func (s *Synchronizer) HandleExternalChange(fragment string) bool {
	return s.HandleTaggedChange(fragment, 0)
}

// HandleTaggedChange reacts to a hashchange. A non-zero generation marks the
// change as the echo of the write with that generation. It reports whether
// the change was a user navigation rather than an echo.
func (s *Synchronizer) HandleTaggedChange(fragment string, generation uint64) bool {
	fragment = strings.TrimPrefix(fragment, "#")

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.isEcho(generation) {
		s.mu.Unlock()
		s.logger.Debug("Ignoring fragment echo",
			zap.String("fragment", fragment),
			zap.Uint64("generation", generation),
		)
		if s.recorder != nil {
			s.recorder.EchoSuppressed()
		}
		return false
	}
	opener := s.opener
	s.mu.Unlock()

	if fragment != "" && opener != nil {
		opener.Open(paths.ToInternal(fragment), false, false)
	}
	return true
}

// isEcho must be called with s.mu held
func (s *Synchronizer) isEcho(generation uint64) bool {
	if generation != 0 && generation <= s.generation {
		return true
	}
	return s.suppressing
}

// Mount performs the startup sync: an existing fragment wins and is opened
// without being rewritten; otherwise initialPath is opened and written.
func (s *Synchronizer) Mount(initialPath string) {
	if s.opener == nil {
		return
	}
	if current := strings.TrimPrefix(s.location.Fragment(), "#"); current != "" {
		s.opener.Open(paths.ToInternal(current), false, false)
		return
	}
	if initialPath != "" {
		s.opener.Open(initialPath, false, true)
	}
}

// Generation returns the generation of the latest programmatic write
func (s *Synchronizer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close stops the pending timer; later writes and changes are ignored
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.suppressing = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
