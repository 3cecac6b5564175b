package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/fragment"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/router"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

var (
	// ErrSessionNotFound is returned for unknown or closed session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrWindowNotFound is returned by queries on unknown window ids
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnknownMenuItem is returned for start-menu ids with no target
	ErrUnknownMenuItem = errors.New("unknown menu item")
	// ErrClosed is returned by commands on a closed session
	ErrClosed = errors.New("session closed")
)

// WindowView is a window together with the collaborator that renders it
type WindowView struct {
	desktop.Window
	Collaborator router.Collaborator `json:"collaborator"`
}

// Snapshot is the observable state of one desktop
type Snapshot struct {
	SessionID  string       `json:"session_id"`
	Windows    []WindowView `json:"windows"`
	ActiveID   string       `json:"active_id,omitempty"`
	Fragment   string       `json:"fragment"`
	Generation uint64       `json:"generation"`
}

// Info is the listing entry for a session
type Info struct {
	ID         string    `json:"id"`
	Windows    int       `json:"windows"`
	Fragment   string    `json:"fragment"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Session is one live desktop. All methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	tree       *content.Tree
	store      *desktop.Store
	controller *desktop.Controller
	sync       *fragment.Synchronizer
	location   *fragment.MemoryLocation
	logger     *zap.Logger
	now        func() time.Time
	lastActive time.Time
	closed     bool

	nextSub int
	subs    map[int]func(Snapshot)
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	state := s.store.Snapshot()
	views := make([]WindowView, len(state.Windows))
	for i, w := range state.Windows {
		views[i] = WindowView{Window: w, Collaborator: router.Route(w)}
	}
	return Snapshot{
		SessionID:  s.ID,
		Windows:    views,
		ActiveID:   state.ActiveID,
		Fragment:   s.location.Fragment(),
		Generation: s.sync.Generation(),
	}
}

// Info summarizes the session for listings
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:         s.ID,
		Windows:    s.store.Len(),
		Fragment:   s.location.Fragment(),
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
	}
}

// LastActive returns the time of the latest command
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Subscribe registers fn to receive a snapshot after every command. fn runs
// while the session is locked, so it must not block or call back into the
// session. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Watch subscribes fn and delivers the current snapshot to it before any
// later one
func (s *Session) Watch(fn func(Snapshot)) func() {
	cancel := s.Subscribe(fn)
	s.mu.Lock()
	fn(s.snapshot())
	s.mu.Unlock()
	return cancel
}

// Touch marks the session active without changing it
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
}

// apply runs fn under the session lock, publishes the resulting state and
// returns it. The snapshot is taken before the lock is released, so it shows
// exactly the effect of fn.
func (s *Session) apply(fn func() error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}
	s.lastActive = s.now()
	if err := fn(); err != nil {
		return Snapshot{}, err
	}

	snap := s.snapshot()
	for _, sub := range s.subs {
		sub(snap)
	}
	return snap, nil
}

// Open focuses or creates the window for path
func (s *Session) Open(path string, forceCreate, updateFragment bool) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Open(path, forceCreate, updateFragment)
		return nil
	})
}

// OpenMenu opens a start-menu entry. Start-menu selections always create a
// new window.
func (s *Session) OpenMenu(item string) (Snapshot, error) {
	path, ok := s.tree.MenuPath(item)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownMenuItem, item)
	}
	return s.Open(path, true, true)
}

// OpenChat focuses or creates the conversation window for a contact
func (s *Session) OpenChat(contactID, contactName string) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.OpenChat(contactID, contactName)
		return nil
	})
}

// Close closes a window
func (s *Session) Close(windowID string) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Close(windowID)
		return nil
	})
}

// Minimize toggles a window's minimized flag
func (s *Session) Minimize(windowID string) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Minimize(windowID)
		return nil
	})
}

// Maximize toggles a window's maximized flag
func (s *Session) Maximize(windowID string) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Maximize(windowID)
		return nil
	})
}

// Focus brings a window to the front
func (s *Session) Focus(windowID string) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Focus(windowID)
		return nil
	})
}

// Move records a window drag
func (s *Session) Move(windowID string, pos desktop.Position) (Snapshot, error) {
	return s.apply(func() error {
		s.controller.Move(windowID, pos)
		return nil
	})
}

// Hashchange applies a hashchange reported by the tab. generation is the
// generation of the snapshot the tab last applied, or zero when the tab does
// not tag its changes.
func (s *Session) Hashchange(fragment string, generation uint64) (Snapshot, error) {
	return s.apply(func() error {
		var navigated bool
		if generation == 0 {
			navigated = s.sync.HandleExternalChange(fragment)
		} else {
			navigated = s.sync.HandleTaggedChange(fragment, generation)
		}
		if navigated {
			s.location.SetFragment(fragment)
		}
		return nil
	})
}

// Activate opens a child of a folder window, as a double-click in the folder
// browser does
func (s *Session) Activate(windowID, childKey string) (Snapshot, error) {
	return s.apply(func() error {
		w, ok := s.store.Get(windowID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
		}
		return router.NewFolderBrowser(w.Path, s.tree, s.controller).Activate(childKey)
	})
}

// Content describes what the collaborator of a window needs to render it.
// Folder windows also carry their entries.
func (s *Session) Content(windowID string) (router.Payload, []content.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.Get(windowID)
	if !ok {
		return router.Payload{}, nil, fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	payload := router.Describe(w)
	if payload.Collaborator != router.FolderView {
		return payload, nil, nil
	}
	entries, err := router.NewFolderBrowser(w.Path, s.tree, s.controller).Entries()
	if err != nil {
		return payload, nil, err
	}
	return payload, entries, nil
}

// ShareFragment returns the fragment that deep-links to a window
func (s *Session) ShareFragment(windowID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.Get(windowID)
	if !ok || w.Path == "" {
		return "", fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	return paths.ToExternal(w.Path), nil
}

// shutdown stops timers and drops subscribers
func (s *Session) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.sync.Close()
	s.subs = make(map[int]func(Snapshot))
	s.logger.Info("Session closed", zap.String("session_id", s.ID))
}
