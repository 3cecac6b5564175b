package desktop

// Store holds the open windows of one desktop. Insertion order is the z-order
// tiebreak: later entries are more recent. If ActiveID is set, a visible
// window with that id exists.
//
// Store is not safe for concurrent use; the owning session serializes access.
type Store struct {
	windows  []*Window
	activeID string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Snapshot is an immutable copy of the store, handed to observers
type Snapshot struct {
	Windows  []Window `json:"windows"`
	ActiveID string   `json:"active_id,omitempty"`
}

// Snapshot copies the current state
func (s *Store) Snapshot() Snapshot {
	out := Snapshot{
		Windows:  make([]Window, len(s.windows)),
		ActiveID: s.activeID,
	}
	for i, w := range s.windows {
		out.Windows[i] = *w
	}
	return out
}

// ActiveID returns the focused window id, or "" when nothing is focused
func (s *Store) ActiveID() string {
	return s.activeID
}

// Len returns the number of open windows
func (s *Store) Len() int {
	return len(s.windows)
}

// Get returns a copy of a window by id
func (s *Store) Get(id string) (Window, bool) {
	if w := s.find(id); w != nil {
		return *w, true
	}
	return Window{}, false
}

// Active returns a copy of the focused window
func (s *Store) Active() (Window, bool) {
	if s.activeID == "" {
		return Window{}, false
	}
	return s.Get(s.activeID)
}

func (s *Store) find(id string) *Window {
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *Store) findByPath(path string, minimized bool) *Window {
	for _, w := range s.windows {
		if !w.IsChat() && w.Path == path && w.IsMinimized == minimized {
			return w
		}
	}
	return nil
}

func (s *Store) findChat(contactID string, minimized bool) *Window {
	for _, w := range s.windows {
		if w.IsChat() && w.ContactID == contactID && w.IsMinimized == minimized {
			return w
		}
	}
	return nil
}

func (s *Store) append(w *Window) {
	s.windows = append(s.windows, w)
}

func (s *Store) remove(id string) (*Window, bool) {
	for i, w := range s.windows {
		if w.ID == id {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return w, true
		}
	}
	return nil, false
}

// mostRecentVisible returns the last appended non-minimized window other
// than exclude
func (s *Store) mostRecentVisible(exclude string) *Window {
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if w.ID != exclude && !w.IsMinimized {
			return w
		}
	}
	return nil
}
