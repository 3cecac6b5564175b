package desktop

import (
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
)

// Position is the top-left screen offset of a window
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Window is one open window. Title, Icon and Kind are copied from the
// resolved node when the window is created.
type Window struct {
	ID          string       `json:"id"`
	Path        string       `json:"path"`
	Title       string       `json:"title"`
	Icon        string       `json:"icon"`
	Kind        content.Kind `json:"type"`
	FileType    string       `json:"file_type,omitempty"`
	IsMinimized bool         `json:"is_minimized"`
	IsMaximized bool         `json:"is_maximized"`
	Position    Position     `json:"position"`

	// Set only for chat windows, which are not backed by a tree node
	ContactID   string `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
}

// IsChat reports whether w is an ephemeral conversation window
func (w *Window) IsChat() bool {
	return w.Kind == content.KindChat
}

// Visible reports whether w is drawn; minimized dominates maximized
func (w *Window) Visible() bool {
	return !w.IsMinimized
}
