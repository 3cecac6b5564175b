package ws

import (
	"time"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
)

// Client frame types
const (
	FrameOpen       = "open"
	FrameMenu       = "menu"
	FrameClose      = "close"
	FrameFocus      = "focus"
	FrameMinimize   = "minimize"
	FrameMaximize   = "maximize"
	FrameMove       = "move"
	FrameChat       = "chat"
	FrameActivate   = "activate"
	FrameHashchange = "hashchange"
	FramePing       = "ping"
)

// Server frame types
const (
	FrameSnapshot = "snapshot"
	FramePong     = "pong"
	FrameError    = "error"
)

// ClientFrame is a gesture or hashchange reported by the tab. Fields are
// read according to Type.
type ClientFrame struct {
	Type string `json:"type"`

	// open, activate, menu
	Path           string `json:"path,omitempty"`
	ForceCreate    bool   `json:"force_create,omitempty"`
	UpdateFragment *bool  `json:"update_fragment,omitempty"`
	Key            string `json:"key,omitempty"`
	Item           string `json:"item,omitempty"`

	// window commands
	WindowID string `json:"window_id,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`

	// chat
	ContactID   string `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name,omitempty"`

	// hashchange
	Fragment   string `json:"fragment,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

// ServerFrame is pushed to the tab
type ServerFrame struct {
	Type      string            `json:"type"`
	Snapshot  *session.Snapshot `json:"snapshot,omitempty"`
	Message   string            `json:"message,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

func snapshotFrame(snap session.Snapshot) ServerFrame {
	return ServerFrame{Type: FrameSnapshot, Snapshot: &snap, Timestamp: time.Now().Unix()}
}

func errorFrame(msg string) ServerFrame {
	return ServerFrame{Type: FrameError, Message: msg, Timestamp: time.Now().Unix()}
}

func pongFrame() ServerFrame {
	return ServerFrame{Type: FramePong, Timestamp: time.Now().Unix()}
}
