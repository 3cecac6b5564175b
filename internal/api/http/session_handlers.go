package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/router"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// OpenRequest opens a content path
type OpenRequest struct {
	Path        string `json:"path" binding:"required"`
	ForceCreate bool   `json:"force_create"`
	// UpdateFragment defaults to true
	UpdateFragment *bool `json:"update_fragment"`
}

// ChatRequest opens a conversation window
type ChatRequest struct {
	ContactID   string `json:"contact_id" binding:"required"`
	ContactName string `json:"contact_name"`
}

// FragmentRequest reports a hashchange from the tab
type FragmentRequest struct {
	Fragment   string `json:"fragment"`
	Generation uint64 `json:"generation"`
}

// snapshotHeader carries the fragment generation of a snapshot response
const snapshotHeader = "X-Fragment-Generation"

// lookup loads the session named by the :id parameter
func (h *Handlers) lookup(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// respond replies with the snapshot a command produced
func (h *Handlers) respond(c *gin.Context, snap session.Snapshot, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header(snapshotHeader, strconv.FormatUint(snap.Generation, 10))
	c.JSON(http.StatusOK, snap)
}

// CreateSession creates a desktop for a new tab
func (h *Handlers) CreateSession(c *gin.Context) {
	var opts session.Options
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	s, err := h.sessions.Create(opts)
	if err != nil {
		h.fail(c, err)
		return
	}

	snap := s.Snapshot()
	c.Header(snapshotHeader, strconv.FormatUint(snap.Generation, 10))
	c.JSON(http.StatusCreated, snap)
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns a session snapshot
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	h.respond(c, s.Snapshot(), nil)
}

// DeleteSession tears a session down
func (h *Handlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessions.Close(sessionID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// Open focuses or creates the window for a path
func (h *Handlers) Open(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	update := true
	if req.UpdateFragment != nil {
		update = *req.UpdateFragment
	}

	snap, err := s.Open(req.Path, req.ForceCreate, update)
	h.respond(c, snap, err)
}

// OpenMenu opens a start-menu entry
func (h *Handlers) OpenMenu(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	snap, err := s.OpenMenu(c.Param("item"))
	h.respond(c, snap, err)
}

// OpenChat opens a conversation window for a contact
func (h *Handlers) OpenChat(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	snap, err := s.OpenChat(req.ContactID, req.ContactName)
	h.respond(c, snap, err)
}

// Hashchange applies a fragment change reported by the tab
func (h *Handlers) Hashchange(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req FragmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	snap, err := s.Hashchange(req.Fragment, req.Generation)
	h.respond(c, snap, err)
}

// windowCommand adapts a window command to a handler
func (h *Handlers) windowCommand(cmd func(s *session.Session, windowID string) (session.Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := h.lookup(c)
		if !ok {
			return
		}
		snap, err := cmd(s, c.Param("wid"))
		h.respond(c, snap, err)
	}
}

// Focus brings a window to the front
func (h *Handlers) Focus(c *gin.Context) {
	h.windowCommand((*session.Session).Focus)(c)
}

// Minimize toggles a window's minimized flag
func (h *Handlers) Minimize(c *gin.Context) {
	h.windowCommand((*session.Session).Minimize)(c)
}

// Maximize toggles a window's maximized flag
func (h *Handlers) Maximize(c *gin.Context) {
	h.windowCommand((*session.Session).Maximize)(c)
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowCommand((*session.Session).Close)(c)
}

// Move records a window drag
func (h *Handlers) Move(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var pos desktop.Position
	if err := c.ShouldBindJSON(&pos); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	snap, err := s.Move(c.Param("wid"), pos)
	h.respond(c, snap, err)
}

// Activate opens a child of a folder window
func (h *Handlers) Activate(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	snap, err := s.Activate(c.Param("wid"), c.Param("key"))
	h.respond(c, snap, err)
}

// WindowContent returns what the window's collaborator renders. The payload
// carries the window path so clients can drop responses for a window that
// has since navigated elsewhere.
func (h *Handlers) WindowContent(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	payload, entries, err := s.Content(c.Param("wid"))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"window": payload}
	if entries != nil {
		resp["entries"] = entries
	}

	switch payload.Collaborator {
	case router.Profile:
		if h.records != nil {
			if dog, err := h.records.Profile(paths.Leaf(payload.Path)); err == nil {
				resp["profile"] = dog
			} else {
				h.logger.Debug("Profile record unavailable",
					zap.String("path", payload.Path),
					zap.Error(err),
				)
			}
		}
	case router.AddressBook:
		if h.records != nil {
			if contacts, err := h.records.Contacts(); err == nil {
				resp["contacts"] = contacts
			}
		}
	case router.Conversation:
		if h.records != nil {
			if contact, err := h.records.Contact(payload.ContactID); err == nil {
				resp["contact"] = contact
			}
		}
	case router.PhotoGallery:
		if h.photos != nil {
			if photos, err := h.photos.Photos(c.Request.Context(), payload.Path); err == nil {
				resp["photos"] = photos
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ShareWindow returns the deep link for a window
func (h *Handlers) ShareWindow(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	fragment, err := s.ShareFragment(c.Param("wid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fragment": fragment,
		"url":      origin(c) + "/#" + fragment,
	})
}
