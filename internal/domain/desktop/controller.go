package desktop

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/id"
)

// Resolver maps a dotted path to a content node
type Resolver interface {
	Resolve(path string) (*content.Node, error)
}

// FragmentSink receives focus changes that affect the address fragment
type FragmentSink interface {
	Push(path string)
	Clear()
}

// IDGenerator allocates window ids
type IDGenerator interface {
	NewWindowID() string
}

// Recorder receives lifecycle counters
type Recorder interface {
	WindowOpened(kind string)
	WindowClosed()
	PathNotFound()
}

// Controller applies lifecycle commands to a Store. Every command is total:
// it never panics or returns an error, and unknown ids are ignored.
type Controller struct {
	store     *Store
	resolver  Resolver
	sink      FragmentSink
	ids       IDGenerator
	placement Placement
	viewport  Viewport
	logger    *zap.Logger
	recorder  Recorder
}

// NewController creates a controller over store
func NewController(store *Store, resolver Resolver) *Controller {
	return &Controller{
		store:     store,
		resolver:  resolver,
		sink:      nopSink{},
		ids:       id.Default(),
		placement: DefaultCascade(),
		logger:    zap.NewNop(),
	}
}

// WithFragmentSink routes fragment updates to sink
func (c *Controller) WithFragmentSink(sink FragmentSink) *Controller {
	if sink != nil {
		c.sink = sink
	}
	return c
}

// WithIDs replaces the window id generator
func (c *Controller) WithIDs(ids IDGenerator) *Controller {
	if ids != nil {
		c.ids = ids
	}
	return c
}

// WithPlacement sets the cascade policy and the viewport it is computed against
func (c *Controller) WithPlacement(p Placement, viewport Viewport) *Controller {
	if p != nil {
		c.placement = p
	}
	c.viewport = viewport
	return c
}

// WithLogger sets the logger
func (c *Controller) WithLogger(logger *zap.Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(r Recorder) *Controller {
	c.recorder = r
	return c
}

// Store returns the underlying store
func (c *Controller) Store() *Store {
	return c.store
}

// Open focuses the window showing path, restoring it if minimized, or
// creates a new one. With forceCreate a new window is always created.
// Unresolvable paths are logged and leave the store untouched.
func (c *Controller) Open(path string, forceCreate, updateFragment bool) {
	if !forceCreate {
		if w := c.store.findByPath(path, false); w != nil {
			c.activate(w, updateFragment)
			return
		}
		if w := c.store.findByPath(path, true); w != nil {
			w.IsMinimized = false
			c.activate(w, updateFragment)
			return
		}
	}

	node, err := c.resolver.Resolve(path)
	if err != nil {
		c.logger.Warn("No item found for path", zap.String("path", path), zap.Error(err))
		if c.recorder != nil {
			c.recorder.PathNotFound()
		}
		return
	}

	w := &Window{
		ID:       c.ids.NewWindowID(),
		Path:     path,
		Title:    node.Title,
		Icon:     node.Icon,
		Kind:     node.Kind,
		FileType: node.FileType,
		Position: c.placement.Place(c.store.Len(), c.viewport),
	}
	c.store.append(w)
	c.logger.Debug("Window created",
		zap.String("id", w.ID),
		zap.String("path", path),
		zap.Bool("forced", forceCreate),
	)
	if c.recorder != nil {
		c.recorder.WindowOpened(string(w.Kind))
	}
	c.activate(w, updateFragment)
}

// OpenChat focuses or creates the conversation window for a contact. Chat
// windows are not backed by the tree and are never deep-linked, so focusing
// one clears the fragment.
func (c *Controller) OpenChat(contactID, contactName string) {
	if contactID == "" {
		c.logger.Warn("Chat requested without contact id")
		return
	}
	if w := c.store.findChat(contactID, false); w != nil {
		c.activate(w, true)
		return
	}
	if w := c.store.findChat(contactID, true); w != nil {
		w.IsMinimized = false
		c.activate(w, true)
		return
	}

	w := &Window{
		ID:          c.ids.NewWindowID(),
		Title:       contactName,
		Icon:        "💬",
		Kind:        content.KindChat,
		Position:    c.placement.Place(c.store.Len(), c.viewport),
		ContactID:   contactID,
		ContactName: contactName,
	}
	c.store.append(w)
	if c.recorder != nil {
		c.recorder.WindowOpened(string(w.Kind))
	}
	c.activate(w, true)
}

// Close removes a window. Closing the focused window hands focus to the most
// recently opened visible window, or clears focus and the fragment.
func (c *Controller) Close(id string) {
	w, ok := c.store.remove(id)
	if !ok {
		c.logger.Debug("Close of unknown window", zap.String("id", id))
		return
	}
	if c.recorder != nil {
		c.recorder.WindowClosed()
	}
	if c.store.activeID == w.ID {
		c.refocus(w.ID)
	}
}

// Minimize toggles the minimized flag. Minimizing the focused window moves
// focus as Close does, but the window stays open.
func (c *Controller) Minimize(id string) {
	w := c.store.find(id)
	if w == nil {
		c.logger.Debug("Minimize of unknown window", zap.String("id", id))
		return
	}
	w.IsMinimized = !w.IsMinimized
	if w.IsMinimized && c.store.activeID == w.ID {
		c.refocus(w.ID)
	}
}

// Maximize toggles the maximized flag. It has no focus or fragment effects.
func (c *Controller) Maximize(id string) {
	w := c.store.find(id)
	if w == nil {
		c.logger.Debug("Maximize of unknown window", zap.String("id", id))
		return
	}
	w.IsMaximized = !w.IsMaximized
}

// Focus brings a window to the front and syncs its path to the fragment. A
// minimized window is restored first so the focused window is always visible.
func (c *Controller) Focus(id string) {
	w := c.store.find(id)
	if w == nil {
		c.logger.Debug("Focus of unknown window", zap.String("id", id))
		return
	}
	w.IsMinimized = false
	c.activate(w, true)
}

// Move records a drag to a new position
func (c *Controller) Move(id string, pos Position) {
	w := c.store.find(id)
	if w == nil {
		return
	}
	w.Position = pos
}

func (c *Controller) activate(w *Window, updateFragment bool) {
	c.store.activeID = w.ID
	if !updateFragment {
		return
	}
	c.syncFragment(w)
}

func (c *Controller) syncFragment(w *Window) {
	if w.IsChat() || w.Path == "" {
		c.sink.Clear()
		return
	}
	c.sink.Push(w.Path)
}

// refocus picks the next active window after exclude lost focus
func (c *Controller) refocus(exclude string) {
	next := c.store.mostRecentVisible(exclude)
	if next == nil {
		c.store.activeID = ""
		c.sink.Clear()
		return
	}
	c.store.activeID = next.ID
	c.syncFragment(next)
}

type nopSink struct{}

func (nopSink) Push(string) {}
func (nopSink) Clear()      {}
