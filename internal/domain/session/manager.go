package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/fragment"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/id"
)

// Metrics receives counters from every session
type Metrics interface {
	desktop.Recorder
	fragment.Recorder
	SessionOpened()
	SessionClosed()
}

// Config holds the settings shared by every session
type Config struct {
	// InitialPath is opened when a tab arrives without a fragment
	InitialPath string
	Viewport    desktop.Viewport
	Placement   desktop.Placement
	EchoWindow  time.Duration
	Clock       fragment.Clock
	IDs         desktop.IDGenerator
}

// Options are the per-tab creation parameters
type Options struct {
	// Fragment is the tab's address fragment at load time
	Fragment string `json:"initial_fragment"`
	// InitialPath overrides Config.InitialPath
	InitialPath string `json:"initial_path"`
	// Viewport overrides Config.Viewport when it has a positive size
	Viewport *desktop.Viewport `json:"viewport,omitempty"`
}

// viewport picks the tab's viewport, falling back to the shared one
func (o Options) viewport(fallback desktop.Viewport) desktop.Viewport {
	if o.Viewport != nil && o.Viewport.Width > 0 && o.Viewport.Height > 0 {
		return *o.Viewport
	}
	return fallback
}

// Manager owns the live sessions
type Manager struct {
	sessions sync.Map
	tree     *content.Tree
	config   Config
	logger   *zap.Logger
	metrics  Metrics
	now      func() time.Time

	mu      sync.RWMutex
	created uint64
	reaped  uint64
}

// Stats summarizes manager activity
type Stats struct {
	Active  int    `json:"active"`
	Created uint64 `json:"created"`
	Reaped  uint64 `json:"reaped"`
}

// NewManager creates a manager over a content tree
func NewManager(tree *content.Tree, config Config) *Manager {
	if tree == nil {
		tree = content.Default()
	}
	return &Manager{
		tree:   tree,
		config: config,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

// WithLogger sets the logger handed to every session
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithMetrics adds metrics tracking
func (m *Manager) WithMetrics(metrics Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Tree returns the content tree sessions resolve against
func (m *Manager) Tree() *content.Tree {
	return m.tree
}

// Create builds a desktop for a new tab and performs the startup sync
func (m *Manager) Create(opts Options) (*Session, error) {
	sessionID := id.NewSessionID().String()
	logger := m.logger.With(zap.String("session_id", sessionID))

	location := fragment.NewMemoryLocation(opts.Fragment)
	store := desktop.NewStore()
	controller := desktop.NewController(store, m.tree).
		WithIDs(m.config.IDs).
		WithPlacement(m.config.Placement, opts.viewport(m.config.Viewport)).
		WithLogger(logger)
	synchronizer := fragment.NewSynchronizer(location).
		WithOpener(controller).
		WithClock(m.config.Clock).
		WithEchoWindow(m.config.EchoWindow).
		WithLogger(logger)
	controller.WithFragmentSink(synchronizer)
	if m.metrics != nil {
		controller.WithMetrics(m.metrics)
		synchronizer.WithMetrics(m.metrics)
	}

	now := m.now()
	s := &Session{
		ID:         sessionID,
		CreatedAt:  now,
		tree:       m.tree,
		store:      store,
		controller: controller,
		sync:       synchronizer,
		location:   location,
		logger:     logger,
		now:        m.now,
		lastActive: now,
		subs:       make(map[int]func(Snapshot)),
	}

	initial := opts.InitialPath
	if initial == "" {
		initial = m.config.InitialPath
	}
	if _, err := s.apply(func() error {
		synchronizer.Mount(initial)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to mount session: %w", err)
	}

	m.sessions.Store(sessionID, s)
	m.mu.Lock()
	m.created++
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.SessionOpened()
	}

	logger.Info("Session created",
		zap.String("fragment", location.Fragment()),
		zap.Int("windows", store.Len()),
	)
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(sessionID string) (*Session, error) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return v.(*Session), nil
}

// List returns all live sessions, oldest first
func (m *Manager) List() []Info {
	var infos []Info
	m.sessions.Range(func(_, value interface{}) bool {
		infos = append(infos, value.(*Session).Info())
		return true
	})
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Close tears a session down and stops its timers
func (m *Manager) Close(sessionID string) error {
	v, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	v.(*Session).shutdown()
	if m.metrics != nil {
		m.metrics.SessionClosed()
	}
	return nil
}

// Reap closes sessions idle for longer than idle and returns how many
func (m *Manager) Reap(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	var stale []string
	m.sessions.Range(func(key, value interface{}) bool {
		if value.(*Session).LastActive().Before(cutoff) {
			stale = append(stale, key.(string))
		}
		return true
	})

	n := 0
	for _, sessionID := range stale {
		if m.Close(sessionID) == nil {
			n++
		}
	}
	if n > 0 {
		m.mu.Lock()
		m.reaped += uint64(n)
		m.mu.Unlock()
		m.logger.Info("Reaped idle sessions", zap.Int("count", n))
	}
	return n
}

// RunReaper reaps idle sessions every interval until ctx is done
func (m *Manager) RunReaper(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap(idle)
		}
	}
}

// CloseAll tears down every session
func (m *Manager) CloseAll() {
	m.sessions.Range(func(key, _ interface{}) bool {
		_ = m.Close(key.(string))
		return true
	})
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	active := 0
	m.sessions.Range(func(_, _ interface{}) bool {
		active++
		return true
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Active: active, Created: m.created, Reaped: m.reaped}
}
