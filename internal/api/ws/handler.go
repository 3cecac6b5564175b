package ws

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/monitoring"
)

var errUnknownFrame = errors.New("unknown message type")

// Handler bridges a desktop session and its tab over a websocket
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler over a session manager
func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   zap.NewNop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS middleware governs origins
			},
		},
	}
}

// WithMetrics adds connection and frame metrics
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

// WithLogger sets the logger
func (h *Handler) WithLogger(logger *zap.Logger) *Handler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// HandleConnection upgrades /sessions/:id/stream and serves the session
// until either side closes
func (h *Handler) HandleConnection(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	logger := h.logger.With(zap.String("session_id", s.ID))
	logger.Debug("WebSocket connected")

	cl := newClient(conn, logger)
	if h.metrics != nil {
		cl.observer = h.metrics.RecordWSMessage
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		cl.writeLoop()
	}()

	unsubscribe := s.Watch(cl.pushSnapshot)
	h.readLoop(conn, s, cl, logger)
	unsubscribe()

	cl.stop()
	<-done
	logger.Debug("WebSocket disconnected")
}

func (h *Handler) readLoop(conn *websocket.Conn, s *session.Session, cl *client, logger *zap.Logger) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame ClientFrame
		if err := sonic.Unmarshal(data, &frame); err != nil {
			cl.push(errorFrame("invalid frame: " + err.Error()))
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", frame.Type)
		}

		if frame.Type == FramePing {
			s.Touch()
			cl.push(pongFrame())
			continue
		}

		if _, err := dispatch(s, frame); err != nil {
			cl.push(errorFrame(err.Error()))
			if errors.Is(err, session.ErrClosed) {
				return
			}
		}
	}
}

// dispatch applies one client frame to the session. The resulting snapshot
// reaches the tab through the session subscription.
func dispatch(s *session.Session, f ClientFrame) (session.Snapshot, error) {
	switch f.Type {
	case FrameOpen:
		update := true
		if f.UpdateFragment != nil {
			update = *f.UpdateFragment
		}
		return s.Open(f.Path, f.ForceCreate, update)
	case FrameMenu:
		return s.OpenMenu(f.Item)
	case FrameClose:
		return s.Close(f.WindowID)
	case FrameFocus:
		return s.Focus(f.WindowID)
	case FrameMinimize:
		return s.Minimize(f.WindowID)
	case FrameMaximize:
		return s.Maximize(f.WindowID)
	case FrameMove:
		return s.Move(f.WindowID, desktop.Position{X: f.X, Y: f.Y})
	case FrameChat:
		return s.OpenChat(f.ContactID, f.ContactName)
	case FrameActivate:
		return s.Activate(f.WindowID, f.Key)
	case FrameHashchange:
		return s.Hashchange(f.Fragment, f.Generation)
	default:
		return session.Snapshot{}, fmt.Errorf("%w: %q", errUnknownFrame, f.Type)
	}
}
