package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/fragment"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/id"
)

// manualClock holds echo-window timers until the test expires them
type manualClock struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct {
	mu      sync.Mutex
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) fragment.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{}
	c.fns = append(c.fns, func() {
		if !t.Stop() {
			return
		}
		f()
	})
	return t
}

// Expire fires every pending timer
func (c *manualClock) Expire() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func setupStream(t *testing.T) (*httptest.Server, *session.Manager, *monitoring.Metrics, *manualClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &manualClock{}
	manager := session.NewManager(content.Default(), session.Config{Clock: clock, IDs: id.NewCounter("w")})
	t.Cleanup(manager.CloseAll)
	metrics := monitoring.NewMetrics()

	router := gin.New()
	router.GET("/sessions/:id/stream", NewHandler(manager).WithMetrics(metrics).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, manager, metrics, clock
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f ServerFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestStreamSendsSnapshotOnConnect(t *testing.T) {
	srv, manager, _, _ := setupStream(t)
	s, err := manager.Create(session.Options{Fragment: "ourDogs#championRex"})
	require.NoError(t, err)

	conn := dial(t, srv, s.ID)

	f := read(t, conn)
	require.Equal(t, FrameSnapshot, f.Type)
	require.NotNil(t, f.Snapshot)
	require.Len(t, f.Snapshot.Windows, 1)
	assert.Equal(t, "ourDogs#championRex", f.Snapshot.Fragment)
}

func TestStreamAppliesCommands(t *testing.T) {
	srv, manager, _, clock := setupStream(t)
	s, err := manager.Create(session.Options{})
	require.NoError(t, err)

	conn := dial(t, srv, s.ID)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameOpen, Path: "ourDogs"}))
	f := read(t, conn)
	require.Equal(t, FrameSnapshot, f.Type)
	require.Len(t, f.Snapshot.Windows, 1)
	assert.Equal(t, "ourDogs", f.Snapshot.Fragment)
	gen := f.Snapshot.Generation

	// the tab echoes the fragment it was told to set
	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameHashchange, Fragment: "ourDogs", Generation: gen}))
	f = read(t, conn)
	assert.Len(t, f.Snapshot.Windows, 1)

	// untagged changes count as user navigation once the echo window expires
	clock.Expire()
	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameHashchange, Fragment: "emailApp"}))
	f = read(t, conn)
	require.Len(t, f.Snapshot.Windows, 2)
	assert.Equal(t, "emailApp", f.Snapshot.Windows[1].Path)

	mail := f.Snapshot.ActiveID
	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameMove, WindowID: mail, X: 10, Y: 20}))
	f = read(t, conn)
	assert.Equal(t, 10, f.Snapshot.Windows[1].Position.X)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameClose, WindowID: mail}))
	f = read(t, conn)
	assert.Len(t, f.Snapshot.Windows, 1)
}

func TestStreamPingAndErrors(t *testing.T) {
	srv, manager, metrics, _ := setupStream(t)
	s, err := manager.Create(session.Options{})
	require.NoError(t, err)

	conn := dial(t, srv, s.ID)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FramePing}))
	assert.Equal(t, FramePong, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: "teleport"}))
	f := read(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Contains(t, f.Message, "unknown message type")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, FrameError, read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameMenu, Item: "solitaire"}))
	assert.Equal(t, FrameError, read(t, conn).Type)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WSConnections))
}

func TestStreamClosesWithSession(t *testing.T) {
	srv, manager, _, _ := setupStream(t)
	s, err := manager.Create(session.Options{})
	require.NoError(t, err)

	conn := dial(t, srv, s.ID)
	read(t, conn)

	require.NoError(t, manager.Close(s.ID))
	require.NoError(t, conn.WriteJSON(ClientFrame{Type: FrameOpen, Path: "ourDogs"}))

	f := read(t, conn)
	assert.Equal(t, FrameError, f.Type)
	assert.Contains(t, f.Message, "session closed")

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _, _, _ := setupStream(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/missing/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClientCoalescesSnapshots(t *testing.T) {
	cl := newClient(nil, zap.NewNop())
	cl.push(pongFrame())
	cl.pushSnapshot(session.Snapshot{Generation: 1})
	cl.pushSnapshot(session.Snapshot{Generation: 2})

	frames := cl.drain()
	require.Len(t, frames, 2)
	assert.Equal(t, FramePong, frames[0].Type)
	assert.Equal(t, uint64(2), frames[1].Snapshot.Generation)
	assert.Empty(t, cl.drain())
}
