package ws

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 64 << 10
	outboundBuffer = 16
)

// client owns the write side of one connection. Snapshots are coalesced so
// a slow tab only ever sees the newest one; other frames queue.
type client struct {
	conn     *websocket.Conn
	logger   *zap.Logger
	observer func(direction, frameType string)

	mu       sync.Mutex
	latest   *session.Snapshot
	frames   []ServerFrame
	wake     chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

func newClient(conn *websocket.Conn, logger *zap.Logger) *client {
	return &client{
		conn:   conn,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

// pushSnapshot replaces any pending snapshot. It never blocks.
func (cl *client) pushSnapshot(snap session.Snapshot) {
	cl.mu.Lock()
	cl.latest = &snap
	cl.mu.Unlock()
	cl.signal()
}

// push queues a frame. Frames beyond the buffer are dropped.
func (cl *client) push(f ServerFrame) bool {
	cl.mu.Lock()
	if len(cl.frames) >= outboundBuffer {
		cl.mu.Unlock()
		cl.logger.Warn("Dropping websocket frame", zap.String("type", f.Type))
		return false
	}
	cl.frames = append(cl.frames, f)
	cl.mu.Unlock()
	cl.signal()
	return true
}

func (cl *client) signal() {
	select {
	case cl.wake <- struct{}{}:
	default:
	}
}

// drain takes everything pending; the snapshot goes last so replies to a
// command precede the state it produced
func (cl *client) drain() []ServerFrame {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	out := cl.frames
	cl.frames = nil
	if cl.latest != nil {
		out = append(out, snapshotFrame(*cl.latest))
		cl.latest = nil
	}
	return out
}

func (cl *client) stop() {
	cl.quitOnce.Do(func() { close(cl.quit) })
}

// abort closes the connection so the read side unblocks
func (cl *client) abort() {
	cl.stop()
	_ = cl.conn.Close()
}

// writeLoop is the only writer of the connection
func (cl *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-cl.quit:
			for _, f := range cl.drain() {
				if cl.write(f) != nil {
					break
				}
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = cl.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.abort()
				return
			}
		case <-cl.wake:
			for _, f := range cl.drain() {
				if err := cl.write(f); err != nil {
					cl.logger.Debug("WebSocket write failed", zap.Error(err))
					cl.abort()
					return
				}
			}
		}
	}
}

func (cl *client) write(f ServerFrame) error {
	data, err := sonic.Marshal(f)
	if err != nil {
		return err
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	if cl.observer != nil {
		cl.observer("out", f.Type)
	}
	return nil
}
