package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/taskhive/realtime/pkg/registry"
)

var (
	// ErrChannelClosed is returned by Send after the channel closed.
	ErrChannelClosed = errors.New("gateway: channel closed")

	// ErrSlowChannel is returned by Send when the outbound queue is
	// full. The event is dropped for this channel only.
	ErrSlowChannel = errors.New("gateway: channel send buffer full")
)

// wsChannel adapts one websocket connection to registry.Channel. A
// single writer goroutine owns the socket's write side; Send only
// enqueues, so the router never blocks on a slow client and
// per-recipient delivery order follows enqueue order.
type wsChannel struct {
	id        uuid.UUID
	userID    string
	conn      *websocket.Conn
	send      chan registry.Event
	done       chan struct{}
	closeOnce  sync.Once
	writeWait  time.Duration
	pingPeriod time.Duration
}

func newWSChannel(conn *websocket.Conn, userID string, cfg Config) *wsChannel {
	return &wsChannel{
		id:         uuid.New(),
		userID:     userID,
		conn:       conn,
		send:       make(chan registry.Event, cfg.SendBuffer),
		done:       make(chan struct{}),
		writeWait:  cfg.WriteWait,
		pingPeriod: cfg.PingPeriod,
	}
}

func (c *wsChannel) ID() uuid.UUID  { return c.id }
func (c *wsChannel) UserID() string { return c.userID }

func (c *wsChannel) Send(ctx context.Context, ev registry.Event) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case c.send <- ev:
		return nil
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSlowChannel
	}
}

// Close is idempotent and abandons anything still queued: a disconnect
// mid-delivery drops the in-flight events for this channel only.
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	return nil
}

// writePump is the only goroutine writing to the socket. It pings on a
// ticker so a silent peer misses its pong deadline and the read loop
// unwinds. It exits when the channel closes or a write fails, closing
// the channel in the latter case so the read loop unwinds too.
func (c *wsChannel) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
