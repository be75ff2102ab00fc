package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "afmdash/internal/errors"
	"afmdash/ports"
)

const (
	writeWait      = 10 * time.Second
	closeGrace     = time.Second
	maxMessageSize = 64 << 20
)

// Dialer opens gorilla websocket connections to the analysis backend
type Dialer struct {
	dialer *websocket.Dialer
}

// NewDialer creates a dialer with the given handshake timeout
func NewDialer(handshakeTimeout time.Duration) *Dialer {
	return &Dialer{
		dialer: &websocket.Dialer{
			Proxy:             websocket.DefaultDialer.Proxy,
			HandshakeTimeout:  handshakeTimeout,
			EnableCompression: true,
		},
	}
}

// Dial implements ports.Dialer
func (d *Dialer) Dial(ctx context.Context, url string) (ports.Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, apperrors.ConnectionError(fmt.Sprintf("dial %s: handshake status %d", url, resp.StatusCode), err)
		}
		return nil, apperrors.ConnectionError(fmt.Sprintf("dial %s", url), err)
	}
	conn.SetReadLimit(maxMessageSize)
	return &Conn{conn: conn}, nil
}

// Conn wraps a gorilla connection. gorilla allows one concurrent writer, so
// writes are serialised here.
type Conn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// ReadMessage implements ports.Conn. Binary frames are skipped.
func (c *Conn) ReadMessage() ([]byte, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, classifyReadError(err)
		}
		if kind == websocket.TextMessage {
			return data, nil
		}
	}
}

// WriteMessage implements ports.Conn
func (c *Conn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return apperrors.ConnectionError("write frame", err)
	}
	return nil
}

// Close implements ports.Conn
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		// WriteControl is safe alongside other writers
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func classifyReadError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return ports.ErrConnClosed
	}
	if errors.Is(err, net.ErrClosed) {
		return ports.ErrConnClosed
	}
	return apperrors.ConnectionError("read frame", err)
}
