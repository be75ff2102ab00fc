package ports

import (
	"context"
	"errors"
)

// ErrConnClosed is returned by Conn.ReadMessage when the peer or the local
// side closed the connection cleanly
var ErrConnClosed = errors.New("connection closed")

// Conn is one established bidirectional text-message connection
type Conn interface {
	// ReadMessage blocks for the next text frame
	ReadMessage() ([]byte, error)

	// WriteMessage sends one text frame; safe for concurrent use
	WriteMessage(data []byte) error

	// Close performs a close handshake and releases the connection. It is
	// idempotent and may be called while ReadMessage is blocked.
	Close() error
}

// Dialer opens backend connections
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
