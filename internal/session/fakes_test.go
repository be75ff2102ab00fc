package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"afmdash/internal"
	"afmdash/ports"
)

type frame struct {
	data []byte
	err  error
}

type fakeConn struct {
	inbound chan frame
	closed  chan struct{}
	once    sync.Once

	mu     sync.Mutex
	writes [][]byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan frame, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case fr := <-f.inbound:
		return fr.data, fr.err
	case <-f.closed:
		return nil, ports.ErrConnClosed
	}
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) push(raw string) { f.inbound <- frame{data: []byte(raw)} }

func (f *fakeConn) fail(err error) { f.inbound <- frame{err: err} }

func (f *fakeConn) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeConn) request(t *testing.T, i int) map[string]interface{} {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(t, len(f.writes), i)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(f.writes[i], &out))
	return out
}

type fakeDialer struct {
	dialed chan *fakeConn
	gate   chan struct{}
	err    error
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{dialed: make(chan *fakeConn, 8)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (ports.Conn, error) {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	c := newFakeConn()
	d.dialed <- c
	return c, nil
}

func (d *fakeDialer) next(t *testing.T) *fakeConn {
	t.Helper()
	select {
	case c := <-d.dialed:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no connection dialled")
		return nil
	}
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)
