package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/core"
)

type recordedEvent struct {
	kind string
	id   core.SessionID
	data string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) add(e recordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) OnOpen(id core.SessionID) { r.add(recordedEvent{kind: "open", id: id}) }
func (r *eventRecorder) OnMessage(id core.SessionID, data []byte) {
	r.add(recordedEvent{kind: "message", id: id, data: string(data)})
}
func (r *eventRecorder) OnError(id core.SessionID, err error) { r.add(recordedEvent{kind: "error", id: id}) }
func (r *eventRecorder) OnClose(id core.SessionID, err error) { r.add(recordedEvent{kind: "close", id: id}) }

func (r *eventRecorder) kinds(id core.SessionID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.id == id {
			out = append(out, e.kind)
		}
	}
	return out
}

func TestConnectionLifecycle(t *testing.T) {
	dialer := newFakeDialer()
	m := NewConnectionManager(dialer, time.Second, quietLogger())
	rec := &eventRecorder{}

	s := m.Open("ws://backend/ws/data", rec)
	conn := dialer.next(t)
	require.Eventually(t, func() bool { return s.State() == Open }, waitFor, tick)

	sent, err := m.Send(s, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, sent)

	conn.push(`{"status":"complete"}`)
	require.Eventually(t, func() bool { return len(rec.kinds(s.ID)) == 2 }, waitFor, tick)
	m.Close(s)
	<-s.Done()

	assert.Equal(t, Closed, s.State())
	assert.True(t, conn.isClosed())
	assert.Equal(t, []string{"open", "message", "close"}, rec.kinds(s.ID))

	sent, err = m.Send(s, []byte(`{}`))
	assert.NoError(t, err)
	assert.False(t, sent, "send on a closed session is a no-op")
	m.Close(s)
}

func TestOpenClosesPrevious(t *testing.T) {
	dialer := newFakeDialer()
	m := NewConnectionManager(dialer, time.Second, quietLogger())
	rec := &eventRecorder{}

	first := m.Open("ws://a", rec)
	firstConn := dialer.next(t)
	require.Eventually(t, func() bool { return first.State() == Open }, waitFor, tick)

	second := m.Open("ws://a", rec)
	dialer.next(t)
	<-first.Done()

	assert.True(t, firstConn.isClosed())
	assert.Same(t, second, m.Current())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCloseWhileConnectingIsDeferred(t *testing.T) {
	dialer := newFakeDialer()
	dialer.gate = make(chan struct{})
	m := NewConnectionManager(dialer, time.Second, quietLogger())
	rec := &eventRecorder{}

	s := m.Open("ws://a", rec)
	m.Close(s)
	assert.Equal(t, Connecting, s.State(), "connecting sessions settle on their own")

	close(dialer.gate)
	conn := dialer.next(t)
	<-s.Done()

	assert.True(t, conn.isClosed())
	assert.Equal(t, []string{"close"}, rec.kinds(s.ID))
	sent, _ := m.Send(s, []byte(`{}`))
	assert.False(t, sent)
}

func TestDialFailureEmitsErrorThenClose(t *testing.T) {
	dialer := newFakeDialer()
	dialer.err = errors.New("connection refused")
	m := NewConnectionManager(dialer, time.Second, quietLogger())
	rec := &eventRecorder{}

	s := m.Open("ws://a", rec)
	<-s.Done()

	assert.Equal(t, []string{"error", "close"}, rec.kinds(s.ID))
	assert.Equal(t, Closed, s.State())
}

func TestReadFailureEmitsErrorThenClose(t *testing.T) {
	dialer := newFakeDialer()
	m := NewConnectionManager(dialer, time.Second, quietLogger())
	rec := &eventRecorder{}

	s := m.Open("ws://a", rec)
	conn := dialer.next(t)
	conn.fail(errors.New("connection reset by peer"))
	<-s.Done()

	assert.Equal(t, []string{"open", "error", "close"}, rec.kinds(s.ID))
}
