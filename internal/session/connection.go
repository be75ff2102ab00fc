package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"afmdash/domain/core"
	"afmdash/internal"
	apperrors "afmdash/internal/errors"
	"afmdash/ports"
)

// ReadyState mirrors the lifecycle of one socket
type ReadyState int32

const (
	Connecting ReadyState = iota
	Open
	Closing
	Closed
)

func (s ReadyState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Events receives socket lifecycle callbacks. Every callback carries the id of
// the session it belongs to so receivers can drop events of superseded
// sessions. Callbacks run on the session's own goroutine, never on the caller
// of Open or Close.
type Events interface {
	OnOpen(id core.SessionID)
	OnMessage(id core.SessionID, data []byte)
	OnError(id core.SessionID, err error)
	OnClose(id core.SessionID, err error)
}

// Session is one backend connection attempt and, once dialled, its socket
type Session struct {
	ID  core.SessionID
	URL string

	mu        sync.Mutex
	state     ReadyState
	conn      ports.Conn
	abandoned bool
	done      chan struct{}
}

// State returns the current ready state
func (s *Session) State() ReadyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the session reached Closed and its close event fired
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ConnectionManager owns the single live backend session
type ConnectionManager struct {
	dialer      ports.Dialer
	dialTimeout time.Duration
	logger      *internal.Logger

	mu      sync.Mutex
	current *Session
}

// NewConnectionManager creates a manager dialling through dialer
func NewConnectionManager(dialer ports.Dialer, dialTimeout time.Duration, logger *internal.Logger) *ConnectionManager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &ConnectionManager{dialer: dialer, dialTimeout: dialTimeout, logger: logger}
}

// Open closes the current session, if any, and starts dialling a new one.
// Open never blocks on the network.
func (m *ConnectionManager) Open(url string, events Events) *Session {
	m.mu.Lock()
	prev := m.current
	s := &Session{
		ID:    core.NewSessionID(),
		URL:   url,
		state: Connecting,
		done:  make(chan struct{}),
	}
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		m.Close(prev)
	}

	m.logger.Info("[Session] connecting %s to %s", s.ID, url)
	go m.run(s, events)
	return s
}

// Current returns the live session or nil
func (m *ConnectionManager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Send writes payload on an Open session. Any other state is a silent no-op
// reported as false.
func (m *ConnectionManager) Send(s *Session, payload []byte) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.Lock()
	if s.state != Open {
		s.mu.Unlock()
		return false, nil
	}
	conn := s.conn
	s.mu.Unlock()

	if err := conn.WriteMessage(payload); err != nil {
		return false, err
	}
	return true, nil
}

// Close actively closes Open and Closing sessions. A Connecting session is
// only marked abandoned; its dial goroutine closes the socket once the dial
// resolves. Closed sessions are left alone.
func (m *ConnectionManager) Close(s *Session) {
	if s == nil {
		return
	}
	s.mu.Lock()
	switch s.state {
	case Connecting:
		s.abandoned = true
		s.mu.Unlock()
		return
	case Open, Closing:
		s.state = Closing
		conn := s.conn
		s.mu.Unlock()
		if err := conn.Close(); err != nil {
			m.logger.Debug("[Session] close %s: %v", s.ID, err)
		}
		return
	default:
		s.mu.Unlock()
	}
}

func (m *ConnectionManager) run(s *Session, events Events) {
	defer close(s.done)

	ctx, cancel := context.WithTimeout(context.Background(), m.dialTimeout)
	conn, err := m.dialer.Dial(ctx, s.URL)
	cancel()

	if err != nil {
		s.mu.Lock()
		s.state = Closed
		s.mu.Unlock()
		m.logger.Warn("[Session] dial %s failed: %v", s.ID, err)
		events.OnError(s.ID, err)
		events.OnClose(s.ID, err)
		return
	}

	s.mu.Lock()
	if s.abandoned {
		s.state = Closed
		s.mu.Unlock()
		_ = conn.Close()
		m.logger.Debug("[Session] %s abandoned while connecting", s.ID)
		events.OnClose(s.ID, nil)
		return
	}
	s.conn = conn
	s.state = Open
	s.mu.Unlock()

	m.logger.Info("[Session] %s open", s.ID)
	events.OnOpen(s.ID)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			m.finish(s, conn, err, events)
			return
		}
		events.OnMessage(s.ID, data)
	}
}

func (m *ConnectionManager) finish(s *Session, conn ports.Conn, readErr error, events Events) {
	s.mu.Lock()
	wasClosing := s.state == Closing
	s.state = Closed
	s.mu.Unlock()
	_ = conn.Close()

	if wasClosing || errors.Is(readErr, ports.ErrConnClosed) {
		m.logger.Info("[Session] %s closed", s.ID)
		events.OnClose(s.ID, nil)
		return
	}

	m.logger.Warn("[Session] %s read failed: %v", s.ID, readErr)
	if !apperrors.IsAppError(readErr) {
		readErr = apperrors.ConnectionError("read frame", readErr)
	}
	events.OnError(s.ID, readErr)
	events.OnClose(s.ID, readErr)
}
