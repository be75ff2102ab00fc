package api

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"afmdash/domain/analysis"
	"afmdash/domain/feed"
	"afmdash/internal"
)

// KeepAliveInterval is how often idle streams receive a ping
const KeepAliveInterval = 30 * time.Second

// StateEvent is the shared analysis state as pushed to browsers
type StateEvent struct {
	Revision uint64         `json:"revision"`
	State    analysis.State `json:"state"`
}

type sseClient struct {
	views  chan feed.Summary
	states chan StateEvent
}

// SSEHub fans view summaries and state changes out to connected browsers.
// Only the newest of each matters, so slow clients skip intermediate ones.
type SSEHub struct {
	clients   map[*sseClient]bool
	clientsMu sync.RWMutex

	latestMu    sync.Mutex
	latest      *feed.Summary
	latestState *StateEvent

	register      chan *sseClient
	unregister    chan *sseClient
	pendingViews  chan struct{}
	pendingStates chan struct{}
	done          chan struct{}
	closeOnce     sync.Once

	logger *internal.Logger
}

// NewSSEHub creates a new SSE hub and starts its loop
func NewSSEHub(logger *internal.Logger) *SSEHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	hub := &SSEHub{
		clients:       make(map[*sseClient]bool),
		register:      make(chan *sseClient),
		unregister:    make(chan *sseClient),
		pendingViews:  make(chan struct{}, 1),
		pendingStates: make(chan struct{}, 1),
		done:          make(chan struct{}),
		logger:        logger,
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("[SSE] Client registered (total clients: %d)", n)
			if s, ok := h.Latest(); ok {
				offer(client.views, s)
			}
			if e, ok := h.LatestState(); ok {
				offer(client.states, e)
			}

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				closeClient(client)
			}
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("[SSE] Client unregistered (remaining clients: %d)", n)

		case <-h.pendingViews:
			s, ok := h.Latest()
			if !ok {
				continue
			}
			h.clientsMu.RLock()
			for client := range h.clients {
				offer(client.views, s)
			}
			h.clientsMu.RUnlock()

		case <-h.pendingStates:
			e, ok := h.LatestState()
			if !ok {
				continue
			}
			h.clientsMu.RLock()
			for client := range h.clients {
				offer(client.states, e)
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				closeClient(client)
			}
			h.clientsMu.Unlock()
			return
		}
	}
}

func closeClient(c *sseClient) {
	close(c.views)
	close(c.states)
}

// offer delivers v, replacing an undelivered older value
func offer[T any](client chan T, v T) {
	for {
		select {
		case client <- v:
			return
		default:
		}
		select {
		case <-client:
		default:
		}
	}
}

func notifyPending(pending chan struct{}) {
	select {
	case pending <- struct{}{}:
	default:
	}
}

// Broadcast publishes a summary to every client without blocking
func (h *SSEHub) Broadcast(s feed.Summary) {
	h.latestMu.Lock()
	if h.latest != nil && h.latest.Version > s.Version {
		h.latestMu.Unlock()
		return
	}
	h.latest = &s
	h.latestMu.Unlock()
	notifyPending(h.pendingViews)
}

// BroadcastState publishes a state change. Store listeners run outside the
// store lock, so an older revision may arrive late and is dropped.
func (h *SSEHub) BroadcastState(revision uint64, st analysis.State) {
	h.latestMu.Lock()
	if h.latestState != nil && h.latestState.Revision > revision {
		h.latestMu.Unlock()
		return
	}
	h.latestState = &StateEvent{Revision: revision, State: st}
	h.latestMu.Unlock()
	notifyPending(h.pendingStates)
}

// Latest returns the newest broadcast summary
func (h *SSEHub) Latest() (feed.Summary, bool) {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()
	if h.latest == nil {
		return feed.Summary{}, false
	}
	return *h.latest, true
}

// LatestState returns the newest broadcast state
func (h *SSEHub) LatestState() (StateEvent, bool) {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()
	if h.latestState == nil {
		return StateEvent{}, false
	}
	return *h.latestState, true
}

// Close disconnects every client and stops the hub
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams "view" and "state" events until the client disconnects
func (h *SSEHub) HandleSSE(c *gin.Context) {
	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Cache-Control")

	client := &sseClient{
		views:  make(chan feed.Summary, 1),
		states: make(chan StateEvent, 1),
	}
	select {
	case h.register <- client:
	case <-h.done:
		c.JSON(503, gin.H{"error": "event stream is shutting down"})
		return
	}

	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	ctx := c.Request.Context()
	ping := time.NewTicker(KeepAliveInterval)
	defer ping.Stop()

	send := func(event string, v interface{}) {
		payload, err := json.Marshal(v)
		if err != nil {
			h.logger.Error("[SSE] Failed to marshal %s: %v", event, err)
			return
		}
		c.SSEvent(event, string(payload))
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case s, ok := <-client.views:
			if !ok {
				return false
			}
			send("view", s)
			return true

		case e, ok := <-client.states:
			if !ok {
				return false
			}
			send("state", e)
			return true

		case <-ping.C:
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
