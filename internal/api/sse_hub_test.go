package api

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/analysis"
	"afmdash/domain/feed"
	"afmdash/internal"
)

func newHub(t *testing.T) *SSEHub {
	t.Helper()
	hub := NewSSEHub(internal.NewLoggerTo(io.Discard, internal.LogLevelError))
	t.Cleanup(hub.Close)
	return hub
}

func TestBroadcastKeepsNewestVersion(t *testing.T) {
	hub := newHub(t)

	hub.Broadcast(feed.Summary{Version: 3})
	hub.Broadcast(feed.Summary{Version: 2})

	s, ok := hub.Latest()
	require.True(t, ok)
	assert.EqualValues(t, 3, s.Version)
}

func TestOfferReplacesUndelivered(t *testing.T) {
	ch := make(chan feed.Summary, 1)
	offer(ch, feed.Summary{Version: 1})
	offer(ch, feed.Summary{Version: 2})

	assert.EqualValues(t, 2, (<-ch).Version)
	assert.Empty(t, ch)
}

func TestViewBroadcasterSummarizes(t *testing.T) {
	hub := newHub(t)
	b := NewSSEViewBroadcaster(hub)

	b.OnView(feed.View{Version: 7, Status: analysis.StatusConnected, Phase: feed.PhaseLoading})

	s, ok := hub.Latest()
	require.True(t, ok)
	assert.EqualValues(t, 7, s.Version)
	assert.Equal(t, feed.PhaseLoading, s.Phase)
}

func TestHandleSSEStreamsViews(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := newHub(t)
	hub.Broadcast(feed.Summary{Version: 1, Status: analysis.StatusConnecting})

	r := gin.New()
	r.GET("/events", hub.HandleSSE)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	lines := bufio.NewScanner(resp.Body)
	nextData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data:"); ok {
				return data
			}
		}
		return ""
	}

	assert.Contains(t, nextData(), `"version":1`)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(feed.Summary{Version: 2, Status: analysis.StatusConnected})
	assert.Contains(t, nextData(), `"version":2`)
}

func TestCloseEndsStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewSSEHub(internal.NewLoggerTo(io.Discard, internal.LogLevelError))
	hub.Broadcast(feed.Summary{Version: 1})

	r := gin.New()
	r.GET("/events", hub.HandleSSE)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Close()

	_, err = io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Zero(t, hub.ClientCount())
}

func TestBroadcastStateDropsStaleRevision(t *testing.T) {
	hub := newHub(t)

	newer := analysis.DefaultState()
	newer.NumCurves = 40
	hub.BroadcastState(5, newer)
	hub.BroadcastState(4, analysis.DefaultState())

	e, ok := hub.LatestState()
	require.True(t, ok)
	assert.EqualValues(t, 5, e.Revision)
	assert.Equal(t, 40, e.State.NumCurves)
}

func TestHandleSSEStreamsStateEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := newHub(t)
	st := analysis.DefaultState()
	st.Loading.Import = true
	hub.BroadcastState(1, st)

	r := gin.New()
	r.GET("/events", hub.HandleSSE)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	var event string
	for lines.Scan() {
		if name, ok := strings.CutPrefix(lines.Text(), "event:"); ok {
			event = name
			continue
		}
		if data, ok := strings.CutPrefix(lines.Text(), "data:"); ok {
			assert.Equal(t, "state", event)
			assert.Contains(t, data, `"revision":1`)
			assert.Contains(t, data, `"import":true`)
			return
		}
	}
	t.Fatal("stream ended without a state event")
}
