package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "afmdash/internal/errors"
	"afmdash/ports"
)

func echoServer(t *testing.T, onConn func(*websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		onConn(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialWriteRead(t *testing.T) {
	url := echoServer(t, func(conn *websocket.Conn) {
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x1})
			_ = conn.WriteMessage(kind, data)
		}
	})

	conn, err := NewDialer(time.Second).Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage([]byte(`{"action":"get_metadata"}`)))
	got, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"get_metadata"}`, string(got), "binary frames are skipped")
}

func TestPeerCloseIsClean(t *testing.T) {
	url := echoServer(t, func(conn *websocket.Conn) {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	})

	conn, err := NewDialer(time.Second).Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ReadMessage()
	assert.ErrorIs(t, err, ports.ErrConnClosed)
}

func TestLocalCloseUnblocksReader(t *testing.T) {
	url := echoServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	conn, err := NewDialer(time.Second).Dial(context.Background(), url)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := conn.ReadMessage()
		done <- err
	}()

	require.NoError(t, conn.Close())
	assert.NoError(t, conn.Close(), "close is idempotent")

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reader not released by Close")
	}
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewDialer(time.Second).Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConnectionError, apperrors.GetCode(err))
}
