package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
)

func receive(t *testing.T, conn Conn) (protocol.Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-conn.Incoming():
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return protocol.Message{}, false
	}
}

func TestPipe_DeliversInOrder(t *testing.T) {
	a, b := NewPipe()
	defer a.Close()

	require.NoError(t, a.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "1"}))
	require.NoError(t, a.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "2"}))
	require.NoError(t, b.Send(protocol.Message{Type: protocol.TypePayload, RequestID: "1"}))

	first, _ := receive(t, b)
	second, _ := receive(t, b)
	reply, _ := receive(t, a)

	assert.Equal(t, "1", first.RequestID)
	assert.Equal(t, "2", second.RequestID)
	assert.Equal(t, protocol.TypePayload, reply.Type)
}

func TestPipe_CloseClosesBothEnds(t *testing.T) {
	a, b := NewPipe()
	require.NoError(t, b.Close())

	_, ok := receive(t, a)
	assert.False(t, ok)
	_, ok = receive(t, b)
	assert.False(t, ok)

	assert.ErrorIs(t, a.Send(protocol.Message{Type: protocol.TypeSetSource}), ErrClosed)
	assert.NoError(t, a.Close())
}

func TestWebsocket_RoundTrip(t *testing.T) {
	logger := zerolog.Nop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewWebsocketConn(ws, logger)
		for msg := range conn.Incoming() {
			_ = conn.Send(msg.PayloadReply(&protocol.ChartResult{}))
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, err := Dial(ctx, url, logger)
	require.NoError(t, err)

	require.NoError(t, conn.Send(protocol.Message{Type: protocol.TypeComputeRequest, RequestID: "abc", Generation: 3}))

	reply, ok := receive(t, conn)
	require.True(t, ok)
	assert.Equal(t, protocol.TypePayload, reply.Type)
	assert.Equal(t, "abc", reply.RequestID)
	assert.Equal(t, int64(3), reply.Generation)
	assert.NotNil(t, reply.Result)

	require.NoError(t, conn.Close())
	_, ok = receive(t, conn)
	assert.False(t, ok)
	assert.ErrorIs(t, conn.Send(protocol.Message{Type: protocol.TypeSetSource}), ErrClosed)
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "ws://127.0.0.1:1/ws", zerolog.Nop())
	assert.Error(t, err)
}
