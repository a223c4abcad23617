package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	readLimit    = 64 << 20 // setSource frames carry the full row set
)

// Upgrader accepts worker host connections
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 20,
	WriteBufferSize: 1 << 20,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketConn adapts a gorilla websocket to Conn using JSON frames
type WebsocketConn struct {
	ws       *websocket.Conn
	log      zerolog.Logger
	writeMu  sync.Mutex
	incoming chan protocol.Message
	done     chan struct{}
	once     sync.Once
}

// NewWebsocketConn starts the read and keepalive loops for ws
func NewWebsocketConn(ws *websocket.Conn, logger zerolog.Logger) *WebsocketConn {
	c := &WebsocketConn{
		ws:       ws,
		log:      logger.With().Str("component", "transport").Str("remote", ws.RemoteAddr().String()).Logger(),
		incoming: make(chan protocol.Message, pipeBuffer),
		done:     make(chan struct{}),
	}

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readLoop()
	go c.pingLoop()
	return c
}

// Dial connects to a worker host websocket endpoint
func Dial(ctx context.Context, url string, logger zerolog.Logger) (*WebsocketConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial worker host %s: %w", url, err)
	}
	return NewWebsocketConn(ws, logger), nil
}

func (c *WebsocketConn) readLoop() {
	defer close(c.incoming)

	for {
		var msg protocol.Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn().Err(err).Msg("websocket read failed")
			}
			c.shutdown()
			return
		}

		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *WebsocketConn) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.log.Debug().Err(err).Msg("websocket ping failed")
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *WebsocketConn) Send(msg protocol.Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("websocket send %s: %w", msg.Type, err)
	}
	return nil
}

func (c *WebsocketConn) Incoming() <-chan protocol.Message {
	return c.incoming
}

// Close sends a close frame and tears the connection down
func (c *WebsocketConn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.writeMu.Unlock()

	c.shutdown()
	return nil
}

func (c *WebsocketConn) shutdown() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}
