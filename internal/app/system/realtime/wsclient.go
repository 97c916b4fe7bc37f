// internal/app/system/realtime/wsclient.go
package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WSClient implements Client over a gorilla websocket connection.
// The push channel is one-directional: clients mutate through REST, so
// inbound frames are read only to service pings and detect closure.
type WSClient struct {
	userID string
	connID string
	conn   *websocket.Conn
	hub    *Hub
	send   chan Event
	log    *zap.Logger
}

// NewWSClient wraps an upgraded connection for the given user.
func NewWSClient(userID string, conn *websocket.Conn, hub *Hub, logger *zap.Logger) *WSClient {
	connID := uuid.NewString()
	return &WSClient{
		userID: userID,
		connID: connID,
		conn:   conn,
		hub:    hub,
		send:   make(chan Event, 32),
		log:    logger.With(zap.String("user_id", userID), zap.String("conn_id", connID)),
	}
}

func (c *WSClient) UserID() string       { return c.userID }
func (c *WSClient) SendCh() chan<- Event { return c.send }

// Run starts the read and write pumps.
func (c *WSClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the send channel, which stops the write pump and closes
// the underlying connection.
func (c *WSClient) Close() {
	close(c.send)
}

// readPump drains inbound frames to keep pong handling alive and to
// notice the peer going away.
func (c *WSClient) readPump() {
	defer func() {
		c.hub.UnregisterCh <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		// Inbound frames carry no protocol; mutations go through REST.
	}
}

// writePump forwards hub events to the socket and keeps the connection
// alive with periodic pings.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel; say goodbye.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(ev)
			if err != nil {
				c.log.Warn("websocket event marshal failed", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
