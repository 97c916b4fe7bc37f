// internal/chatclient/conn.go
package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Status is the websocket subscription lifecycle.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn is the client's single push subscription. Connect replaces any
// previous connection, mirroring the server's one-connection-per-user
// rule, so a reconnect can never leave two live feeds delivering
// duplicates.
type Conn struct {
	url    string
	header http.Header
	dialer *websocket.Dialer

	onEvent  func(Event)
	onStatus func(Status)

	mu     sync.Mutex
	ws     *websocket.Conn
	status Status
}

// NewConn prepares a subscription to url. header carries the session
// cookie; onEvent receives every decoded push event (typically
// Router.Dispatch). onStatus may be nil.
func NewConn(url string, header http.Header, onEvent func(Event), onStatus func(Status)) *Conn {
	return &Conn{
		url:    url,
		header: header,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},

		onEvent:  onEvent,
		onStatus: onStatus,
	}
}

// Connect dials the push endpoint, tearing down any previous connection
// first. On success the read loop runs until the connection drops; the
// caller decides when to reconnect (after which it must re-hydrate any
// open chat; events missed while disconnected are not replayed).
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.ws != nil {
		c.ws.Close()
		c.ws = nil
	}
	c.setStatusLocked(StatusConnecting)
	c.mu.Unlock()

	ws, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.mu.Lock()
		c.setStatusLocked(StatusDisconnected)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.ws = ws
	c.setStatusLocked(StatusConnected)
	c.mu.Unlock()

	go c.readLoop(ws)
	return nil
}

// Close tears the connection down.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws != nil {
		c.ws.Close()
		c.ws = nil
	}
	c.setStatusLocked(StatusDisconnected)
}

// Status returns the current lifecycle state.
func (c *Conn) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Conn) readLoop(ws *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		// Only transition if this connection still owns the slot; a
		// replacement may already be live.
		if c.ws == ws {
			c.ws = nil
			c.setStatusLocked(StatusDisconnected)
		}
		c.mu.Unlock()
		ws.Close()
	}()

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			// Malformed frame; skip it rather than kill the feed.
			continue
		}
		c.onEvent(ev)
	}
}

func (c *Conn) setStatusLocked(s Status) {
	if c.status == s {
		return
	}
	c.status = s
	if c.onStatus != nil {
		c.onStatus(s)
	}
}
