package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{}

// pushServer upgrades every request and hands the server side of each
// connection to the test over conns.
type pushServer struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{conns: make(chan *websocket.Conn, 4)}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ps.conns <- ws
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) url() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case ws := <-ps.conns:
		return ws
	case <-time.After(2 * time.Second):
		t.Fatal("no connection arrived")
		return nil
	}
}

func (ps *pushServer) push(t *testing.T, ws *websocket.Conn, ev Event) {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, payload))
}

// statusLog records lifecycle transitions as onStatus fires.
type statusLog struct {
	mu sync.Mutex
	ss []Status
}

func (sl *statusLog) record(s Status) {
	sl.mu.Lock()
	sl.ss = append(sl.ss, s)
	sl.mu.Unlock()
}

func (sl *statusLog) snapshot() []Status {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return append([]Status(nil), sl.ss...)
}

func waitForStatus(t *testing.T, c *Conn, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status never reached %v, still %v", want, c.Status())
}

func TestConn_LifecycleAndEventDelivery(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 4)
	statuses := &statusLog{}
	c := NewConn(ps.url(), nil, func(ev Event) { events <- ev }, statuses.record)

	assert.Equal(t, StatusDisconnected, c.Status())

	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, StatusConnected, c.Status())

	server := ps.accept(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := msgAt("m1", "u1", base)
	ps.push(t, server, Event{Type: EventNewMessage, ChatID: "chat1", ChatName: "Algebra I", Message: &m})

	select {
	case got := <-events:
		assert.Equal(t, EventNewMessage, got.Type)
		assert.Equal(t, "m1", got.Message.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	// Server-side close drops the feed back to disconnected.
	server.Close()
	waitForStatus(t, c, StatusDisconnected)
	assert.Equal(t, []Status{StatusConnecting, StatusConnected, StatusDisconnected}, statuses.snapshot())
}

func TestConn_MalformedFrameSkipped(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 4)
	c := NewConn(ps.url(), nil, func(ev Event) { events <- ev }, nil)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	server := ps.accept(t)
	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte("not json")))
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := msgAt("m1", "u1", base)
	ps.push(t, server, Event{Type: EventNewMessage, ChatID: "chat1", Message: &m})

	// The bad frame is dropped and the feed keeps running.
	select {
	case got := <-events:
		assert.Equal(t, "m1", got.Message.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("feed died on the malformed frame")
	}
	assert.Equal(t, StatusConnected, c.Status())
}

func TestConn_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No upgrade: the session cookie was rejected.
		http.Error(w, "authentication required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	statuses := &statusLog{}
	c := NewConn("ws"+strings.TrimPrefix(srv.URL, "http"), nil, func(Event) {}, statuses.record)

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusDisconnected, c.Status())
	assert.Equal(t, []Status{StatusConnecting, StatusDisconnected}, statuses.snapshot())
}

func TestConn_ReconnectReplacesPrevious(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 4)
	c := NewConn(ps.url(), nil, func(ev Event) { events <- ev }, nil)

	require.NoError(t, c.Connect(context.Background()))
	first := ps.accept(t)

	require.NoError(t, c.Connect(context.Background()))
	second := ps.accept(t)

	// The first connection was torn down; its read loop exiting must not
	// flip the status away from the live replacement.
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err, "first connection should be closed by the reconnect")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StatusConnected, c.Status())

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := msgAt("m9", "u1", base)
	ps.push(t, second, Event{Type: EventNewMessage, ChatID: "chat1", Message: &m})

	select {
	case got := <-events:
		assert.Equal(t, "m9", got.Message.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("replacement connection never delivered")
	}

	c.Close()
	assert.Equal(t, StatusDisconnected, c.Status())
}

func TestConn_FeedsRouterDispatch(t *testing.T) {
	ps := newPushServer(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	state := NewState()
	state.HydrateDirectory([]Chat{chatAt("chat1", "Algebra I", base)})
	state.OpenChat("chat1", nil)
	router := NewRouter(state, nil)

	done := make(chan struct{}, 4)
	c := NewConn(ps.url(), nil, func(ev Event) {
		router.Dispatch(ev)
		done <- struct{}{}
	}, nil)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	server := ps.accept(t)
	m := msgAt("m1", "u1", base.Add(time.Minute))
	ps.push(t, server, Event{Type: EventNewMessage, ChatID: "chat1", ChatName: "Algebra I", Message: &m})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event never dispatched")
	}

	msgs, ok := state.Messages("chat1")
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)

	chats := state.Chats()
	require.NotEmpty(t, chats)
	assert.Equal(t, "m1", chats[0].Preview.ID)
}
