package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockClient is an in-memory realtime.Client for hub tests.
type mockClient struct {
	userID string
	recv   chan realtime.Event
	closed chan struct{}
}

func newMockClient(userID string) *mockClient {
	return &mockClient{
		userID: userID,
		recv:   make(chan realtime.Event, 8),
		closed: make(chan struct{}),
	}
}

func (m *mockClient) UserID() string                { return m.userID }
func (m *mockClient) SendCh() chan<- realtime.Event { return m.recv }
func (m *mockClient) Run()                          {}
func (m *mockClient) Close() {
	select {
	case <-m.closed:
	default:
		close(m.closed)
	}
}

func (m *mockClient) isClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}

func TestHub_PublishDeliversToRecipientsOnly(t *testing.T) {
	hub := realtime.NewHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	alice := newMockClient(primitive.NewObjectID().Hex())
	bob := newMockClient(primitive.NewObjectID().Hex())
	hub.RegisterCh <- alice
	hub.RegisterCh <- bob

	aliceID, err := primitive.ObjectIDFromHex(alice.userID)
	require.NoError(t, err)

	ev := realtime.NewMessage("c1", "Algebra I", models.Message{Content: "hello"})
	hub.Publish(context.Background(), []primitive.ObjectID{aliceID}, ev)

	select {
	case got := <-alice.recv:
		assert.Equal(t, realtime.EventNewMessage, got.Type)
		assert.Equal(t, "c1", got.ChatID)
		assert.Equal(t, "Algebra I", got.ChatName)
	case <-time.After(time.Second):
		t.Fatal("alice never received the event")
	}

	select {
	case <-bob.recv:
		t.Fatal("bob should not receive an event addressed to alice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_ReconnectReplacesOlderSubscription(t *testing.T) {
	hub := realtime.NewHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	userID := primitive.NewObjectID()
	first := newMockClient(userID.Hex())
	second := newMockClient(userID.Hex())

	hub.RegisterCh <- first
	hub.RegisterCh <- second
	waitFor(t, first.isClosed)

	ev := realtime.UpdateMessage("c1", models.Message{Content: "hi"})
	hub.Publish(context.Background(), []primitive.ObjectID{userID}, ev)

	select {
	case got := <-second.recv:
		assert.Equal(t, realtime.EventUpdateMessage, got.Type)
	case <-time.After(time.Second):
		t.Fatal("replacement connection never received the event")
	}
	assert.Empty(t, first.recv, "stale connection must not receive events")
}

func TestHub_StaleUnregisterKeepsReplacement(t *testing.T) {
	hub := realtime.NewHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	userID := primitive.NewObjectID()
	first := newMockClient(userID.Hex())
	second := newMockClient(userID.Hex())

	hub.RegisterCh <- first
	hub.RegisterCh <- second
	waitFor(t, first.isClosed)

	// The replaced connection's read pump unregisters after the new one
	// registered; the replacement must survive.
	hub.UnregisterCh <- first

	ev := realtime.DeleteMessage("c1", []string{"m1"}, false)
	hub.Publish(context.Background(), []primitive.ObjectID{userID}, ev)

	select {
	case got := <-second.recv:
		assert.Equal(t, realtime.EventDeleteMessage, got.Type)
		assert.False(t, got.IsPermanent)
	case <-time.After(time.Second):
		t.Fatal("replacement connection was dropped by a stale unregister")
	}
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	hub := realtime.NewHub(nil, zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	userID := primitive.NewObjectID()
	c := newMockClient(userID.Hex())
	hub.RegisterCh <- c
	hub.UnregisterCh <- c
	waitFor(t, c.isClosed)

	hub.Publish(context.Background(), []primitive.ObjectID{userID},
		realtime.NewMessage("c1", "Algebra I", models.Message{Content: "x"}))

	select {
	case <-c.recv:
		t.Fatal("unregistered client should not receive events")
	case <-time.After(50 * time.Millisecond):
	}
}
