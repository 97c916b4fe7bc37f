// internal/app/system/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// pubSubChannel is the Redis channel used to fan deliveries out to
// sibling server instances.
const pubSubChannel = "chat:events"

// Client is one live push subscription. It abstracts the underlying
// transport so the hub can be tested without a network connection.
type Client interface {
	// UserID returns the authenticated user this connection belongs to.
	UserID() string
	// SendCh returns the channel the hub writes outbound events to.
	// It is send-only from the hub's perspective.
	SendCh() chan<- Event
	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the connection down and releases its send channel.
	Close()
}

// delivery pairs an event with its recipients. It is also the JSON
// payload published on the Redis backplane.
type delivery struct {
	UserIDs []string `json:"user_ids"`
	Event   Event    `json:"event"`
}

// Hub routes push events to connected clients. It holds at most one
// client per user: a reconnect replaces the previous subscription, so a
// network blip can never leave a session with two live feeds (and
// therefore duplicate message deliveries).
//
// All state is owned by the Run goroutine; handlers interact with the
// hub only through channels and Publish.
type Hub struct {
	clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	deliverCh chan delivery
	done      chan struct{}

	// rdb is the optional backplane. When set, Publish goes through
	// Redis and every instance (this one included) delivers to its own
	// local clients on receipt, so local delivery is never doubled.
	rdb *redis.Client
	log *zap.Logger
}

// NewHub builds a hub. rdb may be nil for single-instance deployments;
// Publish then delivers directly to local clients.
func NewHub(rdb *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		deliverCh:    make(chan delivery, 64),
		done:         make(chan struct{}),
		rdb:          rdb,
		log:          logger,
	}
}

// Run is the hub's dispatch loop. Call it once, in its own goroutine.
func (h *Hub) Run() {
	if h.rdb != nil {
		go h.listenPubSub()
	}

	for {
		select {
		case c := <-h.RegisterCh:
			if prev, ok := h.clients[c.UserID()]; ok {
				// Newer connection wins; the old pumps shut down when
				// their send channel closes.
				prev.Close()
			}
			h.clients[c.UserID()] = c
			h.log.Info("realtime client registered", zap.String("user_id", c.UserID()))

		case c := <-h.UnregisterCh:
			// Only drop the mapping if this exact client still owns it;
			// a replaced connection unregisters after its successor.
			if cur, ok := h.clients[c.UserID()]; ok && cur == c {
				delete(h.clients, c.UserID())
				cur.Close()
				h.log.Info("realtime client unregistered", zap.String("user_id", c.UserID()))
			}

		case d := <-h.deliverCh:
			h.dispatch(d)

		case <-h.done:
			for _, c := range h.clients {
				c.Close()
			}
			h.clients = make(map[string]Client)
			return
		}
	}
}

// Stop shuts the dispatch loop down and closes every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish sends ev to every listed user's live connection. With a Redis
// backplane the delivery crosses instances; without one it stays local.
// Publishing never blocks on slow consumers.
func (h *Hub) Publish(ctx context.Context, userIDs []primitive.ObjectID, ev Event) {
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, id.Hex())
	}
	d := delivery{UserIDs: ids, Event: ev}

	if h.rdb != nil {
		payload, err := json.Marshal(d)
		if err != nil {
			h.log.Warn("realtime publish marshal failed", zap.Error(err))
			return
		}
		if err := h.rdb.Publish(ctx, pubSubChannel, payload).Err(); err != nil {
			h.log.Warn("realtime publish to redis failed", zap.Error(err))
		}
		return
	}

	select {
	case h.deliverCh <- d:
	case <-h.done:
	}
}

// dispatch fans one delivery out to local clients. A client whose send
// buffer is full is treated as dead: close it rather than stall the hub.
func (h *Hub) dispatch(d delivery) {
	for _, uid := range d.UserIDs {
		c, ok := h.clients[uid]
		if !ok {
			continue
		}
		select {
		case c.SendCh() <- d.Event:
		default:
			delete(h.clients, uid)
			c.Close()
			h.log.Warn("realtime client too slow, dropped", zap.String("user_id", uid))
		}
	}
}

// listenPubSub receives backplane deliveries and hands them to the
// dispatch loop. Malformed payloads are dropped: routine under an
// at-least-once transport.
func (h *Hub) listenPubSub() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, pubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var d delivery
			if err := json.Unmarshal([]byte(msg.Payload), &d); err != nil {
				h.log.Warn("realtime backplane payload malformed", zap.Error(err))
				continue
			}
			select {
			case h.deliverCh <- d:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}
