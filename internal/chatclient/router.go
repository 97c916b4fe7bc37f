// internal/chatclient/router.go
package chatclient

// Notification is the payload handed to the Notifier when a message
// arrives for a chat the user does not have open.
type Notification struct {
	ChatID     string
	ChatName   string
	SenderName string
	Preview    string
}

// Notifier receives toast notifications. Implementations must not block;
// Dispatch runs on the websocket read loop.
type Notifier interface {
	Notify(n Notification)
}

// Router applies pushed events to client state and decides which of
// them surface as notifications.
type Router struct {
	state    *State
	notifier Notifier

	// SelfUserID suppresses notifications for the user's own messages
	// echoed back over push.
	SelfUserID string
}

// NewRouter builds a router over the given state. notifier may be nil.
func NewRouter(state *State, notifier Notifier) *Router {
	return &Router{state: state, notifier: notifier}
}

// Dispatch applies one pushed event. Events of unknown type are dropped:
// older clients must tolerate newer servers.
func (r *Router) Dispatch(ev Event) {
	switch ev.Type {
	case EventNewMessage:
		notify := r.state.applyNewMessage(ev)
		if notify && r.notifier != nil && ev.Message != nil && ev.Message.SenderID != r.SelfUserID {
			r.notifier.Notify(Notification{
				ChatID:     ev.ChatID,
				ChatName:   ev.ChatName,
				SenderName: ev.Message.SenderName,
				Preview:    ev.Message.Content,
			})
		}

	case EventUpdateMessage:
		r.state.applyUpdateMessage(ev)

	case EventDeleteMessage:
		r.state.applyDeleteMessage(ev)
	}
}
