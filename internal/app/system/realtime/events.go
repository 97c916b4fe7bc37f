// internal/app/system/realtime/events.go
package realtime

import (
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
)

// Event kinds pushed to connected clients. These mirror the REST
// mutations one-to-one so clients can route both arrival paths through
// the same reducers.
const (
	EventNewMessage    = "newMessage"
	EventUpdateMessage = "updateMessage"
	EventDeleteMessage = "deleteMessage"
)

// Event is the push envelope delivered over the websocket.
//
//   - newMessage:    ChatID, ChatName, Message
//   - updateMessage: ChatID, Message (server-merged reaction set)
//   - deleteMessage: ChatID, MessageIDs, IsPermanent
//
// ChatName rides along on newMessage so clients can name the chat in a
// notification without holding its directory entry yet.
type Event struct {
	Type        string          `json:"type"`
	ChatID      string          `json:"chatId"`
	ChatName    string          `json:"chatName,omitempty"`
	Message     *models.Message `json:"message,omitempty"`
	MessageIDs  []string        `json:"messageIds,omitempty"`
	IsPermanent bool            `json:"isPermanent,omitempty"`
}

// NewMessage builds the envelope for a freshly appended message.
func NewMessage(chatID, chatName string, m models.Message) Event {
	return Event{Type: EventNewMessage, ChatID: chatID, ChatName: chatName, Message: &m}
}

// UpdateMessage builds the envelope for a message whose reaction set
// (or other server-owned state) changed.
func UpdateMessage(chatID string, m models.Message) Event {
	return Event{Type: EventUpdateMessage, ChatID: chatID, Message: &m}
}

// DeleteMessage builds the envelope for soft or permanent deletion.
func DeleteMessage(chatID string, messageIDs []string, permanent bool) Event {
	return Event{Type: EventDeleteMessage, ChatID: chatID, MessageIDs: messageIDs, IsPermanent: permanent}
}
