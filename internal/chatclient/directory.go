// internal/chatclient/directory.go
package chatclient

import (
	"sort"
	"strings"
)

// Directory is the client-side chat list, ordered by recency
// (UpdatedAt descending). Recency comes from message timestamps the
// server assigned, never from local clocks, so every member's list
// converges on the same order.
//
// Directory is not safe for concurrent use; State serializes access.
type Directory struct {
	chats []Chat
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Replace swaps the whole directory for a freshly fetched chat list.
func (d *Directory) Replace(chats []Chat) {
	d.chats = append([]Chat(nil), chats...)
	d.resort()
}

// UpsertPreview records msg as the chat's latest message and advances
// its recency to the message's timestamp. A chat not yet in the
// directory is added: the user was added to it while their list was
// already loaded, and the event carries enough to show a stub entry
// until the next full fetch.
func (d *Directory) UpsertPreview(chatID, chatName string, msg Message) {
	for i := range d.chats {
		if d.chats[i].ID == chatID {
			d.chats[i].Preview = &msg
			if msg.CreatedAt.After(d.chats[i].UpdatedAt) {
				d.chats[i].UpdatedAt = msg.CreatedAt
			}
			d.resort()
			return
		}
	}
	d.chats = append(d.chats, Chat{
		ID:        chatID,
		Name:      chatName,
		Preview:   &msg,
		UpdatedAt: msg.CreatedAt,
	})
	d.resort()
}

// RefreshPreview replaces the chat's preview without touching recency.
// Used after deletions: the latest visible message changed, but the
// chat must not move in the list.
func (d *Directory) RefreshPreview(chatID string, preview *Message) {
	for i := range d.chats {
		if d.chats[i].ID == chatID {
			d.chats[i].Preview = preview
			return
		}
	}
}

// Get returns the directory entry for a chat.
func (d *Directory) Get(chatID string) (Chat, bool) {
	for _, c := range d.chats {
		if c.ID == chatID {
			return c, true
		}
	}
	return Chat{}, false
}

// Remove drops a chat from the directory (left or deleted).
func (d *Directory) Remove(chatID string) {
	kept := d.chats[:0]
	for _, c := range d.chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	d.chats = kept
}

// Chats returns the ordered directory. The slice is a copy.
func (d *Directory) Chats() []Chat {
	return append([]Chat(nil), d.chats...)
}

// Filter returns the chats whose name contains q, case-insensitively,
// preserving recency order. An empty q returns everything.
func (d *Directory) Filter(q string) []Chat {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return d.Chats()
	}
	var out []Chat
	for _, c := range d.chats {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func (d *Directory) resort() {
	sort.SliceStable(d.chats, func(i, j int) bool {
		return d.chats[i].UpdatedAt.After(d.chats[j].UpdatedAt)
	})
}
