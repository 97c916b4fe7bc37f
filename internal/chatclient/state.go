// internal/chatclient/state.go
package chatclient

import "sync"

// State is the whole client-side chat state: the directory plus a
// message log per fetched chat. Logs exist only for chats the user has
// opened; events for unfetched chats update the directory preview and
// nothing else; the full log comes from hydration when the chat is
// opened.
//
// All access is serialized by one mutex: reducers touch the directory
// and a log together, and a half-applied event must never be observable.
type State struct {
	mu     sync.Mutex
	dir    *Directory
	logs   map[string]*MessageLog
	active string
}

// NewState returns an empty client state.
func NewState() *State {
	return &State{
		dir:  NewDirectory(),
		logs: map[string]*MessageLog{},
	}
}

// HydrateDirectory replaces the chat list with a GET /chats/mine payload.
func (s *State) HydrateDirectory(chats []Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir.Replace(chats)
}

// OpenChat marks the chat active and replaces its log wholesale with
// the hydration payload. The fetched log is authoritative over anything
// assembled from pushed events while the chat was closed.
func (s *State) OpenChat(chatID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[chatID]
	if log == nil {
		log = NewMessageLog()
		s.logs[chatID] = log
	}
	log.Replace(msgs)
	s.active = chatID
}

// CloseActive clears the active chat. Its log stays cached; pushed
// events keep it current until the next hydration replaces it.
func (s *State) CloseActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ""
}

// ActiveChatID returns the currently open chat, or "".
func (s *State) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Chats returns the directory in recency order.
func (s *State) Chats() []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Chats()
}

// FilterChats returns directory entries matching q by name.
func (s *State) FilterChats(q string) []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Filter(q)
}

// Messages returns the log for a chat, and whether it has been fetched.
func (s *State) Messages(chatID string) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[chatID]
	if !ok {
		return nil, false
	}
	return log.Messages(), true
}

// ForgetChat drops a chat everywhere: directory, cached log, and the
// active marker. Used when the user leaves the chat or it is deleted.
func (s *State) ForgetChat(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir.Remove(chatID)
	delete(s.logs, chatID)
	if s.active == chatID {
		s.active = ""
	}
}

// applyNewMessage is the newMessage reducer. Returns whether the event
// should raise a notification: only for chats other than the active one,
// and never for a duplicate delivery.
func (s *State) applyNewMessage(ev Event) bool {
	if ev.Message == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := true
	if log, ok := s.logs[ev.ChatID]; ok {
		inserted = log.Append(*ev.Message)
	}
	s.dir.UpsertPreview(ev.ChatID, ev.ChatName, *ev.Message)

	return inserted && ev.ChatID != s.active
}

// applyUpdateMessage is the updateMessage reducer: the server-merged
// message replaces the local copy wholesale.
func (s *State) applyUpdateMessage(ev Event) {
	if ev.Message == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if log, ok := s.logs[ev.ChatID]; ok {
		log.ApplyUpdate(*ev.Message)
	}
	if c, ok := s.dir.Get(ev.ChatID); ok && c.Preview != nil && c.Preview.ID == ev.Message.ID {
		m := *ev.Message
		s.dir.RefreshPreview(ev.ChatID, &m)
	}
}

// applyDeleteMessage is the deleteMessage reducer. Ids not found locally
// are skipped silently: this client may never have fetched them, or they
// were already removed. The directory preview is refreshed in place so
// the chat does not move in the recency order.
func (s *State) applyDeleteMessage(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, hasLog := s.logs[ev.ChatID]
	if hasLog {
		if ev.IsPermanent {
			log.PermanentDelete(ev.MessageIDs)
		} else {
			log.SoftDelete(ev.MessageIDs)
		}
	}

	c, ok := s.dir.Get(ev.ChatID)
	if !ok || c.Preview == nil {
		return
	}
	deleted := false
	for _, id := range ev.MessageIDs {
		if id == c.Preview.ID {
			deleted = true
			break
		}
	}
	if !deleted {
		return
	}

	if hasLog {
		msgs := log.Messages()
		if len(msgs) == 0 {
			s.dir.RefreshPreview(ev.ChatID, nil)
		} else {
			last := msgs[len(msgs)-1]
			s.dir.RefreshPreview(ev.ChatID, &last)
		}
		return
	}

	// Log never fetched: tombstone or drop the preview copy directly.
	if ev.IsPermanent {
		s.dir.RefreshPreview(ev.ChatID, nil)
		return
	}
	p := *c.Preview
	p.IsDeleted = true
	p.Content = ""
	p.Attachments = nil
	p.Reactions = nil
	s.dir.RefreshPreview(ev.ChatID, &p)
}
