// internal/chatclient/log.go
package chatclient

import "sort"

// MessageLog is the client-side copy of one chat's message log.
//
// Two invariants hold at all times:
//   - no duplicate ids: every mutation dedups on the server-assigned id,
//     so a message arriving over both REST and push renders once.
//   - order follows CreatedAt (id as tiebreak), never arrival order: a
//     pushed message that raced ahead of an older one slots in place.
//
// MessageLog is not safe for concurrent use; State serializes access.
type MessageLog struct {
	msgs []Message
	byID map[string]int
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{byID: map[string]int{}}
}

// Replace swaps the whole log for freshly fetched messages. Hydration is
// wholesale: anything assembled from pushed events while the chat was
// closed is discarded in favor of the server's answer.
func (l *MessageLog) Replace(msgs []Message) {
	l.msgs = append([]Message(nil), msgs...)
	sort.SliceStable(l.msgs, func(i, j int) bool { return l.less(i, j) })
	l.reindex()
}

// Append inserts a message in timestamp order. Returns false when the id
// is already present (duplicate delivery). A duplicate refreshes the
// stored copy, since the later delivery may carry a newer reaction set,
// unless the stored copy is a tombstone: a delete already observed for
// this id wins over any echo that raced behind it.
func (l *MessageLog) Append(m Message) bool {
	if i, ok := l.byID[m.ID]; ok {
		if !l.msgs[i].IsDeleted {
			l.msgs[i] = m
		}
		return false
	}

	at := sort.Search(len(l.msgs), func(i int) bool {
		if !l.msgs[i].CreatedAt.Equal(m.CreatedAt) {
			return l.msgs[i].CreatedAt.After(m.CreatedAt)
		}
		return l.msgs[i].ID > m.ID
	})
	l.msgs = append(l.msgs, Message{})
	copy(l.msgs[at+1:], l.msgs[at:])
	l.msgs[at] = m
	l.reindex()
	return true
}

// ApplyUpdate replaces a message wholesale with the server-merged copy.
// Reactions are never toggled locally: the server's set wins, so
// concurrent reactions from other members are preserved. Unknown ids
// are ignored: the chat was hydrated after the update happened.
// Tombstoned entries are also left alone; a stale update must not
// restore content that a delete already cleared.
func (l *MessageLog) ApplyUpdate(m Message) {
	if i, ok := l.byID[m.ID]; ok && !l.msgs[i].IsDeleted {
		l.msgs[i] = m
	}
}

// SoftDelete tombstones the given ids in place: content, attachments,
// and reactions are cleared, position is kept. Ids not present are
// skipped silently.
func (l *MessageLog) SoftDelete(ids []string) {
	for _, id := range ids {
		i, ok := l.byID[id]
		if !ok {
			continue
		}
		l.msgs[i].IsDeleted = true
		l.msgs[i].Content = ""
		l.msgs[i].Attachments = nil
		l.msgs[i].Reactions = nil
	}
}

// PermanentDelete removes the given ids from the log. Ids not present
// are skipped silently.
func (l *MessageLog) PermanentDelete(ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := l.msgs[:0]
	for _, m := range l.msgs {
		if _, gone := drop[m.ID]; !gone {
			kept = append(kept, m)
		}
	}
	l.msgs = kept
	l.reindex()
}

// Get returns the message with the given id.
func (l *MessageLog) Get(id string) (Message, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Message{}, false
	}
	return l.msgs[i], true
}

// Messages returns the ordered log. The slice is a copy.
func (l *MessageLog) Messages() []Message {
	return append([]Message(nil), l.msgs...)
}

// Len returns the number of entries, tombstones included.
func (l *MessageLog) Len() int { return len(l.msgs) }

func (l *MessageLog) less(i, j int) bool {
	if !l.msgs[i].CreatedAt.Equal(l.msgs[j].CreatedAt) {
		return l.msgs[i].CreatedAt.Before(l.msgs[j].CreatedAt)
	}
	return l.msgs[i].ID < l.msgs[j].ID
}

func (l *MessageLog) reindex() {
	l.byID = make(map[string]int, len(l.msgs))
	for i, m := range l.msgs {
		l.byID[m.ID] = i
	}
}
