package chatclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func msgAt(id, sender string, at time.Time) Message {
	return Message{
		ID:         id,
		ChatID:     "chat1",
		SenderID:   sender,
		SenderName: "Sender " + sender,
		Content:    "message " + id,
		CreatedAt:  at,
	}
}

func TestMessageLog_AppendDedups(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	assert.True(t, log.Append(m))
	// Same id arriving again, e.g. once from the REST response and once
	// over push.
	assert.False(t, log.Append(m))
	assert.Equal(t, 1, log.Len())
}

func TestMessageLog_DuplicateRefreshesStoredCopy(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	log.Append(m)

	m.Reactions = []Reaction{{Emoji: "👍", UserID: "u2"}}
	assert.False(t, log.Append(m))

	got, ok := log.Get("m1")
	assert.True(t, ok)
	assert.Len(t, got.Reactions, 1)
}

func TestMessageLog_DuplicateDoesNotResurrectTombstone(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	log.Append(m)
	log.SoftDelete([]string{"m1"})

	// A push echo of the original message lands after the delete.
	assert.False(t, log.Append(m))

	got, _ := log.Get("m1")
	assert.True(t, got.IsDeleted, "a late echo must not undo a delete")
	assert.Empty(t, got.Content)
	assert.Equal(t, 1, log.Len())
}

func TestMessageLog_OrdersByCreatedAtNotArrival(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Newer message arrives first over push, older lands second.
	log.Append(msgAt("m2", "u1", base.Add(time.Minute)))
	log.Append(msgAt("m1", "u2", base))

	msgs := log.Messages()
	assert.Equal(t, []string{"m1", "m2"}, []string{msgs[0].ID, msgs[1].ID})
}

func TestMessageLog_EqualTimestampsBreakTiesByID(t *testing.T) {
	log := NewMessageLog()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	log.Append(msgAt("b", "u1", at))
	log.Append(msgAt("a", "u2", at))

	msgs := log.Messages()
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
}

func TestMessageLog_ReplaceIsWholesale(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	log.Append(msgAt("stale", "u1", base))
	log.Replace([]Message{
		msgAt("m1", "u1", base),
		msgAt("m2", "u2", base.Add(time.Minute)),
	})

	assert.Equal(t, 2, log.Len())
	_, ok := log.Get("stale")
	assert.False(t, ok, "hydration must discard locally assembled state")
}

func TestMessageLog_SoftDeleteTombstonesInPlace(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	m.Attachments = []Attachment{{URL: "https://files.example/a.pdf", Name: "a.pdf"}}
	m.Reactions = []Reaction{{Emoji: "🎉", UserID: "u2"}}
	log.Append(m)
	log.Append(msgAt("m2", "u2", base.Add(time.Minute)))

	log.SoftDelete([]string{"m1", "unknown"})

	assert.Equal(t, 2, log.Len(), "tombstones keep their position")
	got, _ := log.Get("m1")
	assert.True(t, got.IsDeleted)
	assert.Empty(t, got.Content)
	assert.Nil(t, got.Attachments)
	assert.Nil(t, got.Reactions)
	assert.Equal(t, "m1", log.Messages()[0].ID)
}

func TestMessageLog_PermanentDeleteRemoves(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	log.Append(msgAt("m1", "u1", base))
	log.Append(msgAt("m2", "u2", base.Add(time.Minute)))

	log.PermanentDelete([]string{"m1", "unknown"})

	assert.Equal(t, 1, log.Len())
	_, ok := log.Get("m1")
	assert.False(t, ok)
}

func TestMessageLog_ApplyUpdateReplacesWholesale(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	m.Reactions = []Reaction{{Emoji: "👍", UserID: "u1"}}
	log.Append(m)

	// Server-merged copy carries a different member's concurrent reaction.
	merged := m
	merged.Reactions = []Reaction{
		{Emoji: "👍", UserID: "u1"},
		{Emoji: "👍", UserID: "u2"},
	}
	log.ApplyUpdate(merged)

	got, _ := log.Get("m1")
	assert.Len(t, got.Reactions, 2)

	// Unknown id: skipped, not created.
	log.ApplyUpdate(msgAt("ghost", "u9", base))
	assert.Equal(t, 1, log.Len())
}

func TestMessageLog_StaleUpdateDoesNotResurrectTombstone(t *testing.T) {
	log := NewMessageLog()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	m := msgAt("m1", "u1", base)
	log.Append(m)
	log.SoftDelete([]string{"m1"})

	// A reaction update that was in flight when the delete landed.
	stale := m
	stale.Reactions = []Reaction{{Emoji: "👍", UserID: "u2"}}
	log.ApplyUpdate(stale)

	got, _ := log.Get("m1")
	assert.True(t, got.IsDeleted, "a stale update must not undo a delete")
	assert.Empty(t, got.Content)
	assert.Nil(t, got.Reactions)
}
