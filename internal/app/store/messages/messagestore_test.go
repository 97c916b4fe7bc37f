package messagestore_test

import (
	"errors"
	"testing"
	"time"

	messagestore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/messages"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAppend_AssignsIdentityAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	senderID := primitive.NewObjectID()

	before := time.Now().UTC().Add(-time.Second)
	msg, err := store.Append(ctx, models.Message{
		ChatID:     chatID,
		SenderID:   &senderID,
		SenderName: "Ada",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if msg.ID.IsZero() {
		t.Error("expected server-assigned id")
	}
	if msg.CreatedAt.Before(before) {
		t.Error("expected server-assigned created_at")
	}
}

func TestAppend_RejectsEmptyBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := messagestore.New(db)
	_, err := store.Append(ctx, models.Message{ChatID: primitive.NewObjectID()})
	if !errors.Is(err, messagestore.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestAppend_AttachmentOnlyIsValid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := messagestore.New(db)
	_, err := store.Append(ctx, models.Message{
		ChatID:      primitive.NewObjectID(),
		Attachments: []models.Attachment{{URL: "https://files.example/a.pdf", Name: "a.pdf"}},
	})
	if err != nil {
		t.Fatalf("attachment-only message should be valid: %v", err)
	}
}

func TestListByChat_OrdersByCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Inserted newest first: order must follow created_at, not insertion.
	m2 := fx.CreateMessage(ctx, chatID, sender, "second", base.Add(time.Minute))
	m1 := fx.CreateMessage(ctx, chatID, sender, "first", base)

	msgs, err := store.ListByChat(ctx, chatID)
	if err != nil {
		t.Fatalf("ListByChat failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != m1.ID || msgs[1].ID != m2.ID {
		t.Error("messages not ordered by created_at ascending")
	}
}

func TestSoftDelete_TombstonesInPlace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m1 := fx.CreateMessage(ctx, chatID, sender, "first", base)
	fx.CreateMessage(ctx, chatID, sender, "second", base.Add(time.Minute))

	n, err := store.SoftDelete(ctx, chatID, []primitive.ObjectID{m1.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 modified, got %d", n)
	}

	msgs, err := store.ListByChat(ctx, chatID)
	if err != nil {
		t.Fatalf("ListByChat failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("tombstone must keep its position; got %d messages", len(msgs))
	}
	got := msgs[0]
	if !got.IsDeleted || got.Content != "" || got.Attachments != nil || got.Reactions != nil {
		t.Errorf("tombstone not cleared: %+v", got)
	}
}

func TestPermanentDelete_RemovesDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m1 := fx.CreateMessage(ctx, chatID, sender, "first", base)

	n, err := store.PermanentDelete(ctx, chatID, []primitive.ObjectID{m1.ID})
	if err != nil {
		t.Fatalf("PermanentDelete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	msgs, _ := store.ListByChat(ctx, chatID)
	if len(msgs) != 0 {
		t.Errorf("expected empty log, got %d", len(msgs))
	}
}

func TestToggleReaction_AddThenRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	reactor := primitive.NewObjectID()

	m := fx.CreateMessage(ctx, chatID, sender, "react to me", time.Now().UTC())

	got, err := store.ToggleReaction(ctx, chatID, m.ID, reactor, "👍")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if len(got.Reactions) != 1 {
		t.Fatalf("expected 1 reaction, got %d", len(got.Reactions))
	}
	if got.Reactions[0].UserID != reactor || got.Reactions[0].Emoji != "👍" {
		t.Errorf("unexpected reaction: %+v", got.Reactions[0])
	}

	got, err = store.ToggleReaction(ctx, chatID, m.ID, reactor, "👍")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if len(got.Reactions) != 0 {
		t.Errorf("expected toggle-off to remove the reaction, got %d", len(got.Reactions))
	}
}

func TestToggleReaction_DistinctEmojisCoexist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	reactor := primitive.NewObjectID()

	m := fx.CreateMessage(ctx, chatID, primitive.NewObjectID(), "hi", time.Now().UTC())

	if _, err := store.ToggleReaction(ctx, chatID, m.ID, reactor, "👍"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	got, err := store.ToggleReaction(ctx, chatID, m.ID, reactor, "🎉")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(got.Reactions) != 2 {
		t.Errorf("same user, different emojis should both stick; got %d", len(got.Reactions))
	}
}

func TestToggleReaction_DeletedMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()

	m := fx.CreateMessage(ctx, chatID, primitive.NewObjectID(), "soon gone", time.Now().UTC())
	if _, err := store.SoftDelete(ctx, chatID, []primitive.ObjectID{m.ID}); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	_, err := store.ToggleReaction(ctx, chatID, m.ID, primitive.NewObjectID(), "👍")
	if !errors.Is(err, messagestore.ErrDeleted) {
		t.Fatalf("expected ErrDeleted, got %v", err)
	}
}

func TestToggleReaction_MissingMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := messagestore.New(db)
	_, err := store.ToggleReaction(ctx, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), "👍")
	if !errors.Is(err, messagestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestVisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	latest, err := store.LatestVisible(ctx, chatID)
	if err != nil {
		t.Fatalf("LatestVisible failed: %v", err)
	}
	if latest != nil {
		t.Error("expected nil for an empty log")
	}

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fx.CreateMessage(ctx, chatID, sender, "first", base)
	m2 := fx.CreateMessage(ctx, chatID, sender, "second", base.Add(time.Minute))

	latest, err = store.LatestVisible(ctx, chatID)
	if err != nil {
		t.Fatalf("LatestVisible failed: %v", err)
	}
	if latest == nil || latest.ID != m2.ID {
		t.Errorf("expected newest message, got %+v", latest)
	}

	// Tombstones still count: the preview renders "message deleted".
	if _, err := store.SoftDelete(ctx, chatID, []primitive.ObjectID{m2.ID}); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	latest, err = store.LatestVisible(ctx, chatID)
	if err != nil {
		t.Fatalf("LatestVisible failed: %v", err)
	}
	if latest == nil || latest.ID != m2.ID || !latest.IsDeleted {
		t.Errorf("expected tombstoned newest message, got %+v", latest)
	}
}

func TestDetachSender(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := messagestore.New(db)
	chatID := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	m := fx.CreateMessage(ctx, chatID, sender, "orphan me", time.Now().UTC())

	n, err := store.DetachSender(ctx, sender)
	if err != nil {
		t.Fatalf("DetachSender failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 modified, got %d", n)
	}

	got, err := store.GetByID(ctx, chatID, m.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SenderID != nil {
		t.Error("expected sender_id cleared")
	}
	if got.SenderName != "Test Sender" {
		t.Error("sender_name must survive account removal")
	}
}
