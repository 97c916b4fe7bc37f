// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"time"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrEmptyMessage rejects a send with neither text nor attachments.
	ErrEmptyMessage = errors.New("message must have content or at least one attachment")
	// ErrNotFound is returned when the target message does not exist in
	// the given chat. Store-level delete operations do NOT return it:
	// deleting an id that is already gone is a silent no-op under
	// eventual consistency.
	ErrNotFound = errors.New("message not found")
	// ErrDeleted is returned when reacting to a tombstoned message.
	ErrDeleted = errors.New("message has been deleted")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_messages")}
}

// Append stores a new message, assigning the server-authoritative id and
// creation time. Clients never generate message identity; dedup across
// REST and push delivery keys on the id assigned here.
func (s *Store) Append(ctx context.Context, m models.Message) (models.Message, error) {
	if !m.HasBody() {
		return models.Message{}, ErrEmptyMessage
	}
	m.ID = primitive.NewObjectID()
	m.IsDeleted = false
	m.Reactions = nil
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListByChat returns the full log ordered by created_at ascending with
// _id as a stable tiebreak. created_at is the ordering key, not insert
// order: REST and push writes may land out of sequence.
func (s *Store) ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Store) GetByID(ctx context.Context, chatID, id primitive.ObjectID) (models.Message, error) {
	var m models.Message
	err := s.c.FindOne(ctx, bson.M{"_id": id, "chat_id": chatID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Message{}, ErrNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListByIDs returns the subset of ids that exist in the chat. Used by
// handlers to authorize deletes against the actual senders.
func (s *Store) ListByIDs(ctx context.Context, chatID primitive.ObjectID, ids []primitive.ObjectID) ([]models.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"chat_id": chatID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SoftDelete tombstones the given messages: is_deleted is set and the
// content, attachments, and reactions are cleared. Documents keep their
// position in the log. Ids not present (never loaded, or already
// permanently removed by another member) are silently skipped.
func (s *Store) SoftDelete(ctx context.Context, chatID primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"chat_id": chatID, "_id": bson.M{"$in": ids}},
		bson.M{
			"$set":   bson.M{"is_deleted": true, "content": ""},
			"$unset": bson.M{"attachments": "", "reactions": ""},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PermanentDelete removes the given messages from the log entirely.
// A permanently-deleted message cannot be restored.
func (s *Store) PermanentDelete(ctx context.Context, chatID primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"chat_id": chatID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ToggleReaction applies add-if-absent / remove-if-present semantics for
// (message, user, emoji) and returns the updated message. The returned
// reaction set is authoritative: clients replace theirs wholesale.
//
// Two guarded updates keep the at-most-one-per-triple invariant without a
// transaction: the $pull only matches when the reaction exists, and the
// $push filter excludes documents that already carry it, so a concurrent
// toggle can never produce a duplicate entry.
func (s *Store) ToggleReaction(ctx context.Context, chatID, msgID, userID primitive.ObjectID, emoji string) (models.Message, error) {
	reaction := models.Reaction{Emoji: emoji, UserID: userID}
	match := bson.M{"$elemMatch": bson.M{"emoji": emoji, "user_id": userID}}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": msgID, "chat_id": chatID, "is_deleted": false, "reactions": match},
		bson.M{"$pull": bson.M{"reactions": bson.M{"emoji": emoji, "user_id": userID}}})
	if err != nil {
		return models.Message{}, err
	}

	if res.ModifiedCount == 0 {
		res, err = s.c.UpdateOne(ctx,
			bson.M{
				"_id":        msgID,
				"chat_id":    chatID,
				"is_deleted": false,
				"reactions":  bson.M{"$not": match},
			},
			bson.M{"$push": bson.M{"reactions": reaction}})
		if err != nil {
			return models.Message{}, err
		}
		if res.MatchedCount == 0 {
			// Neither guard matched: the message is gone or tombstoned.
			m, getErr := s.GetByID(ctx, chatID, msgID)
			if getErr != nil {
				return models.Message{}, getErr
			}
			if m.IsDeleted {
				return models.Message{}, ErrDeleted
			}
			// Lost a race with another toggle of the same triple; the
			// current document is still the authoritative answer.
			return m, nil
		}
	}

	return s.GetByID(ctx, chatID, msgID)
}

// LatestVisible returns the newest message in the chat, tombstones
// included (a tombstone still previews as "message deleted"), or nil
// when the log is empty. Used to refresh the directory preview after a
// permanent delete.
func (s *Store) LatestVisible(ctx context.Context, chatID primitive.ObjectID) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	var m models.Message
	err := s.c.FindOne(ctx, bson.M{"chat_id": chatID}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteByChat removes every message in a chat. Returns the number of
// documents deleted. Used by the chat-delete cascade.
func (s *Store) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DetachSender nulls out sender references after an account removal.
// Messages survive their sender; the log never loses entries because a
// user left the platform.
func (s *Store) DetachSender(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"sender_id": userID},
		bson.M{"$unset": bson.M{"sender_id": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
