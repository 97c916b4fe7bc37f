// internal/app/store/chats/chatstore.go
package chatstore

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

var ErrEmptyName = errors.New("chat name must not be empty")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chats")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Chat, error) {
	var ch models.Chat
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ch); err != nil {
		return models.Chat{}, err
	}
	return ch, nil
}

func (s *Store) Create(ctx context.Context, ch models.Chat) (models.Chat, error) {
	if ch.Name == "" {
		return models.Chat{}, ErrEmptyName
	}
	now := time.Now().UTC()
	ch.ID = primitive.NewObjectID()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ch); err != nil {
		return models.Chat{}, err
	}
	return ch, nil
}

// ListByIDs returns the chats with the given ids ordered by recency
// (updated_at descending). This backs GET /chats/mine: the caller
// resolves the user's chat ids from the membership store first.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Chat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chats []models.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// TouchPreview sets the chat's denormalized preview to msg and advances
// updated_at to the message's server-assigned creation time. Recency is
// driven by the message timestamp, never by local processing time, so
// every replica converges on the same directory order.
func (s *Store) TouchPreview(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error {
	_, err := s.c.UpdateByID(ctx, chatID, bson.M{"$set": bson.M{
		"preview":    msg,
		"updated_at": msg.CreatedAt,
	}})
	return err
}

// SetPreview replaces the preview outright; preview may be nil when the
// last visible message was removed. updated_at is left untouched so the
// chat does not jump in the directory when a message is deleted.
func (s *Store) SetPreview(ctx context.Context, chatID primitive.ObjectID, preview *models.Message) error {
	update := bson.M{"$set": bson.M{"preview": preview}}
	if preview == nil {
		update = bson.M{"$unset": bson.M{"preview": ""}}
	}
	_, err := s.c.UpdateByID(ctx, chatID, update)
	return err
}

// Delete removes a chat by ID. Returns the number of documents deleted
// (0 or 1). Memberships and messages are cascaded by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
