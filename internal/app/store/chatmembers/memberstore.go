// internal/app/store/chatmembers/memberstore.go
package chatmemberstore

import (
	"context"
	"errors"
	"time"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("chat_members"),
		users: db.Collection("users"),
	}
}

var (
	errBadRole = errors.New(`role must be "admin", "instructor", or "student"`)

	ErrDuplicateMembership = errors.New("user is already a member of this chat")
	ErrNotAMember          = errors.New("user is not a member of this chat")
)

func validRole(role string) bool {
	return role == "admin" || role == "instructor" || role == "student"
}

// Add creates a single membership. The unique (chat_id, user_id) index
// rejects duplicates.
func (s *Store) Add(ctx context.Context, chatID, userID primitive.ObjectID, role string) error {
	if !validRole(role) {
		return errBadRole
	}
	doc := bson.M{
		"chat_id":    chatID,
		"user_id":    userID,
		"role":       role,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// AddManyResult contains counts from a batch membership add.
type AddManyResult struct {
	Added      int
	Duplicates int
}

// AddMany inserts memberships for every user id, silently counting
// users who already belong to the chat. The server validates candidates;
// clients replace their roster wholesale with the result of Roster.
func (s *Store) AddMany(ctx context.Context, chatID primitive.ObjectID, userIDs []primitive.ObjectID, role string) (AddManyResult, error) {
	if len(userIDs) == 0 {
		return AddManyResult{}, nil
	}
	if !validRole(role) {
		return AddManyResult{}, errBadRole
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(userIDs))
	for _, uid := range userIDs {
		docs = append(docs, bson.M{
			"chat_id":    chatID,
			"user_id":    uid,
			"role":       role,
			"created_at": now,
		})
	}

	// ordered:false attempts every insert even when some hit the unique
	// (chat_id, user_id) index.
	opts := options.InsertMany().SetOrdered(false)
	result, err := s.c.InsertMany(ctx, docs, opts)

	added := 0
	if result != nil {
		added = len(result.InsertedIDs)
	}
	out := AddManyResult{Added: added, Duplicates: len(userIDs) - added}

	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return out, err
				}
			}
			// All failures were duplicates - expected, not an error.
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// Remove deletes the membership document for (chatID, userID).
func (s *Store) Remove(ctx context.Context, chatID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"chat_id": chatID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotAMember
	}
	return nil
}

// SetRole reassigns a member's role within the chat. Memberships are
// never otherwise mutated in place.
func (s *Store) SetRole(ctx context.Context, chatID, userID primitive.ObjectID, role string) error {
	if !validRole(role) {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"chat_id": chatID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotAMember
	}
	return nil
}

// RoleOf returns the user's role within the chat and whether they are a
// member at all. Callers must not cache the result across requests:
// elevated-permission checks recompute it on every read.
func (s *Store) RoleOf(ctx context.Context, chatID, userID primitive.ObjectID) (string, bool, error) {
	var m models.ChatMembership
	err := s.c.FindOne(ctx, bson.M{"chat_id": chatID, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Role, true, nil
}

// Roster returns all members of a chat joined with user display data,
// ordered by join time. This is the wholesale payload clients swap in
// after any roster mutation.
func (s *Store) Roster(ctx context.Context, chatID primitive.ObjectID) ([]models.RosterEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.ChatMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}

	proj := options.Find().SetProjection(bson.M{"full_name": 1, "role": 1})
	ucur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer ucur.Close(ctx)

	usersByID := map[primitive.ObjectID]models.User{}
	for ucur.Next(ctx) {
		var u models.User
		if err := ucur.Decode(&u); err != nil {
			continue
		}
		usersByID[u.ID] = u
	}

	roster := make([]models.RosterEntry, 0, len(memberships))
	for _, m := range memberships {
		u := usersByID[m.UserID]
		roster = append(roster, models.RosterEntry{
			UserID:     m.UserID,
			FullName:   u.FullName,
			GlobalRole: u.Role,
			ChatRole:   m.Role,
		})
	}
	return roster, nil
}

// UserIDs returns the member user ids for a chat, for realtime fan-out.
func (s *Store) UserIDs(ctx context.Context, chatID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"chat_id": chatID},
		options.Find().SetProjection(bson.M{"user_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.ChatMembership
		if err := cur.Decode(&m); err != nil {
			continue
		}
		ids = append(ids, m.UserID)
	}
	return ids, cur.Err()
}

// ChatIDsForUser resolves the chats a user belongs to, for GET /chats/mine.
func (s *Store) ChatIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"chat_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.ChatMembership
		if err := cur.Decode(&m); err != nil {
			continue
		}
		ids = append(ids, m.ChatID)
	}
	return ids, cur.Err()
}

// DeleteByChat removes every membership for a chat (chat-delete cascade).
func (s *Store) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
