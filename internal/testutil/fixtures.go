// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given platform role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Email:     email,
		Role:      role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Email:     email,
		Role:      "student",
		Status:    "disabled",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}
	return user
}

// CreateChat creates a test chat attached to a fresh course id.
func (f *Fixtures) CreateChat(ctx context.Context, name string) models.Chat {
	f.t.Helper()

	now := time.Now().UTC()
	chat := models.Chat{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CourseID:  primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("chats").InsertOne(ctx, chat); err != nil {
		f.t.Fatalf("failed to create test chat: %v", err)
	}
	return chat
}

// AddMember creates a membership linking a user to a chat with a role.
func (f *Fixtures) AddMember(ctx context.Context, chatID, userID primitive.ObjectID, role string) models.ChatMembership {
	f.t.Helper()

	m := models.ChatMembership{
		ID:        primitive.NewObjectID(),
		ChatID:    chatID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("chat_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateMessage creates a message in a chat at the given time.
func (f *Fixtures) CreateMessage(ctx context.Context, chatID, senderID primitive.ObjectID, content string, at time.Time) models.Message {
	f.t.Helper()

	msg := models.Message{
		ID:         primitive.NewObjectID(),
		ChatID:     chatID,
		SenderID:   &senderID,
		SenderName: "Test Sender",
		Content:    content,
		CreatedAt:  at,
	}

	if _, err := f.db.Collection("chat_messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}
