// internal/app/features/chats/handler.go
package chats

import (
	chatmemberstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chatmembers"
	chatstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chats"
	messagestore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/messages"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all chat API handlers. Every handler persists through the
// stores first and publishes to the hub only after the write commits, so
// no client ever sees a pushed event for state that does not exist.
type Handler struct {
	DB       *mongo.Database
	Hub      *realtime.Hub
	Chats    *chatstore.Store
	Messages *messagestore.Store
	Members  *chatmemberstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a chats Handler.
func NewHandler(db *mongo.Database, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Hub:      hub,
		Chats:    chatstore.New(db),
		Messages: messagestore.New(db),
		Members:  chatmemberstore.New(db),
		Log:      logger,
	}
}
