// Package chatpolicy provides authorization policies for group chats.
//
// Authorization rules:
//   - Platform admins hold elevated permission in every chat, whether or
//     not they appear on its roster.
//   - Chat admins and chat instructors hold elevated permission within
//     that chat only; the chat role is independent of the platform role.
//   - Elevated permission gates: deleting other members' messages,
//     deleting the chat, and mutating the roster. Viewing the roster is
//     open to any member.
//
// Every predicate is pure and recomputed per request: roles and
// memberships can change between renders, and a stale elevated check has
// security consequences.
package chatpolicy

import (
	"context"

	chatmemberstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chatmembers"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsElevated is the single elevation predicate: global admin, or an
// admin/instructor role within the chat. Call sites must not duplicate
// this logic with ad-hoc roster scans.
func IsElevated(globalRole, chatRole string) bool {
	if globalRole == "admin" {
		return true
	}
	return chatRole == "admin" || chatRole == "instructor"
}

// Membership is the resolved (member?, chat role) pair for one user in
// one chat, plus their platform role.
type Membership struct {
	GlobalRole string
	ChatRole   string
	IsMember   bool
}

// Elevated reports whether this membership carries elevated permission.
func (m Membership) Elevated() bool {
	return IsElevated(m.GlobalRole, m.ChatRole)
}

// Resolve looks up the user's chat role fresh from the database.
// Platform admins resolve as elevated even without a roster entry.
func Resolve(ctx context.Context, db *mongo.Database, chatID, userID primitive.ObjectID, globalRole string) (Membership, error) {
	role, isMember, err := chatmemberstore.New(db).RoleOf(ctx, chatID, userID)
	if err != nil {
		return Membership{}, err
	}
	return Membership{GlobalRole: globalRole, ChatRole: role, IsMember: isMember}, nil
}

// CanView reports whether the user may read the chat at all: members
// plus platform admins.
func (m Membership) CanView() bool {
	return m.IsMember || m.GlobalRole == "admin"
}

// CanSend reports whether the user may post messages. Only actual
// members send; a platform admin must join (or be added) first so every
// message's sender is (or was) on the roster.
func (m Membership) CanSend() bool {
	return m.IsMember
}

// CanManageRoster gates adding/removing members and role reassignment.
func (m Membership) CanManageRoster() bool {
	return m.Elevated()
}

// CanDeleteChat gates deleting the chat itself.
func (m Membership) CanDeleteChat() bool {
	return m.Elevated()
}

// CanDeleteMessage reports whether the user may delete the message sent
// by senderID. Anyone may delete their own; others' messages require
// elevation. senderID is nil when the sender's account was removed;
// those are treated as "someone else's".
func (m Membership) CanDeleteMessage(userID primitive.ObjectID, senderID *primitive.ObjectID) bool {
	if senderID != nil && *senderID == userID {
		return m.IsMember
	}
	return m.Elevated()
}
