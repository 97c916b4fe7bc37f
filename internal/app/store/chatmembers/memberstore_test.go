package chatmemberstore_test

import (
	"errors"
	"testing"

	chatmemberstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/chatmembers"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/indexes"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdd_RejectsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if err := store.Add(ctx, chatID, userID, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := store.Add(ctx, chatID, userID, "student")
	if !errors.Is(err, chatmemberstore.ErrDuplicateMembership) {
		t.Fatalf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestAdd_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	err := store.Add(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "owner")
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestAddMany_CountsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	u3 := primitive.NewObjectID()

	if err := store.Add(ctx, chatID, u1, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	result, err := store.AddMany(ctx, chatID, []primitive.ObjectID{u1, u2, u3}, "student")
	if err != nil {
		t.Fatalf("AddMany failed: %v", err)
	}
	if result.Added != 2 {
		t.Errorf("expected 2 added, got %d", result.Added)
	}
	if result.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", result.Duplicates)
	}

	ids, err := store.UserIDs(ctx, chatID)
	if err != nil {
		t.Fatalf("UserIDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 members, got %d", len(ids))
	}
}

func TestRoleOf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	role, isMember, err := store.RoleOf(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if isMember || role != "" {
		t.Errorf("expected non-member, got role=%q member=%v", role, isMember)
	}

	if err := store.Add(ctx, chatID, userID, "instructor"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	role, isMember, err = store.RoleOf(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if !isMember || role != "instructor" {
		t.Errorf("expected instructor member, got role=%q member=%v", role, isMember)
	}
}

func TestSetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	err := store.SetRole(ctx, chatID, userID, "admin")
	if !errors.Is(err, chatmemberstore.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}

	if err := store.Add(ctx, chatID, userID, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.SetRole(ctx, chatID, userID, "admin"); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}

	role, _, err := store.RoleOf(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != "admin" {
		t.Errorf("expected admin, got %q", role)
	}
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	err := store.Remove(ctx, chatID, userID)
	if !errors.Is(err, chatmemberstore.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}

	if err := store.Add(ctx, chatID, userID, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Remove(ctx, chatID, userID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	_, isMember, err := store.RoleOf(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if isMember {
		t.Error("expected membership removed")
	}
}

func TestRoster_JoinsUserData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	store := chatmemberstore.New(db)
	chat := fx.CreateChat(ctx, "Algebra I")

	teacher := fx.CreateUser(ctx, "Grace Hopper", "grace@test.com", "instructor")
	student := fx.CreateUser(ctx, "Alan Kay", "alan@test.com", "student")
	fx.AddMember(ctx, chat.ID, teacher.ID, "instructor")
	fx.AddMember(ctx, chat.ID, student.ID, "student")

	roster, err := store.Roster(ctx, chat.ID)
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 roster entries, got %d", len(roster))
	}

	if roster[0].FullName != "Grace Hopper" {
		t.Errorf("expected join order, got %q first", roster[0].FullName)
	}
	if roster[0].GlobalRole != "instructor" || roster[0].ChatRole != "instructor" {
		t.Errorf("unexpected roles: %+v", roster[0])
	}
	if roster[1].ChatRole != "student" {
		t.Errorf("unexpected chat role: %+v", roster[1])
	}
}

func TestChatIDsForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	userID := primitive.NewObjectID()
	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()

	if err := store.Add(ctx, c1, userID, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, c2, userID, "student"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ids, err := store.ChatIDsForUser(ctx, userID)
	if err != nil {
		t.Fatalf("ChatIDsForUser failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 chat ids, got %d", len(ids))
	}
}

func TestDeleteByChat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := chatmemberstore.New(db)
	chatID := primitive.NewObjectID()

	for range 3 {
		if err := store.Add(ctx, chatID, primitive.NewObjectID(), "student"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	n, err := store.DeleteByChat(ctx, chatID)
	if err != nil {
		t.Fatalf("DeleteByChat failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}
}
