package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/database/dbtest"
	"github.com/teamkrews/krews-chat/internal/models"
	"gorm.io/gorm"
)

type fixture struct {
	db        *database.Database
	workspace *models.Workspace
	users     []*models.User
}

func newFixture(t *testing.T, userCount int) *fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)

	ws := &models.Workspace{Name: "krews"}
	if err := db.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	f := &fixture{db: db, workspace: ws}
	for i := 0; i < userCount; i++ {
		u := &models.User{
			LoginID:      string(rune('a'+i)) + "-login",
			NickName:     string(rune('A' + i)),
			PasswordHash: "x",
		}
		if err := db.SaveUser(ctx, u); err != nil {
			t.Fatalf("SaveUser: %v", err)
		}
		f.users = append(f.users, u)
	}
	return f
}

// room creates a chat room owned by users[owner] with every other fixture user as member.
func (f *fixture) room(t *testing.T, owner int) (*models.ChatRoom, []*models.ChatRoomMembership) {
	t.Helper()
	ctx := context.Background()

	room := &models.ChatRoom{UserCnt: len(f.users)}
	if err := f.db.CreateChatRoom(ctx, room); err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}

	var ms []*models.ChatRoomMembership
	for i, u := range f.users {
		role := models.RoleMember
		if i == owner {
			role = models.RoleOwner
		}
		m := &models.ChatRoomMembership{
			ChatRoomID:  room.ID,
			UserID:      u.ID,
			WorkspaceID: f.workspace.ID,
			Role:        role,
		}
		if err := f.db.CreateMembership(ctx, m); err != nil {
			t.Fatalf("CreateMembership: %v", err)
		}
		ms = append(ms, m)
	}
	return room, ms
}

func TestGetChatRoom_NotFound(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.db.GetChatRoom(context.Background(), 42)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestFindMembershipsByRoomRole(t *testing.T) {
	f := newFixture(t, 3)
	room, _ := f.room(t, 0)
	ctx := context.Background()

	owners, err := f.db.FindMembershipsByRoomRole(ctx, room.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("FindMembershipsByRoomRole: %v", err)
	}
	if len(owners) != 1 || owners[0].UserID != f.users[0].ID {
		t.Fatalf("Expected a single owner membership for user %d, got %+v", f.users[0].ID, owners)
	}
	if owners[0].User.NickName != "A" {
		t.Errorf("Expected the owner's user to be preloaded, got %q", owners[0].User.NickName)
	}

	members, err := f.db.FindMembershipsByRoomRole(ctx, room.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("FindMembershipsByRoomRole: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Expected 2 member memberships, got %d", len(members))
	}
	if members[0].ID > members[1].ID {
		t.Error("Expected memberships ordered by id")
	}
}

func TestUpdateMembershipsNewState(t *testing.T) {
	f := newFixture(t, 3)
	room, ms := f.room(t, 0)
	ctx := context.Background()

	if err := f.db.UpdateMembershipNewState(ctx, ms[1].ID, true); err != nil {
		t.Fatalf("UpdateMembershipNewState: %v", err)
	}

	n, err := f.db.UpdateMembershipsNewState(ctx, room.ID, true, true)
	if err != nil {
		t.Fatalf("UpdateMembershipsNewState: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected only the 2 false rows to be updated, got %d", n)
	}

	n, err = f.db.UpdateMembershipsNewState(ctx, room.ID, false, false)
	if err != nil {
		t.Fatalf("UpdateMembershipsNewState: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected every row to be updated without the filter, got %d", n)
	}

	all, err := f.db.FindMembershipsByRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	for _, m := range all {
		if m.NewState {
			t.Errorf("Expected membership %d to be reset to false", m.ID)
		}
	}
}

func TestUpdateMembershipsLastMessage_ScopedToRoom(t *testing.T) {
	f := newFixture(t, 2)
	room, _ := f.room(t, 0)
	other, _ := f.room(t, 1)
	ctx := context.Background()

	msg := &models.Message{ChatRoomID: room.ID, SenderID: f.users[0].ID, Content: "hello"}
	if err := f.db.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	n, err := f.db.UpdateMembershipsLastMessage(ctx, room.ID, msg.ID)
	if err != nil {
		t.Fatalf("UpdateMembershipsLastMessage: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows updated, got %d", n)
	}

	got, err := f.db.FindMembershipsByRoomRole(ctx, room.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("FindMembershipsByRoomRole: %v", err)
	}
	if got[0].LastMessage == nil || got[0].LastMessage.Content != "hello" {
		t.Fatalf("Expected last message to be preloaded, got %+v", got[0].LastMessage)
	}
	if got[0].LastMessage.Sender.NickName != "A" {
		t.Errorf("Expected last message sender to be preloaded, got %q", got[0].LastMessage.Sender.NickName)
	}

	untouched, err := f.db.FindMembershipsByRoom(ctx, other.ID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	for _, m := range untouched {
		if m.LastMessageID != nil {
			t.Errorf("Expected membership %d of another room to keep a nil last message", m.ID)
		}
	}
}

func TestUpdateMembershipsLastMessage_NeverMovesBackward(t *testing.T) {
	f := newFixture(t, 2)
	room, _ := f.room(t, 0)
	ctx := context.Background()

	older := &models.Message{ChatRoomID: room.ID, SenderID: f.users[0].ID, Content: "older"}
	newer := &models.Message{ChatRoomID: room.ID, SenderID: f.users[1].ID, Content: "newer"}
	for _, msg := range []*models.Message{older, newer} {
		if err := f.db.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	if _, err := f.db.UpdateMembershipsLastMessage(ctx, room.ID, newer.ID); err != nil {
		t.Fatalf("UpdateMembershipsLastMessage: %v", err)
	}
	n, err := f.db.UpdateMembershipsLastMessage(ctx, room.ID, older.ID)
	if err != nil {
		t.Fatalf("UpdateMembershipsLastMessage: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no rows updated for an older message, got %d", n)
	}

	all, err := f.db.FindMembershipsByRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	for _, m := range all {
		if m.LastMessageID == nil || *m.LastMessageID != newer.ID {
			t.Errorf("Expected membership %d to keep message %d, got %v", m.ID, newer.ID, m.LastMessageID)
		}
	}
}

func TestTransaction_RollsBack(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	boom := errors.New("boom")

	var roomID uint64
	err := f.db.Transaction(ctx, func(tx *database.Database) error {
		room := &models.ChatRoom{UserCnt: 1}
		if err := tx.CreateChatRoom(ctx, room); err != nil {
			return err
		}
		roomID = room.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the callback error, got %v", err)
	}

	if _, err := f.db.GetChatRoom(ctx, roomID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected the room insert to be rolled back, got %v", err)
	}
}

func TestGetRoomMessages_Paging(t *testing.T) {
	f := newFixture(t, 2)
	room, _ := f.room(t, 0)
	ctx := context.Background()

	var ids []uint64
	for _, content := range []string{"one", "two", "three", "four"} {
		msg := &models.Message{ChatRoomID: room.ID, SenderID: f.users[0].ID, Content: content}
		if err := f.db.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	latest, err := f.db.GetRoomMessages(ctx, room.ID, 2, nil)
	if err != nil {
		t.Fatalf("GetRoomMessages: %v", err)
	}
	if len(latest) != 2 || latest[0].Content != "three" || latest[1].Content != "four" {
		t.Fatalf("Expected [three four], got %+v", latest)
	}

	older, err := f.db.GetRoomMessages(ctx, room.ID, 10, &ids[2])
	if err != nil {
		t.Fatalf("GetRoomMessages: %v", err)
	}
	if len(older) != 2 || older[0].Content != "one" || older[1].Content != "two" {
		t.Fatalf("Expected [one two], got %+v", older)
	}
}
