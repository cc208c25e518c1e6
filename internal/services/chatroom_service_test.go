package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
)

func TestDistinctUserIDs(t *testing.T) {
	tests := []struct {
		name    string
		creator uint64
		ids     []uint64
		want    []uint64
	}{
		{"no participants", 1, nil, []uint64{1}},
		{"duplicates collapse", 1, []uint64{2, 2, 3}, []uint64{1, 2, 3}},
		{"creator listed again", 1, []uint64{1, 2, 1}, []uint64{1, 2}},
		{"order kept", 5, []uint64{9, 3, 9, 7}, []uint64{5, 9, 3, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distinctUserIDs(tt.creator, tt.ids)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCreateChatRoom_DeduplicatesParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "krews")
	a, b, c := env.user(t, "a"), env.user(t, "b"), env.user(t, "c")

	resp, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID,
		UserIDs:       []uint64{b.ID, b.ID, c.ID},
		WorkspaceUUID: ws.UUID,
	})
	if err != nil {
		t.Fatalf("CreateChatRoom returned error: %v", err)
	}
	if resp.WorkspaceUUID != ws.UUID {
		t.Errorf("Expected workspace UUID %s, got %s", ws.UUID, resp.WorkspaceUUID)
	}

	room, err := env.rooms.FindByID(ctx, resp.ChatRoomID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if room.UserCnt != 3 {
		t.Errorf("Expected user count 3, got %d", room.UserCnt)
	}

	ms, err := env.db.FindMembershipsByRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	if len(ms) != 3 {
		t.Fatalf("Expected 3 memberships, got %d", len(ms))
	}

	owners := 0
	for _, m := range ms {
		if m.WorkspaceID != ws.ID {
			t.Errorf("Expected membership %d in workspace %d, got %d", m.ID, ws.ID, m.WorkspaceID)
		}
		if m.IsCreator() {
			owners++
			if m.UserID != a.ID {
				t.Errorf("Expected the owner to be the creator %d, got %d", a.ID, m.UserID)
			}
		}
		if m.NewState || m.LastMessageID != nil {
			t.Errorf("Expected a fresh membership, got %+v", m)
		}
	}
	if owners != 1 {
		t.Errorf("Expected exactly one owner membership, got %d", owners)
	}
}

func TestCreateChatRoom_WorkspaceNotFound(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "a")

	_, err := env.rooms.CreateChatRoom(context.Background(), dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID,
		WorkspaceUUID: uuid.New(),
	})
	if !apperr.HasCode(err, apperr.WorkspaceNotFound) {
		t.Fatalf("Expected WorkspaceNotFound, got %v", err)
	}
}

func TestCreateChatRoom_UserNotFoundWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "krews")
	a := env.user(t, "a")

	_, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID,
		UserIDs:       []uint64{999},
		WorkspaceUUID: ws.UUID,
	})
	if !apperr.HasCode(err, apperr.UserNotFound) {
		t.Fatalf("Expected UserNotFound, got %v", err)
	}

	sent, err := env.rooms.GetChatRoomsOfSent(ctx, a.ID, ws.UUID)
	if err != nil {
		t.Fatalf("GetChatRoomsOfSent: %v", err)
	}
	if len(sent) != 0 {
		t.Errorf("Expected no rooms after a failed create, got %d", len(sent))
	}
	if _, err := env.rooms.FindByID(ctx, 1); !apperr.HasCode(err, apperr.ChatRoomNotFound) {
		t.Errorf("Expected no chat room row, got %v", err)
	}
}

func TestChatRoomLists_SentAndReceived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "krews")
	a, b := env.user(t, "a"), env.user(t, "b")

	created, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID,
		UserIDs:       []uint64{b.ID},
		WorkspaceUUID: ws.UUID,
	})
	if err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}

	bMembership, err := env.db.FindMembershipByRoomAndUser(ctx, created.ChatRoomID, b.ID)
	if err != nil {
		t.Fatalf("FindMembershipByRoomAndUser: %v", err)
	}
	aMembership, err := env.db.FindMembershipByRoomAndUser(ctx, created.ChatRoomID, a.ID)
	if err != nil {
		t.Fatalf("FindMembershipByRoomAndUser: %v", err)
	}

	sent, err := env.rooms.GetChatRoomsOfSent(ctx, a.ID, ws.UUID)
	if err != nil {
		t.Fatalf("GetChatRoomsOfSent: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("Expected one sent summary, got %d", len(sent))
	}
	got := sent[0]
	if got.ChatRoomID != created.ChatRoomID || got.ChatRoomUserID != bMembership.ID {
		t.Errorf("Expected room %d / counterpart %d, got %+v", created.ChatRoomID, bMembership.ID, got)
	}
	if got.TargetUser.NickName != "b" || got.TargetUser.ProfileImageURL == "" {
		t.Errorf("Expected target user b with avatar, got %+v", got.TargetUser)
	}
	if got.LastMessage != (dto.MessageResponse{}) {
		t.Errorf("Expected empty last message placeholder, got %+v", got.LastMessage)
	}

	received, err := env.rooms.GetChatRoomsOfReceived(ctx, b.ID, ws.UUID)
	if err != nil {
		t.Fatalf("GetChatRoomsOfReceived: %v", err)
	}
	if len(received) != 1 || received[0].ChatRoomUserID != aMembership.ID || received[0].TargetUser.NickName != "a" {
		t.Fatalf("Expected one received summary showing the creator, got %+v", received)
	}

	if none, _ := env.rooms.GetChatRoomsOfReceived(ctx, a.ID, ws.UUID); len(none) != 0 {
		t.Errorf("Expected the creator to have no received rooms, got %+v", none)
	}
	if none, _ := env.rooms.GetChatRoomsOfSent(ctx, b.ID, ws.UUID); len(none) != 0 {
		t.Errorf("Expected the recipient to have no sent rooms, got %+v", none)
	}
}

func TestChatRoomLists_OneEntryPerCounterpart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ws := env.workspace(t, "krews")
	other := env.workspace(t, "elsewhere")
	a, b, c := env.user(t, "a"), env.user(t, "b"), env.user(t, "c")

	if _, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID, UserIDs: []uint64{b.ID, c.ID}, WorkspaceUUID: ws.UUID,
	}); err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}
	if _, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID, UserIDs: []uint64{b.ID}, WorkspaceUUID: other.UUID,
	}); err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}

	sent, err := env.rooms.GetChatRoomsOfSent(ctx, a.ID, ws.UUID)
	if err != nil {
		t.Fatalf("GetChatRoomsOfSent: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("Expected one summary per counterpart (2), got %d", len(sent))
	}
	if sent[0].ChatRoomID != sent[1].ChatRoomID {
		t.Errorf("Expected both summaries to reference the same room, got %+v", sent)
	}
	if sent[0].TargetUser.NickName != "b" || sent[1].TargetUser.NickName != "c" {
		t.Errorf("Expected counterparts b then c, got %+v", sent)
	}
}

func TestChatRoomLists_WorkspaceNotFound(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "a")

	_, err := env.rooms.GetChatRoomsOfSent(context.Background(), a.ID, uuid.New())
	if !apperr.HasCode(err, apperr.WorkspaceNotFound) {
		t.Fatalf("Expected WorkspaceNotFound, got %v", err)
	}
}

func createPair(t *testing.T, env *testEnv) (roomID uint64, a, b *models.User, ws *models.Workspace) {
	t.Helper()
	ws = env.workspace(t, "krews")
	a, b = env.user(t, "a"), env.user(t, "b")
	resp, err := env.rooms.CreateChatRoom(context.Background(), dto.ChatRoomCreationRequest{
		CreatorUserID: a.ID, UserIDs: []uint64{b.ID}, WorkspaceUUID: ws.UUID,
	})
	if err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}
	return resp.ChatRoomID, a, b, ws
}

func newStates(t *testing.T, env *testEnv, roomID uint64) map[uint64]bool {
	t.Helper()
	ms, err := env.db.FindMembershipsByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	out := make(map[uint64]bool, len(ms))
	for _, m := range ms {
		out[m.UserID] = m.NewState
	}
	return out
}

func TestSetNewStateForRoom(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	roomID, a, b, _ := createPair(t, env)

	if err := env.rooms.SetNewStateForRoom(ctx, dto.ChatRoomNewStateRequest{ChatRoomID: roomID, RequesterID: a.ID, NewState: true}); err != nil {
		t.Fatalf("SetNewStateForRoom: %v", err)
	}
	states := newStates(t, env, roomID)
	if !states[a.ID] || !states[b.ID] {
		t.Fatalf("Expected every membership to be true, got %v", states)
	}

	// Already-true rows stay true when asked again.
	if err := env.rooms.SetNewStateForRoom(ctx, dto.ChatRoomNewStateRequest{ChatRoomID: roomID, RequesterID: a.ID, NewState: true}); err != nil {
		t.Fatalf("SetNewStateForRoom: %v", err)
	}
	if states := newStates(t, env, roomID); !states[a.ID] || !states[b.ID] {
		t.Fatalf("Expected memberships to remain true, got %v", states)
	}

	// With the default filter a reset to false does not reach rows that are true.
	if err := env.rooms.SetNewStateForRoom(ctx, dto.ChatRoomNewStateRequest{ChatRoomID: roomID, RequesterID: a.ID, NewState: false}); err != nil {
		t.Fatalf("SetNewStateForRoom: %v", err)
	}
	if states := newStates(t, env, roomID); !states[a.ID] || !states[b.ID] {
		t.Fatalf("Expected the default filter to skip true rows, got %v", states)
	}

	all := false
	if err := env.rooms.SetNewStateForRoom(ctx, dto.ChatRoomNewStateRequest{
		ChatRoomID: roomID, RequesterID: b.ID, NewState: false, OnlyIfCurrentlyFalse: &all,
	}); err != nil {
		t.Fatalf("SetNewStateForRoom: %v", err)
	}
	if states := newStates(t, env, roomID); states[a.ID] || states[b.ID] {
		t.Fatalf("Expected every membership to be reset, got %v", states)
	}
}

func TestSetNewStateForRoom_NotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.rooms.SetNewStateForRoom(context.Background(), dto.ChatRoomNewStateRequest{ChatRoomID: 77, NewState: true})
	if !errors.Is(err, apperr.New(apperr.ChatRoomNotFound)) {
		t.Fatalf("Expected ChatRoomNotFound, got %v", err)
	}
}

func TestSetNewStateForMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	roomID, a, b, _ := createPair(t, env)

	bMembership, err := env.db.FindMembershipByRoomAndUser(ctx, roomID, b.ID)
	if err != nil {
		t.Fatalf("FindMembershipByRoomAndUser: %v", err)
	}

	if err := env.rooms.SetNewStateForMembership(ctx, dto.ChatRoomUserNewStateRequest{ChatRoomUserID: bMembership.ID, RequesterID: b.ID, NewState: true}); err != nil {
		t.Fatalf("SetNewStateForMembership: %v", err)
	}
	states := newStates(t, env, roomID)
	if !states[b.ID] || states[a.ID] {
		t.Fatalf("Expected only b to be flagged, got %v", states)
	}

	if err := env.rooms.SetNewStateForMembership(ctx, dto.ChatRoomUserNewStateRequest{ChatRoomUserID: bMembership.ID, RequesterID: a.ID, NewState: false}); err != nil {
		t.Fatalf("SetNewStateForMembership: %v", err)
	}
	if states := newStates(t, env, roomID); states[b.ID] {
		t.Fatalf("Expected b to be cleared unconditionally, got %v", states)
	}
}

func TestSetNewStateForMembership_NotFoundWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	roomID, a, b, _ := createPair(t, env)

	err := env.rooms.SetNewStateForMembership(ctx, dto.ChatRoomUserNewStateRequest{ChatRoomUserID: 9999, NewState: true})
	if !apperr.HasCode(err, apperr.ChatRoomUserNotFound) {
		t.Fatalf("Expected ChatRoomUserNotFound, got %v", err)
	}
	if states := newStates(t, env, roomID); states[a.ID] || states[b.ID] {
		t.Fatalf("Expected no membership to change, got %v", states)
	}
}

func TestUpdateLastMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	roomID, a, b, ws := createPair(t, env)

	otherRoom, err := env.rooms.CreateChatRoom(ctx, dto.ChatRoomCreationRequest{
		CreatorUserID: b.ID, UserIDs: []uint64{a.ID}, WorkspaceUUID: ws.UUID,
	})
	if err != nil {
		t.Fatalf("CreateChatRoom: %v", err)
	}

	msg := &models.Message{ChatRoomID: roomID, SenderID: a.ID, Content: "hi b"}
	if err := env.db.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	if err := env.rooms.UpdateLastMessage(ctx, roomID, msg); err != nil {
		t.Fatalf("UpdateLastMessage: %v", err)
	}

	ms, err := env.db.FindMembershipsByRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	for _, m := range ms {
		if m.LastMessageID == nil || *m.LastMessageID != msg.ID {
			t.Errorf("Expected membership %d to point at message %d, got %v", m.ID, msg.ID, m.LastMessageID)
		}
	}

	others, err := env.db.FindMembershipsByRoom(ctx, otherRoom.ChatRoomID)
	if err != nil {
		t.Fatalf("FindMembershipsByRoom: %v", err)
	}
	for _, m := range others {
		if m.LastMessageID != nil {
			t.Errorf("Expected membership %d of another room to be untouched", m.ID)
		}
	}

	sent, err := env.rooms.GetChatRoomsOfSent(ctx, a.ID, ws.UUID)
	if err != nil {
		t.Fatalf("GetChatRoomsOfSent: %v", err)
	}
	if len(sent) != 1 || sent[0].LastMessage.Content != "hi b" || sent[0].LastMessage.SenderNickName != "a" {
		t.Fatalf("Expected the listing to show the new last message, got %+v", sent)
	}
}

func TestUpdateLastMessage_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.rooms.UpdateLastMessage(ctx, 1, nil); !apperr.HasCode(err, apperr.InvalidRequest) {
		t.Errorf("Expected InvalidRequest for a nil message, got %v", err)
	}
	if err := env.rooms.UpdateLastMessage(ctx, 404, &models.Message{ID: 1}); !apperr.HasCode(err, apperr.ChatRoomNotFound) {
		t.Errorf("Expected ChatRoomNotFound, got %v", err)
	}
}

func TestNewStateToggles_RequireMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	roomID, a, b, _ := createPair(t, env)
	outsider := env.user(t, "outsider")

	bMembership, err := env.db.FindMembershipByRoomAndUser(ctx, roomID, b.ID)
	if err != nil {
		t.Fatalf("FindMembershipByRoomAndUser: %v", err)
	}

	err = env.rooms.SetNewStateForRoom(ctx, dto.ChatRoomNewStateRequest{ChatRoomID: roomID, RequesterID: outsider.ID, NewState: true})
	if !apperr.HasCode(err, apperr.NotChatRoomMember) {
		t.Errorf("Expected NotChatRoomMember for the room toggle, got %v", err)
	}

	err = env.rooms.SetNewStateForMembership(ctx, dto.ChatRoomUserNewStateRequest{ChatRoomUserID: bMembership.ID, RequesterID: outsider.ID, NewState: true})
	if !apperr.HasCode(err, apperr.NotChatRoomMember) {
		t.Errorf("Expected NotChatRoomMember for the membership toggle, got %v", err)
	}

	if states := newStates(t, env, roomID); states[a.ID] || states[b.ID] {
		t.Fatalf("Expected no membership to change, got %v", states)
	}
}
