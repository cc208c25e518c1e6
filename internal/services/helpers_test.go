package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/database/dbtest"
	"github.com/teamkrews/krews-chat/internal/models"
	"gorm.io/gorm"
)

type testEnv struct {
	gdb         *gorm.DB
	db          *database.Database
	users       *UserService
	workspaces  *WorkspaceService
	memberships *MembershipService
	rooms       *ChatRoomService
	notifier    *recordingNotifier
	messages    *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := dbtest.Open(t)
	db := database.NewDatabase(gdb)

	env := &testEnv{
		gdb:         gdb,
		db:          db,
		users:       NewUserService(db, nil),
		workspaces:  NewWorkspaceService(db),
		memberships: NewMembershipService(db),
		notifier:    &recordingNotifier{},
	}
	env.rooms = NewChatRoomService(db, env.users, env.workspaces, env.memberships, MessageConverter{})
	env.messages = NewMessageService(db, env.rooms, env.notifier)
	return env
}

func (e *testEnv) workspace(t *testing.T, name string) *models.Workspace {
	t.Helper()
	ws := &models.Workspace{Name: name}
	if err := e.db.CreateWorkspace(context.Background(), ws); err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	return ws
}

func (e *testEnv) user(t *testing.T, nick string) *models.User {
	t.Helper()
	u := &models.User{
		LoginID:         nick + "-login",
		NickName:        nick,
		ProfileImageURL: fmt.Sprintf("https://img.example.com/%s.png", nick),
		PasswordHash:    "x",
	}
	if err := e.db.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	return u
}

type notification struct {
	userIDs   []uint64
	eventType string
	payload   any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyUsers(userIDs []uint64, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userIDs: userIDs, eventType: eventType, payload: payload})
}
