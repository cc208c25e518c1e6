package models

import "time"

// Role distinguishes the member who opened a chat room from everyone it was opened with.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// ChatRoomMembership links one user to one chat room inside a workspace.
// LastMessageID is shared by every membership of the room and is rewritten in lockstep.
type ChatRoomMembership struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	ChatRoomID    uint64 `gorm:"not null;index;uniqueIndex:idx_chat_room_user"`
	UserID        uint64 `gorm:"not null;index:idx_user_workspace_role;uniqueIndex:idx_chat_room_user"`
	WorkspaceID   uint64 `gorm:"not null;index:idx_user_workspace_role"`
	Role          Role   `gorm:"type:varchar(16);not null;index:idx_user_workspace_role"`
	NewState      bool   `gorm:"not null;default:false"`
	LastMessageID *uint64
	CreatedAt     time.Time

	ChatRoom    ChatRoom  `gorm:"foreignKey:ChatRoomID"`
	User        User      `gorm:"foreignKey:UserID"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`
	LastMessage *Message  `gorm:"foreignKey:LastMessageID"`
}

func (ChatRoomMembership) TableName() string {
	return "chat_room_users"
}

func (m *ChatRoomMembership) IsCreator() bool {
	return m.Role == RoleOwner
}
