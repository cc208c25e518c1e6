package database

import (
	"context"

	"github.com/teamkrews/krews-chat/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateMembership(ctx context.Context, m *models.ChatRoomMembership) error {
	return d.conn(ctx).Omit("ChatRoom", "User", "Workspace", "LastMessage").Create(m).Error
}

// withDisplay preloads what the chat room listings render: the member's profile and the
// room's last message with its sender.
func withDisplay(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("LastMessage").Preload("LastMessage.Sender")
}

func (d *Database) GetMembership(ctx context.Context, id uint64) (*models.ChatRoomMembership, error) {
	var m models.ChatRoomMembership
	if err := withDisplay(d.conn(ctx)).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *Database) FindMembershipsByUserWorkspaceRole(ctx context.Context, userID, workspaceID uint64, role models.Role) ([]models.ChatRoomMembership, error) {
	var ms []models.ChatRoomMembership
	err := d.conn(ctx).
		Where("user_id = ? AND workspace_id = ? AND role = ?", userID, workspaceID, role).
		Order("id ASC").
		Find(&ms).Error
	return ms, err
}

func (d *Database) FindMembershipsByRoomRole(ctx context.Context, chatRoomID uint64, role models.Role) ([]models.ChatRoomMembership, error) {
	var ms []models.ChatRoomMembership
	err := withDisplay(d.conn(ctx)).
		Where("chat_room_id = ? AND role = ?", chatRoomID, role).
		Order("id ASC").
		Find(&ms).Error
	return ms, err
}

func (d *Database) FindMembershipsByRoom(ctx context.Context, chatRoomID uint64) ([]models.ChatRoomMembership, error) {
	var ms []models.ChatRoomMembership
	err := d.conn(ctx).
		Where("chat_room_id = ?", chatRoomID).
		Order("id ASC").
		Find(&ms).Error
	return ms, err
}

func (d *Database) FindMembershipByRoomAndUser(ctx context.Context, chatRoomID, userID uint64) (*models.ChatRoomMembership, error) {
	var m models.ChatRoomMembership
	if err := d.conn(ctx).First(&m, "chat_room_id = ? AND user_id = ?", chatRoomID, userID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMembershipsNewState writes state onto the room's memberships. With onlyIfFalse set,
// rows that are already true are left untouched.
func (d *Database) UpdateMembershipsNewState(ctx context.Context, chatRoomID uint64, state, onlyIfFalse bool) (int64, error) {
	q := d.conn(ctx).Model(&models.ChatRoomMembership{}).Where("chat_room_id = ?", chatRoomID)
	if onlyIfFalse {
		q = q.Where("new_state = ?", false)
	}
	res := q.Update("new_state", state)
	return res.RowsAffected, res.Error
}

func (d *Database) UpdateMembershipNewState(ctx context.Context, id uint64, state bool) error {
	return d.conn(ctx).Model(&models.ChatRoomMembership{}).
		Where("id = ?", id).
		Update("new_state", state).Error
}

// UpdateMembershipsLastMessage moves the room's last message pointer forward. Memberships
// already pointing at a newer message are left alone.
func (d *Database) UpdateMembershipsLastMessage(ctx context.Context, chatRoomID, messageID uint64) (int64, error) {
	res := d.conn(ctx).Model(&models.ChatRoomMembership{}).
		Where("chat_room_id = ?", chatRoomID).
		Where("(last_message_id IS NULL OR last_message_id < ?)", messageID).
		Update("last_message_id", messageID)
	return res.RowsAffected, res.Error
}
