package database

import (
	"context"

	"github.com/teamkrews/krews-chat/internal/models"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return d.conn(ctx).Omit("Sender").Create(message).Error
}

func (d *Database) GetMessage(ctx context.Context, id uint64) (*models.Message, error) {
	var message models.Message
	if err := d.conn(ctx).Preload("Sender").First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetRoomMessages returns up to limit messages of the room, oldest first. With beforeID set,
// only messages older than that one are returned.
func (d *Database) GetRoomMessages(ctx context.Context, chatRoomID uint64, limit int, beforeID *uint64) ([]models.Message, error) {
	var messages []models.Message

	query := d.conn(ctx).Where("chat_room_id = ?", chatRoomID)
	if beforeID != nil {
		query = query.Where("id < ?", *beforeID)
	}

	err := query.
		Order("id DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
