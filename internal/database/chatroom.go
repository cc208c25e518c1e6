package database

import (
	"context"

	"github.com/teamkrews/krews-chat/internal/models"
)

func (d *Database) CreateChatRoom(ctx context.Context, room *models.ChatRoom) error {
	return d.conn(ctx).Create(room).Error
}

func (d *Database) GetChatRoom(ctx context.Context, id uint64) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := d.conn(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}
