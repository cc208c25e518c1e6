package database

import (
	"context"

	"github.com/teamkrews/krews-chat/internal/models"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.conn(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user := models.User{}
	if err := d.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	user := models.User{}
	if err := d.conn(ctx).Where("login_id = ?", loginID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
