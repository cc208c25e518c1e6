package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/models"
)

func (d *Database) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	return d.conn(ctx).Create(ws).Error
}

func (d *Database) GetWorkspace(ctx context.Context, id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := d.conn(ctx).First(&ws, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (d *Database) FindWorkspaceByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	if err := d.conn(ctx).First(&ws, "uuid = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (d *Database) UpdateWorkspaceTeamName(ctx context.Context, id uint64, teamName string) (int64, error) {
	res := d.conn(ctx).Model(&models.Workspace{}).Where("id = ?", id).Update("team_name", teamName)
	return res.RowsAffected, res.Error
}

// HasWorkspaceMembership reports whether userID holds any chat room membership in the workspace.
func (d *Database) HasWorkspaceMembership(ctx context.Context, userID, workspaceID uint64) (bool, error) {
	var n int64
	err := d.conn(ctx).Model(&models.ChatRoomMembership{}).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}
