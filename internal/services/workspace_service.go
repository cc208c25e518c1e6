package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
)

type WorkspaceService struct {
	db *database.Database
}

func NewWorkspaceService(db *database.Database) *WorkspaceService {
	return &WorkspaceService{db: db}
}

func (s *WorkspaceService) Create(ctx context.Context, ownerID uint64, req dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	ws := &models.Workspace{Name: strings.TrimSpace(req.Name), OwnerID: ownerID}
	if ws.Name == "" {
		return nil, apperr.New(apperr.InvalidRequest)
	}
	if err := s.db.CreateWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace created", "workspace_id", ws.ID, "workspace_uuid", ws.UUID.String())

	return toWorkspaceResponse(ws), nil
}

func (s *WorkspaceService) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	ws, err := s.db.FindWorkspaceByUUID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.WorkspaceNotFound, "find workspace")
	}
	return ws, nil
}

func (s *WorkspaceService) FindByID(ctx context.Context, id uint64) (*models.Workspace, error) {
	ws, err := s.db.GetWorkspace(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.WorkspaceNotFound, "get workspace")
	}
	return ws, nil
}

// UpdateTeamName stores the team name picked for the workspace. Only the workspace owner or
// a user holding a chat room membership in it may change it.
func (s *WorkspaceService) UpdateTeamName(ctx context.Context, requesterID, id uint64, teamName string) (*dto.WorkspaceResponse, error) {
	var ws *models.Workspace
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		found, err := tx.GetWorkspace(ctx, id)
		if err != nil {
			return notFound(err, apperr.WorkspaceNotFound, "get workspace")
		}
		if err := requireWorkspaceAccess(ctx, tx, found, requesterID); err != nil {
			return err
		}
		if _, err := tx.UpdateWorkspaceTeamName(ctx, found.ID, teamName); err != nil {
			return fmt.Errorf("update team name: %w", err)
		}
		found.TeamName = teamName
		ws = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func requireWorkspaceAccess(ctx context.Context, db *database.Database, ws *models.Workspace, userID uint64) error {
	if userID != 0 && ws.OwnerID == userID {
		return nil
	}
	ok, err := db.HasWorkspaceMembership(ctx, userID, ws.ID)
	if err != nil {
		return fmt.Errorf("find workspace membership: %w", err)
	}
	if !ok {
		return apperr.New(apperr.UserWorkspaceNotFound)
	}
	return nil
}

func toWorkspaceResponse(ws *models.Workspace) *dto.WorkspaceResponse {
	return &dto.WorkspaceResponse{
		WorkspaceID:   ws.ID,
		WorkspaceUUID: ws.UUID,
		Name:          ws.Name,
		TeamName:      ws.TeamName,
	}
}
