package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
	"gorm.io/gorm"
)

// UserDirectory resolves users by id.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (*models.User, error)
}

// WorkspaceDirectory resolves workspaces by their public UUID.
type WorkspaceDirectory interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
}

// MembershipQuery resolves a single chat room membership.
type MembershipQuery interface {
	FindByID(ctx context.Context, id uint64) (*models.ChatRoomMembership, error)
}

// MessageFormatter turns a stored message into its display form. A nil message must
// produce the empty placeholder, never an error.
type MessageFormatter interface {
	ConvertMessageResponse(m *models.Message) dto.MessageResponse
}

// RoomNotifier pushes realtime events to connected users.
type RoomNotifier interface {
	NotifyUsers(userIDs []uint64, eventType string, payload any)
}

// notFound maps gorm's missing-row error onto code and wraps anything else with op.
func notFound(err error, code apperr.ErrorCode, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
