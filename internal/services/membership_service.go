package services

import (
	"context"

	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/models"
)

type MembershipService struct {
	db *database.Database
}

func NewMembershipService(db *database.Database) *MembershipService {
	return &MembershipService{db: db}
}

func (s *MembershipService) FindByID(ctx context.Context, id uint64) (*models.ChatRoomMembership, error) {
	m, err := s.db.GetMembership(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.ChatRoomUserNotFound, "get chat room user")
	}
	return m, nil
}
