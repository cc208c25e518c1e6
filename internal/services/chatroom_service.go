package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
	"github.com/teamkrews/krews-chat/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ChatRoomService creates chat rooms, lists them per user and keeps the per-membership
// new-message state and last-message pointer up to date.
type ChatRoomService struct {
	db          *database.Database
	users       UserDirectory
	workspaces  WorkspaceDirectory
	memberships MembershipQuery
	messages    MessageFormatter

	tracer  trace.Tracer
	metrics *telemetry.ChatRoomMetrics
}

func NewChatRoomService(
	db *database.Database,
	users UserDirectory,
	workspaces WorkspaceDirectory,
	memberships MembershipQuery,
	messages MessageFormatter,
) *ChatRoomService {
	return &ChatRoomService{
		db:          db,
		users:       users,
		workspaces:  workspaces,
		memberships: memberships,
		messages:    messages,
		tracer:      telemetry.Tracer(),
		metrics:     telemetry.NewChatRoomMetrics(),
	}
}

func (s *ChatRoomService) FindByID(ctx context.Context, chatRoomID uint64) (*models.ChatRoom, error) {
	return findChatRoom(ctx, s.db, chatRoomID)
}

func findChatRoom(ctx context.Context, db *database.Database, chatRoomID uint64) (*models.ChatRoom, error) {
	room, err := db.GetChatRoom(ctx, chatRoomID)
	if err != nil {
		return nil, notFound(err, apperr.ChatRoomNotFound, "get chat room")
	}
	return room, nil
}

// CreateChatRoom opens a room between the creator and every listed user. Duplicate ids
// collapse to one membership and only the creator's membership gets the owner role.
// Every user is resolved before anything is written.
func (s *ChatRoomService) CreateChatRoom(ctx context.Context, req dto.ChatRoomCreationRequest) (*dto.ChatRoomResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.CreateChatRoom")
	defer span.End()

	userIDs := distinctUserIDs(req.CreatorUserID, req.UserIDs)

	ws, err := s.workspaces.FindByUUID(ctx, req.WorkspaceUUID)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	room := &models.ChatRoom{UserCnt: len(userIDs)}
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		if err := tx.CreateChatRoom(ctx, room); err != nil {
			return fmt.Errorf("create chat room: %w", err)
		}
		for _, user := range users {
			role := models.RoleMember
			if user.ID == req.CreatorUserID {
				role = models.RoleOwner
			}
			m := &models.ChatRoomMembership{
				ChatRoomID:  room.ID,
				UserID:      user.ID,
				WorkspaceID: ws.ID,
				Role:        role,
			}
			if err := tx.CreateMembership(ctx, m); err != nil {
				return fmt.Errorf("create chat room user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("chat_room.id", int64(room.ID)), attribute.Int("chat_room.user_cnt", room.UserCnt))
	s.metrics.RoomsCreated.Add(ctx, 1)
	s.metrics.MembershipsCreated.Add(ctx, int64(len(users)))
	slog.InfoContext(ctx, "chat room created",
		"chat_room_id", room.ID,
		"creator_user_id", req.CreatorUserID,
		"user_cnt", room.UserCnt,
		"workspace_uuid", req.WorkspaceUUID.String())

	return &dto.ChatRoomResponse{
		ChatRoomID:    room.ID,
		WorkspaceUUID: req.WorkspaceUUID,
	}, nil
}

// distinctUserIDs returns the creator followed by every other id, each at most once,
// keeping first-seen order.
func distinctUserIDs(creatorID uint64, userIDs []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(userIDs)+1)
	out := make([]uint64, 0, len(userIDs)+1)
	for _, id := range append([]uint64{creatorID}, userIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GetChatRoomsOfSent lists the rooms the user opened, one entry per member of each room.
func (s *ChatRoomService) GetChatRoomsOfSent(ctx context.Context, userID uint64, workspaceUUID uuid.UUID) ([]dto.ChatRoomUserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.GetChatRoomsOfSent")
	defer span.End()
	return s.listByRole(ctx, userID, workspaceUUID, models.RoleOwner, models.RoleMember)
}

// GetChatRoomsOfReceived lists the rooms other users opened with the user, one entry per
// owner of each room.
func (s *ChatRoomService) GetChatRoomsOfReceived(ctx context.Context, userID uint64, workspaceUUID uuid.UUID) ([]dto.ChatRoomUserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.GetChatRoomsOfReceived")
	defer span.End()
	return s.listByRole(ctx, userID, workspaceUUID, models.RoleMember, models.RoleOwner)
}

func (s *ChatRoomService) listByRole(ctx context.Context, userID uint64, workspaceUUID uuid.UUID, own, counterpart models.Role) ([]dto.ChatRoomUserResponse, error) {
	ws, err := s.workspaces.FindByUUID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}

	details := make([]dto.ChatRoomUserResponse, 0)
	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		mine, err := tx.FindMembershipsByUserWorkspaceRole(ctx, userID, ws.ID, own)
		if err != nil {
			return fmt.Errorf("find chat room users: %w", err)
		}
		for _, m := range mine {
			others, err := tx.FindMembershipsByRoomRole(ctx, m.ChatRoomID, counterpart)
			if err != nil {
				return fmt.Errorf("find chat room counterparts: %w", err)
			}
			details = s.parseForResponse(details, m.ChatRoomID, others)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *ChatRoomService) parseForResponse(details []dto.ChatRoomUserResponse, chatRoomID uint64, counterparts []models.ChatRoomMembership) []dto.ChatRoomUserResponse {
	for i := range counterparts {
		c := &counterparts[i]
		details = append(details, dto.ChatRoomUserResponse{
			ChatRoomID:     chatRoomID,
			ChatRoomUserID: c.ID,
			LastMessage:    s.messages.ConvertMessageResponse(c.LastMessage),
			TargetUser: dto.UserInfo{
				NickName:        c.User.NickName,
				ProfileImageURL: c.User.ProfileImageURL,
			},
		})
	}
	return details
}

// SetNewStateForRoom writes the new-message state onto the room's memberships. Unless the
// request clears OnlyIfCurrentlyFalse, memberships that are already true are skipped.
// The requester must hold a membership of the room.
func (s *ChatRoomService) SetNewStateForRoom(ctx context.Context, req dto.ChatRoomNewStateRequest) error {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.SetNewStateForRoom")
	defer span.End()

	var affected int64
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		if err := requireRoomMember(ctx, tx, req.ChatRoomID, req.RequesterID); err != nil {
			return err
		}
		n, err := s.setNewStateForRoomTx(ctx, tx, req.ChatRoomID, req.NewState, req.OnlyFalse())
		affected = n
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.NewStateUpdates.Add(ctx, affected, metric.WithAttributes(attribute.String("scope", "room")))
	slog.DebugContext(ctx, "chat room new state updated",
		"chat_room_id", req.ChatRoomID,
		"new_state", req.NewState,
		"only_if_false", req.OnlyFalse(),
		"affected", affected)
	return nil
}

func (s *ChatRoomService) setNewStateForRoomTx(ctx context.Context, tx *database.Database, chatRoomID uint64, state, onlyIfFalse bool) (int64, error) {
	n, err := tx.UpdateMembershipsNewState(ctx, chatRoomID, state, onlyIfFalse)
	if err != nil {
		return 0, fmt.Errorf("update new state: %w", err)
	}
	return n, nil
}

// SetNewStateForMembership overwrites one membership's new-message state. The requester
// must hold a membership of the same room.
func (s *ChatRoomService) SetNewStateForMembership(ctx context.Context, req dto.ChatRoomUserNewStateRequest) error {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.SetNewStateForMembership")
	defer span.End()

	m, err := s.memberships.FindByID(ctx, req.ChatRoomUserID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		if err := requireRoomMember(ctx, tx, m.ChatRoomID, req.RequesterID); err != nil {
			return err
		}
		if err := tx.UpdateMembershipNewState(ctx, m.ID, req.NewState); err != nil {
			return fmt.Errorf("update new state: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.NewStateUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", "membership")))
	return nil
}

// UpdateLastMessage points every membership of the room at message unless it already points
// at a newer one. Call it once per delivered message, after the message row is committed.
func (s *ChatRoomService) UpdateLastMessage(ctx context.Context, chatRoomID uint64, message *models.Message) error {
	ctx, span := s.tracer.Start(ctx, "ChatRoomService.UpdateLastMessage")
	defer span.End()

	if message == nil || message.ID == 0 {
		return apperr.New(apperr.InvalidRequest)
	}

	var affected int64
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		if _, err := findChatRoom(ctx, tx, chatRoomID); err != nil {
			return err
		}
		n, err := s.updateLastMessageTx(ctx, tx, chatRoomID, message.ID)
		affected = n
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.LastMessageUpdates.Add(ctx, affected)
	return nil
}

func (s *ChatRoomService) updateLastMessageTx(ctx context.Context, tx *database.Database, chatRoomID, messageID uint64) (int64, error) {
	n, err := tx.UpdateMembershipsLastMessage(ctx, chatRoomID, messageID)
	if err != nil {
		return 0, fmt.Errorf("update last message: %w", err)
	}
	return n, nil
}

// requireRoomMember fails with ChatRoomNotFound or NotChatRoomMember unless userID holds a
// membership of the room.
func requireRoomMember(ctx context.Context, db *database.Database, chatRoomID, userID uint64) error {
	if _, err := findChatRoom(ctx, db, chatRoomID); err != nil {
		return err
	}
	if _, err := db.FindMembershipByRoomAndUser(ctx, chatRoomID, userID); err != nil {
		return notFound(err, apperr.NotChatRoomMember, "find chat room user")
	}
	return nil
}
