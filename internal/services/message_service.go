package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	EventNewMessage = "new_message"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// MessageConverter is the stateless MessageFormatter.
type MessageConverter struct{}

func (MessageConverter) ConvertMessageResponse(m *models.Message) dto.MessageResponse {
	if m == nil {
		return dto.MessageResponse{}
	}
	createdAt := m.CreatedAt
	return dto.MessageResponse{
		MessageID:      m.ID,
		ChatRoomID:     m.ChatRoomID,
		SenderID:       m.SenderID,
		SenderNickName: m.Sender.NickName,
		Content:        m.Content,
		CreatedAt:      &createdAt,
	}
}

type MessageService struct {
	MessageConverter

	db       *database.Database
	rooms    *ChatRoomService
	notifier RoomNotifier
}

func NewMessageService(db *database.Database, rooms *ChatRoomService, notifier RoomNotifier) *MessageService {
	return &MessageService{db: db, rooms: rooms, notifier: notifier}
}

// SendMessage stores a message from a room member, makes it the room's last message and
// flags the room's memberships as having news in one transaction, then pushes the message
// to every member.
func (s *MessageService) SendMessage(ctx context.Context, senderID, chatRoomID uint64, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.New(apperr.InvalidRequest)
	}

	if err := requireRoomMember(ctx, s.db, chatRoomID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ChatRoomID: chatRoomID,
		SenderID:   senderID,
		Content:    content,
	}

	var lastUpdated, flagged int64
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		if err := tx.SaveMessage(ctx, message); err != nil {
			return fmt.Errorf("save message: %w", err)
		}
		n, err := s.rooms.updateLastMessageTx(ctx, tx, chatRoomID, message.ID)
		if err != nil {
			return err
		}
		lastUpdated = n
		flagged, err = s.rooms.setNewStateForRoomTx(ctx, tx, chatRoomID, true, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.rooms.metrics.LastMessageUpdates.Add(ctx, lastUpdated)
	s.rooms.metrics.NewStateUpdates.Add(ctx, flagged, metric.WithAttributes(attribute.String("scope", "room")))

	full, err := s.db.GetMessage(ctx, message.ID)
	if err != nil {
		return nil, fmt.Errorf("reload message: %w", err)
	}
	resp := s.ConvertMessageResponse(full)

	s.notifyMembers(ctx, chatRoomID, resp)

	return &resp, nil
}

// GetRoomMessages returns a page of the room's history, oldest first.
func (s *MessageService) GetRoomMessages(ctx context.Context, userID, chatRoomID uint64, limit int, beforeID *uint64) (*dto.MessageHistoryResponse, error) {
	if err := requireRoomMember(ctx, s.db, chatRoomID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.db.GetRoomMessages(ctx, chatRoomID, limit, beforeID)
	if err != nil {
		return nil, fmt.Errorf("get room messages: %w", err)
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = s.ConvertMessageResponse(&messages[i])
	}

	return &dto.MessageHistoryResponse{
		Messages: result,
		HasMore:  len(messages) == limit,
	}, nil
}

func (s *MessageService) notifyMembers(ctx context.Context, chatRoomID uint64, resp dto.MessageResponse) {
	if s.notifier == nil {
		return
	}

	ms, err := s.db.FindMembershipsByRoom(ctx, chatRoomID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load chat room users for notification", "chat_room_id", chatRoomID, "error", err)
		return
	}

	userIDs := make([]uint64, 0, len(ms))
	for _, m := range ms {
		userIDs = append(userIDs, m.UserID)
	}
	s.notifier.NotifyUsers(userIDs, EventNewMessage, resp)
}
