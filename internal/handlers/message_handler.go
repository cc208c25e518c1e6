package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/services"
	"github.com/teamkrews/krews-chat/internal/websocket"
)

const wsSendTimeout = 10 * time.Second

// MessageHandler accepts chat messages sent over a websocket connection.
type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) HandleMessage(client *websocket.Client, env *websocket.Envelope) error {
	switch env.Type {
	case websocket.TypeMessage:
		return h.handleTextMessage(client, env)
	default:
		return websocket.ErrUnsupportedType
	}
}

func (h *MessageHandler) handleTextMessage(client *websocket.Client, env *websocket.Envelope) error {
	if env.ChatRoomID == 0 {
		return websocket.ErrInvalidMessage
	}

	var req dto.SendMessageRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return websocket.ErrInvalidMessage
	}

	ctx, cancel := context.WithTimeout(context.Background(), wsSendTimeout)
	defer cancel()

	// The sender receives the message back through the room notification.
	if _, err := h.messages.SendMessage(ctx, client.UserID, env.ChatRoomID, req); err != nil {
		return errors.New(apperr.CodeOf(err).Message)
	}
	return nil
}
