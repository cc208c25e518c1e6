package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/services"
)

type ChatRoomHandler struct {
	rooms *services.ChatRoomService
}

func NewChatRoomHandler(rooms *services.ChatRoomService) *ChatRoomHandler {
	return &ChatRoomHandler{rooms: rooms}
}

// CreateChatRoom opens a room owned by the caller.
func (h *ChatRoomHandler) CreateChatRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ChatRoomCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatorUserID = userID

	resp, err := h.rooms.CreateChatRoom(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ChatRoomHandler) GetChatRoomsOfSent(c *gin.Context) {
	h.list(c, h.rooms.GetChatRoomsOfSent)
}

func (h *ChatRoomHandler) GetChatRoomsOfReceived(c *gin.Context) {
	h.list(c, h.rooms.GetChatRoomsOfReceived)
}

type roomLister func(ctx context.Context, userID uint64, workspaceUUID uuid.UUID) ([]dto.ChatRoomUserResponse, error)

func (h *ChatRoomHandler) list(c *gin.Context, fetch roomLister) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	workspaceUUID, err := uuid.Parse(c.Query("workspaceUUID"))
	if err != nil {
		respondError(c, apperr.Wrap(apperr.InvalidRequest, err))
		return
	}

	rooms, err := fetch(c.Request.Context(), userID, workspaceUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// SetNewStateForRoom updates the new-message state of every membership in the room.
func (h *ChatRoomHandler) SetNewStateForRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ChatRoomNewStateRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ChatRoomID = roomID
	req.RequesterID = userID

	if err := h.rooms.SetNewStateForRoom(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatRoomHandler) SetNewStateForMembership(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	membershipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ChatRoomUserNewStateRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ChatRoomUserID = membershipID
	req.RequesterID = userID

	if err := h.rooms.SetNewStateForMembership(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
