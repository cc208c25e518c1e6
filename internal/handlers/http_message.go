package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/services"
)

type HTTPMessageHandler struct {
	messages *services.MessageService
}

func NewHTTPMessageHandler(messages *services.MessageService) *HTTPMessageHandler {
	return &HTTPMessageHandler{messages: messages}
}

func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.messages.SendMessage(c.Request.Context(), userID, roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetRoomMessages returns room history. ?limit= caps the page, ?before= pages backwards.
func (h *HTTPMessageHandler) GetRoomMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			respondError(c, apperr.New(apperr.InvalidRequest))
			return
		}
		limit = parsed
	}

	var beforeID *uint64
	if before := c.Query("before"); before != "" {
		id, err := strconv.ParseUint(before, 10, 64)
		if err != nil {
			respondError(c, apperr.New(apperr.InvalidRequest))
			return
		}
		beforeID = &id
	}

	history, err := h.messages.GetRoomMessages(c.Request.Context(), userID, roomID, limit, beforeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
