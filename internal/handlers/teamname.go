package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/services"
)

type TeamNameHandler struct {
	teamNames *services.TeamNameService
}

func NewTeamNameHandler(teamNames *services.TeamNameService) *TeamNameHandler {
	return &TeamNameHandler{teamNames: teamNames}
}

func (h *TeamNameHandler) GenerateTeamName(c *gin.Context) {
	name, err := h.teamNames.GenerateTeamName(c.Request.Context(), c.Query("seedWords"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TeamNameResponse{TeamName: name})
}

func (h *TeamNameHandler) SaveTeamName(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}

	var req dto.SaveTeamNameRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.teamNames.SaveTeamName(c.Request.Context(), userID, workspaceID, req.TeamName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
