package dto

import "github.com/google/uuid"

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type WorkspaceResponse struct {
	WorkspaceID   uint64    `json:"workspaceId"`
	WorkspaceUUID uuid.UUID `json:"workspaceUUID"`
	Name          string    `json:"name"`
	TeamName      string    `json:"teamName,omitempty"`
}

type TeamNameResponse struct {
	TeamName string `json:"teamName"`
}

type SaveTeamNameRequest struct {
	TeamName string `json:"teamName" binding:"required,min=1,max=100"`
}
