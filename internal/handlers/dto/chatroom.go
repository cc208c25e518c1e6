package dto

import "github.com/google/uuid"

type ChatRoomCreationRequest struct {
	CreatorUserID uint64    `json:"-"`
	UserIDs       []uint64  `json:"userIds"`
	WorkspaceUUID uuid.UUID `json:"workspaceUUID" binding:"required"`
}

type ChatRoomResponse struct {
	ChatRoomID    uint64    `json:"chatRoomId"`
	WorkspaceUUID uuid.UUID `json:"workspaceUUID"`
}

type UserInfo struct {
	NickName        string `json:"nickName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// ChatRoomUserResponse is one row of the sent/received listings. ChatRoomUserID and
// TargetUser describe the counterpart membership, not the caller's.
type ChatRoomUserResponse struct {
	ChatRoomID     uint64          `json:"chatRoomId"`
	ChatRoomUserID uint64          `json:"chatRoomUserId"`
	LastMessage    MessageResponse `json:"lastMessage"`
	TargetUser     UserInfo        `json:"targetUser"`
}

// ChatRoomNewStateRequest sets the new-message state of a whole room.
// OnlyIfCurrentlyFalse defaults to true when omitted: memberships already flagged are skipped.
type ChatRoomNewStateRequest struct {
	ChatRoomID           uint64 `json:"-"`
	RequesterID          uint64 `json:"-"`
	NewState             bool   `json:"newState"`
	OnlyIfCurrentlyFalse *bool  `json:"onlyIfCurrentlyFalse"`
}

func (r ChatRoomNewStateRequest) OnlyFalse() bool {
	return r.OnlyIfCurrentlyFalse == nil || *r.OnlyIfCurrentlyFalse
}

type ChatRoomUserNewStateRequest struct {
	ChatRoomUserID uint64 `json:"-"`
	RequesterID    uint64 `json:"-"`
	NewState       bool   `json:"newState"`
}
