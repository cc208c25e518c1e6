package dto

import "time"

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// MessageResponse is the display form of a message. The zero value is the placeholder
// shown for a chat room that has no messages yet.
type MessageResponse struct {
	MessageID      uint64     `json:"messageId,omitempty"`
	ChatRoomID     uint64     `json:"chatRoomId,omitempty"`
	SenderID       uint64     `json:"senderId,omitempty"`
	SenderNickName string     `json:"senderNickName,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

type MessageHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
	HasMore  bool              `json:"hasMore"`
}
