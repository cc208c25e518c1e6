package models

import "time"

// ChatRoom is a conversation container. UserCnt is fixed at creation to the number of
// distinct participants.
type ChatRoom struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserCnt   int    `gorm:"not null"`
	CreatedAt time.Time
}
