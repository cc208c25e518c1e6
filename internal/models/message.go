package models

import "time"

type Message struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ChatRoomID uint64 `gorm:"not null;index"`
	SenderID   uint64 `gorm:"not null"`
	Content    string `gorm:"not null"`
	CreatedAt  time.Time

	Sender User `gorm:"foreignKey:SenderID"`
}
