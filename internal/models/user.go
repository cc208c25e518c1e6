package models

import "time"

type User struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	LoginID         string `gorm:"uniqueIndex;not null"`
	NickName        string `gorm:"not null"`
	ProfileImageURL string
	PasswordHash    string `gorm:"not null"`
	CreatedAt       time.Time
}
