package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workspace struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	TeamName  string
	OwnerID   uint64    `gorm:"index"`
	CreatedAt time.Time
}

// BeforeCreate fills the public UUID so the column does not depend on a database default.
func (w *Workspace) BeforeCreate(_ *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	return nil
}
