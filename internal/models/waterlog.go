package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaterLog is an append-only record of a single drink. Rows are never
// updated or deleted; daily and weekly totals are derived.
type WaterLog struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (w *WaterLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
