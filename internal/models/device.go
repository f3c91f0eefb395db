package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDevice is a registered push endpoint for hydration reminders. The raw
// device token is never stored, only its hash and the SNS endpoint ARN.
type UserDevice struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Platform    string    `gorm:"size:16;not null" json:"platform"`
	TokenHash   string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	EndpointARN string    `gorm:"size:255;not null" json:"-"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *UserDevice) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
