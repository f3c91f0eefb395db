package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity levels accepted on a hydration profile. An unknown level is not
// stored; the fallback calculator separately tolerates one by assuming
// moderate activity.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// UserProfile holds the hydration-relevant attributes of a user. There is at
// most one row per user and updates are full replaces.
type UserProfile struct {
	ID               uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Age              int            `gorm:"not null" json:"age"`
	Weight           float64        `gorm:"not null" json:"weight"`
	Gender           string         `gorm:"size:16;not null" json:"gender"`
	ActivityLevel    string         `gorm:"size:32;not null" json:"activity_level"`
	HealthConditions string         `gorm:"type:text" json:"health_conditions,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
