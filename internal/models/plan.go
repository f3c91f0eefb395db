package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleItem is a single timed intake slot within a plan. Time is a
// 24-hour "HH:MM" string.
type ScheduleItem struct {
	Time        string `json:"time"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
}

// ScheduleItems is stored as a JSONB column on hydration_plans.
type ScheduleItems []ScheduleItem

func (s ScheduleItems) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ScheduleItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for ScheduleItems: %T", value)
	}
}

// HydrationPlan is one user's intake target and delivery schedule for one
// calendar date. Exactly one plan exists per (user, date); rows are never
// mutated after creation.
type HydrationPlan struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_plans_user_date" json:"user_id"`
	Date          string         `gorm:"size:10;not null;uniqueIndex:idx_plans_user_date" json:"date"`
	TotalIntakeML int            `gorm:"not null" json:"total_intake_ml"`
	Schedule      ScheduleItems  `gorm:"type:jsonb;not null" json:"schedule"`
	Suggestions   string         `gorm:"type:text" json:"suggestions"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *HydrationPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
