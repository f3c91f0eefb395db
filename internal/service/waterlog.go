package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/models"
)

// ErrInvalidAmount rejects non-positive water-log amounts.
var ErrInvalidAmount = errors.New("amount must be a positive number of milliliters")

// WeeklyStats summarizes the last seven days of water logs.
type WeeklyStats struct {
	Entries       int               `json:"entries"`
	TotalML       int               `json:"total_ml"`
	AveragePerDay int               `json:"average_per_day_ml"`
	Logs          []models.WaterLog `json:"logs"`
}

// WaterLogService appends and aggregates water-log entries. Entries are
// append-only; totals are always derived, never stored.
type WaterLogService struct {
	db  *gorm.DB
	loc *time.Location

	// now is swappable in tests.
	now func() time.Time
}

// NewWaterLogService creates a new WaterLogService.
func NewWaterLogService(db *gorm.DB, loc *time.Location) *WaterLogService {
	if loc == nil {
		loc = time.Local
	}
	return &WaterLogService{db: db, loc: loc, now: time.Now}
}

// LogWater appends one entry. A failed insert is returned to the caller:
// logging a drink must never silently no-op.
func (s *WaterLogService) LogWater(ctx context.Context, userID uuid.UUID, amount int) (*models.WaterLog, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	entry := &models.WaterLog{
		UserID: userID,
		Amount: amount,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log water intake: %w", err)
	}
	return entry, nil
}

// TodayLogs returns today's entries, newest first.
func (s *WaterLogService) TodayLogs(ctx context.Context, userID uuid.UUID) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, s.dayStart()).
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load water logs: %w", err)
	}
	return logs, nil
}

// TodayTotalIntake returns the sum of today's logged amounts.
func (s *WaterLogService) TodayTotalIntake(ctx context.Context, userID uuid.UUID) (int, error) {
	logs, err := s.TodayLogs(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, entry := range logs {
		total += entry.Amount
	}
	return total, nil
}

// WeeklyStats aggregates the trailing seven days, oldest first.
func (s *WaterLogService) WeeklyStats(ctx context.Context, userID uuid.UUID) (*WeeklyStats, error) {
	weekAgo := s.now().In(s.loc).AddDate(0, 0, -7)

	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, weekAgo).
		Order("created_at asc").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load water logs: %w", err)
	}

	total := 0
	for _, entry := range logs {
		total += entry.Amount
	}

	return &WeeklyStats{
		Entries:       len(logs),
		TotalML:       total,
		AveragePerDay: total / 7,
		Logs:          logs,
	}, nil
}

func (s *WaterLogService) dayStart() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}
