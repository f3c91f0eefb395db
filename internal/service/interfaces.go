package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/hydromate/backend/internal/models"
	"github.com/hydromate/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for hydration profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, req *types.UpsertProfileRequest) (*models.UserProfile, error)
}

// PlanGenerator produces a hydration plan from a profile and current
// weather. The LLM-backed implementation may fail; callers substitute the
// deterministic fallback.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, profile *models.UserProfile, weather WeatherSnapshot) (*models.HydrationPlan, error)
}

// WeatherProvider yields a point-in-time weather snapshot. Implementations
// never fail: any lookup error is absorbed by substituting the default
// snapshot.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon *float64) WeatherSnapshot
}

// ReminderScheduler arranges delivery of intake reminders for a plan's
// schedule. Scheduling replaces whatever was previously scheduled for the
// user.
type ReminderScheduler interface {
	SchedulePlanReminders(userID uuid.UUID, schedule models.ScheduleItems) error
}

// Pusher delivers a push notification to every enabled device of a user.
type Pusher interface {
	PushToUser(ctx context.Context, userID uuid.UUID, title, body string) error
}
