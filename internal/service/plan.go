package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/models"
)

// ErrPlanNotFound signals the expected miss path of a plan lookup. It is
// not a failure; the resolver routes it to generation.
var ErrPlanNotFound = errors.New("no hydration plan for this date")

// PlanService resolves the daily hydration plan: an existing plan for
// (user, date) is returned verbatim, otherwise one is generated, persisted
// and reminders are scheduled.
type PlanService struct {
	db        *gorm.DB
	generator PlanGenerator
	weather   WeatherProvider
	reminders ReminderScheduler
	logger    *logger.Logger
	loc       *time.Location

	// now is swappable in tests.
	now func() time.Time
}

// NewPlanService creates a new PlanService. The generator may be nil when no
// LLM credentials are configured; every resolution then uses the fallback
// calculator directly.
func NewPlanService(db *gorm.DB, generator PlanGenerator, weather WeatherProvider, reminders ReminderScheduler, loc *time.Location, log *logger.Logger) *PlanService {
	if loc == nil {
		loc = time.Local
	}
	return &PlanService{
		db:        db,
		generator: generator,
		weather:   weather,
		reminders: reminders,
		logger:    log,
		loc:       loc,
		now:       time.Now,
	}
}

// Today returns the current plan date key in the service's timezone.
func (s *PlanService) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// LookupPlan fetches the stored plan for (userID, date). A missing row maps
// to ErrPlanNotFound; any other database error is returned as-is so callers
// never mistake an outage for an empty day.
func (s *PlanService) LookupPlan(ctx context.Context, userID uuid.UUID, date string) (*models.HydrationPlan, error) {
	var plan models.HydrationPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}
	return &plan, nil
}

// ResolvePlan returns today's plan for the user, generating one on a lookup
// miss. The second result reports whether the returned plan is durably
// persisted: a persistence failure after generation is logged and the
// in-memory plan is still returned rather than blocking the user.
func (s *PlanService) ResolvePlan(ctx context.Context, profile *models.UserProfile, lat, lon *float64) (*models.HydrationPlan, bool, error) {
	userID := profile.UserID
	date := s.Today()

	existing, err := s.LookupPlan(ctx, userID, date)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrPlanNotFound) {
		return nil, false, err
	}

	weather := s.weather.Current(ctx, lat, lon)
	plan := s.generate(ctx, profile, weather)
	plan.UserID = userID
	plan.Date = date

	saved := true
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a generation race; the winner's row is the plan of record.
			winner, lookupErr := s.LookupPlan(ctx, userID, date)
			if lookupErr == nil {
				return winner, true, nil
			}
			s.logger.Error("failed to re-read plan after duplicate insert", "user_id", userID, "error", lookupErr)
			saved = false
		} else {
			s.logger.Error("failed to persist hydration plan", "user_id", userID, "date", date, "error", err)
			saved = false
		}
	}

	if s.reminders != nil {
		if err := s.reminders.SchedulePlanReminders(userID, plan.Schedule); err != nil {
			s.logger.Warn("failed to schedule hydration reminders", "user_id", userID, "error", err)
		}
	}

	return plan, saved, nil
}

// generate prefers the LLM-produced plan and substitutes the deterministic
// fallback on any failure. It never errors.
func (s *PlanService) generate(ctx context.Context, profile *models.UserProfile, weather WeatherSnapshot) *models.HydrationPlan {
	if s.generator == nil {
		return FallbackPlan(profile, weather)
	}
	plan, err := s.generator.GeneratePlan(ctx, profile, weather)
	if err != nil {
		s.logger.Warn("plan generation failed, using fallback calculator", "user_id", profile.UserID, "error", err)
		return FallbackPlan(profile, weather)
	}
	return plan
}
