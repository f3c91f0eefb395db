package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/models"
	"github.com/hydromate/backend/internal/testhelpers"
)

type stubGenerator struct {
	calls int
	plan  *models.HydrationPlan
	err   error
}

func (g *stubGenerator) GeneratePlan(_ context.Context, _ *models.UserProfile, _ WeatherSnapshot) (*models.HydrationPlan, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	// Return a copy so callers can set ownership fields freely.
	plan := *g.plan
	return &plan, nil
}

type stubWeather struct {
	calls    int
	snapshot WeatherSnapshot
	onCall   func()
}

func (w *stubWeather) Current(_ context.Context, _, _ *float64) WeatherSnapshot {
	w.calls++
	if w.onCall != nil {
		w.onCall()
	}
	return w.snapshot
}

type stubReminders struct {
	calls int
	err   error
	last  models.ScheduleItems
}

func (r *stubReminders) SchedulePlanReminders(_ uuid.UUID, schedule models.ScheduleItems) error {
	r.calls++
	r.last = schedule
	return r.err
}

func testProfile(userID uuid.UUID) *models.UserProfile {
	return &models.UserProfile{
		UserID:        userID,
		Age:           30,
		Weight:        70,
		Gender:        "female",
		ActivityLevel: models.ActivityModerate,
	}
}

func generatedPlan() *models.HydrationPlan {
	return &models.HydrationPlan{
		TotalIntakeML: 2600,
		Schedule: models.ScheduleItems{
			{Time: "08:00", Amount: 400, Description: "Start the day"},
			{Time: "12:00", Amount: 500, Description: "With lunch"},
			{Time: "18:00", Amount: 400, Description: "Early evening"},
		},
		Suggestions: "Drink steadily through the day.",
	}
}

func newPlanService(t *testing.T, db *gorm.DB, generator PlanGenerator, weather WeatherProvider, reminders ReminderScheduler) *PlanService {
	t.Helper()
	svc := NewPlanService(db, generator, weather, reminders, time.UTC, logger.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestPlanServiceResolvePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("generates and persists on first resolve", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		generator := &stubGenerator{plan: generatedPlan()}
		weather := &stubWeather{snapshot: DefaultWeather()}
		reminders := &stubReminders{}
		svc := newPlanService(t, db, generator, weather, reminders)
		profile := testProfile(uuid.New())

		plan, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, 2600, plan.TotalIntakeML)
		assert.Equal(t, profile.UserID, plan.UserID)
		assert.Equal(t, "2025-06-15", plan.Date)
		assert.Equal(t, 1, generator.calls)
		assert.Equal(t, 1, weather.calls)
		assert.Equal(t, 1, reminders.calls)

		var count int64
		require.NoError(t, db.Model(&models.HydrationPlan{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("second resolve returns the stored plan untouched", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		generator := &stubGenerator{plan: generatedPlan()}
		weather := &stubWeather{snapshot: DefaultWeather()}
		reminders := &stubReminders{}
		svc := newPlanService(t, db, generator, weather, reminders)
		profile := testProfile(uuid.New())

		first, _, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)

		second, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.TotalIntakeML, second.TotalIntakeML)
		assert.Equal(t, first.Schedule, second.Schedule)

		// The hit path touches no collaborators.
		assert.Equal(t, 1, generator.calls)
		assert.Equal(t, 1, weather.calls)
		assert.Equal(t, 1, reminders.calls)
	})

	t.Run("plans are scoped per user", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		generator := &stubGenerator{plan: generatedPlan()}
		svc := newPlanService(t, db, generator, &stubWeather{snapshot: DefaultWeather()}, nil)

		a, _, err := svc.ResolvePlan(ctx, testProfile(uuid.New()), nil, nil)
		require.NoError(t, err)
		b, _, err := svc.ResolvePlan(ctx, testProfile(uuid.New()), nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, a.UserID, b.UserID)
		assert.Equal(t, 2, generator.calls)
	})

	t.Run("generator failure substitutes the fallback plan", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		generator := &stubGenerator{err: assert.AnError}
		weather := &stubWeather{snapshot: WeatherSnapshot{Temperature: 20, Humidity: 50}}
		svc := newPlanService(t, db, generator, weather, nil)
		profile := testProfile(uuid.New())

		plan, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)

		expected := FallbackPlan(profile, weather.snapshot)
		assert.Equal(t, expected.TotalIntakeML, plan.TotalIntakeML)
		assert.Equal(t, expected.Schedule, plan.Schedule)
	})

	t.Run("nil generator uses the fallback directly", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		weather := &stubWeather{snapshot: WeatherSnapshot{Temperature: 20, Humidity: 50}}
		svc := newPlanService(t, db, nil, weather, nil)
		profile := testProfile(uuid.New())

		plan, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, 2520, plan.TotalIntakeML)
	})

	t.Run("losing the insert race returns the winner's plan", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		profile := testProfile(uuid.New())

		// The winner's row lands between this resolver's lookup and its
		// insert; the weather hook models that interleaving.
		winner := generatedPlan()
		winner.UserID = profile.UserID
		winner.Date = "2025-06-15"
		winner.TotalIntakeML = 1111
		weather := &stubWeather{
			snapshot: DefaultWeather(),
			onCall: func() {
				require.NoError(t, db.Create(winner).Error)
			},
		}
		generator := &stubGenerator{plan: generatedPlan()}
		svc := newPlanService(t, db, generator, weather, nil)

		plan, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, 1111, plan.TotalIntakeML)

		var count int64
		require.NoError(t, db.Model(&models.HydrationPlan{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("persistence failure still returns the plan", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		profile := testProfile(uuid.New())

		weather := &stubWeather{
			snapshot: DefaultWeather(),
			onCall: func() {
				require.NoError(t, db.Migrator().DropTable(&models.HydrationPlan{}))
			},
		}
		generator := &stubGenerator{plan: generatedPlan()}
		svc := newPlanService(t, db, generator, weather, nil)

		plan, saved, err := svc.ResolvePlan(ctx, profile, nil, nil)
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, 2600, plan.TotalIntakeML)
	})

	t.Run("reminder failure does not fail the resolve", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		generator := &stubGenerator{plan: generatedPlan()}
		reminders := &stubReminders{err: assert.AnError}
		svc := newPlanService(t, db, generator, &stubWeather{snapshot: DefaultWeather()}, reminders)

		plan, saved, err := svc.ResolvePlan(ctx, testProfile(uuid.New()), nil, nil)
		require.NoError(t, err)
		assert.True(t, saved)
		assert.NotNil(t, plan)
		assert.Equal(t, 1, reminders.calls)
	})
}

func TestPlanServiceLookupPlan(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewTestDB(t)
	svc := newPlanService(t, db, nil, &stubWeather{snapshot: DefaultWeather()}, nil)

	t.Run("missing plan maps to ErrPlanNotFound", func(t *testing.T) {
		_, err := svc.LookupPlan(ctx, uuid.New(), "2025-06-15")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("stored plan round-trips with its schedule", func(t *testing.T) {
		stored := generatedPlan()
		stored.UserID = uuid.New()
		stored.Date = "2025-06-15"
		require.NoError(t, db.Create(stored).Error)

		got, err := svc.LookupPlan(ctx, stored.UserID, "2025-06-15")
		require.NoError(t, err)
		assert.Equal(t, stored.TotalIntakeML, got.TotalIntakeML)
		assert.Equal(t, stored.Schedule, got.Schedule)
		assert.Equal(t, stored.Suggestions, got.Suggestions)
	})
}

func TestPlanServiceToday(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	svc := NewPlanService(db, nil, &stubWeather{snapshot: DefaultWeather()}, nil, loc, logger.NewNop())
	svc.now = func() time.Time {
		// 23:30 UTC is already the next day in Tokyo.
		return time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	}
	assert.Equal(t, "2025-06-16", svc.Today())
}
