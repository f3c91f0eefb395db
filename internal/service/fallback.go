package service

import (
	"fmt"
	"math"

	"github.com/hydromate/backend/internal/models"
)

// activityMultipliers scale the base intake (weight x 30ml) by activity
// level. Unrecognized levels fall back to the moderate multiplier.
var activityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.0,
	models.ActivityLight:      1.1,
	models.ActivityModerate:   1.2,
	models.ActivityActive:     1.3,
	models.ActivityVeryActive: 1.4,
}

// fallbackSlot is one entry of the fixed 7-slot schedule.
type fallbackSlot struct {
	time        string
	share       float64
	description string
}

// The shares intentionally sum to 0.88, leaving slack for unscheduled sips.
var fallbackSlots = []fallbackSlot{
	{"07:00", 0.15, "Morning hydration boost"},
	{"09:00", 0.12, "Mid-morning intake"},
	{"11:30", 0.12, "Pre-lunch hydration"},
	{"14:00", 0.15, "Afternoon energy boost"},
	{"16:30", 0.12, "Late afternoon intake"},
	{"18:30", 0.12, "Evening hydration"},
	{"20:30", 0.10, "Light evening intake"},
}

// FallbackPlan computes a hydration plan from profile and weather alone. It
// is pure, performs no I/O and always succeeds; the plan resolver uses it
// whenever the generated plan is unavailable or invalid.
func FallbackPlan(profile *models.UserProfile, weather WeatherSnapshot) *models.HydrationPlan {
	base := profile.Weight * 30

	multiplier, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[models.ActivityModerate]
	}
	base *= multiplier

	// Weather adjustments compound: above 30C both heat multipliers apply.
	if weather.Temperature > 25 {
		base *= 1.1
	}
	if weather.Temperature > 30 {
		base *= 1.2
	}
	if weather.Humidity > 70 {
		base *= 1.05
	}

	total := int(math.Round(base))

	schedule := make(models.ScheduleItems, 0, len(fallbackSlots))
	for _, slot := range fallbackSlots {
		schedule = append(schedule, models.ScheduleItem{
			Time:        slot.time,
			Amount:      int(math.Round(float64(total) * slot.share)),
			Description: slot.description,
		})
	}

	return &models.HydrationPlan{
		TotalIntakeML: total,
		Schedule:      schedule,
		Suggestions: fmt.Sprintf(
			"Stay hydrated throughout the day. Given the current weather (%d°C), make sure to drink regularly. Your %s activity level requires consistent hydration.",
			weather.Temperature, profile.ActivityLevel,
		),
	}
}
