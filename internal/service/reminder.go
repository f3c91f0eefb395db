package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/models"
)

// UpcomingSlots returns the schedule entries whose time-of-day is still
// ahead of now on the current date, in ascending time order. Entries already
// past are dropped, not rolled over to tomorrow. Entries with unparsable
// times are skipped.
func UpcomingSlots(schedule models.ScheduleItems, now time.Time) models.ScheduleItems {
	type timedSlot struct {
		at   time.Time
		item models.ScheduleItem
	}
	future := make([]timedSlot, 0, len(schedule))
	for _, item := range schedule {
		at, err := slotTime(item.Time, now)
		if err != nil {
			continue
		}
		if at.After(now) {
			future = append(future, timedSlot{at: at, item: item})
		}
	}
	// Order by the resolved instant, not the raw string: "7:30" is a valid
	// slot time and must sort before "14:00".
	sort.SliceStable(future, func(i, j int) bool {
		return future[i].at.Before(future[j].at)
	})
	upcoming := make(models.ScheduleItems, 0, len(future))
	for _, slot := range future {
		upcoming = append(upcoming, slot.item)
	}
	return upcoming
}

// slotTime resolves an "HH:MM" slot to an instant on now's date in now's
// location.
func slotTime(hhmm string, now time.Time) (time.Time, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid slot time %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in slot time %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in slot time %q", hhmm)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}

// ReminderService schedules one push notification per remaining schedule
// slot of the day. Scheduling a plan replaces everything previously
// scheduled for that user; slots are delivered by in-process timers through
// the push service.
type ReminderService struct {
	pusher Pusher
	logger *logger.Logger
	loc    *time.Location

	mu     sync.Mutex
	timers map[uuid.UUID][]*time.Timer

	// now is swappable in tests.
	now func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(pusher Pusher, loc *time.Location, log *logger.Logger) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		pusher: pusher,
		logger: log,
		loc:    loc,
		timers: make(map[uuid.UUID][]*time.Timer),
		now:    time.Now,
	}
}

var _ ReminderScheduler = (*ReminderService)(nil)

// SchedulePlanReminders cancels the user's pending reminders and arranges
// one reminder for every slot still in the future today.
func (s *ReminderService) SchedulePlanReminders(userID uuid.UUID, schedule models.ScheduleItems) error {
	now := s.now().In(s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, timer := range s.timers[userID] {
		timer.Stop()
	}
	s.timers[userID] = nil

	for _, item := range UpcomingSlots(schedule, now) {
		at, err := slotTime(item.Time, now)
		if err != nil {
			continue
		}
		item := item
		timer := time.AfterFunc(time.Until(at), func() {
			s.fire(userID, item)
		})
		s.timers[userID] = append(s.timers[userID], timer)
	}

	return nil
}

// CancelReminders drops every pending reminder for the user.
func (s *ReminderService) CancelReminders(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, timer := range s.timers[userID] {
		timer.Stop()
	}
	delete(s.timers, userID)
}

func (s *ReminderService) fire(userID uuid.UUID, item models.ScheduleItem) {
	body := fmt.Sprintf("Drink %dml of water.", item.Amount)
	if item.Description != "" {
		body = fmt.Sprintf("Drink %dml of water. %s", item.Amount, item.Description)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.pusher.PushToUser(ctx, userID, "Time to hydrate!", body); err != nil {
		s.logger.Warn("failed to deliver hydration reminder", "user_id", userID, "slot", item.Time, "error", err)
	}
}
