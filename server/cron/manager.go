package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CronTriggerManager runs one Runnable on several schedules.
type CronTriggerManager struct {
	triggers []*CronTrigger
	logger   *slog.Logger
}

// NewCronTriggerManager creates a trigger for every schedule in spec.
// See ParseSchedules for the format.
func NewCronTriggerManager(spec string, runnable Runnable, logger *slog.Logger) (*CronTriggerManager, error) {
	schedules, err := ParseSchedules(spec)
	if err != nil {
		return nil, err
	}

	triggers := make([]*CronTrigger, 0, len(schedules))
	for _, schedule := range schedules {
		trigger, err := NewCronTrigger(schedule, runnable, logger)
		if err != nil {
			return nil, fmt.Errorf("creating trigger for '%s': %w", schedule, err)
		}
		triggers = append(triggers, trigger)

		logger.Info("import schedule registered",
			"schedule", schedule,
			"next_run", trigger.NextRun(),
		)
	}

	return &CronTriggerManager{
		triggers: triggers,
		logger:   logger,
	}, nil
}

// Start launches all triggers. Each trigger runs in its own goroutine.
// Returns immediately. All goroutines exit when ctx is cancelled.
func (m *CronTriggerManager) Start(ctx context.Context) {
	for _, trigger := range m.triggers {
		trigger.Start(ctx)
	}
}

// Schedules returns the registered schedules in the order they were given.
func (m *CronTriggerManager) Schedules() []string {
	specs := make([]string, len(m.triggers))
	for i, trigger := range m.triggers {
		specs[i] = trigger.Spec()
	}
	return specs
}

// NextRun returns the earliest scheduled run time across all triggers.
// Returns zero time if there are no triggers or m is nil.
func (m *CronTriggerManager) NextRun() time.Time {
	if m == nil || len(m.triggers) == 0 {
		return time.Time{}
	}

	earliest := m.triggers[0].NextRun()
	for _, trigger := range m.triggers[1:] {
		if next := trigger.NextRun(); next.Before(earliest) {
			earliest = next
		}
	}
	return earliest
}
