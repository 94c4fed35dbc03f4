package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"irforge/internal/logger"
)

// SchedulerService re-runs the converter on a cron schedule so the output
// tree follows edits to the source corpus. An empty schedule disables it.
type SchedulerService struct {
	converter Converter
	schedule  string
	log       *logger.Logger
}

func NewSchedulerService(converter Converter, schedule string, log *logger.Logger) *SchedulerService {
	return &SchedulerService{converter: converter, schedule: schedule, log: log}
}

// Run blocks until ctx is cancelled. The schedule uses the six-field cron
// format with a leading seconds column.
func (s *SchedulerService) Run(ctx context.Context) error {
	schedule := strings.TrimSpace(s.schedule)
	if schedule == "" {
		return nil
	}

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(schedule, func() {
		err := s.converter.Run(ctx, TriggerSchedule)
		switch {
		case errors.Is(err, ErrRunInProgress):
			if s.log != nil {
				s.log.Infow("scheduled run skipped, previous run still active")
			}
		case err != nil:
			if s.log != nil {
				s.log.Errorw("scheduled run failed", "err", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", schedule, err)
	}

	if s.log != nil {
		s.log.Infow("scheduler started", "schedule", schedule)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
