package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"irforge/internal/models"
	"irforge/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// EventLogService exposes the conversion diagnostics trail.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns events matching the filter, oldest first. Zero time bounds
// are open ends, an empty type matches every type.
func (s *EventLogService) List(ctx context.Context, f EventFilter) ([]models.ConversionEvent, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}

	eventType := strings.TrimSpace(strings.ToUpper(f.Type))
	return s.eventRepo.List(ctx, from, to, eventType)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
