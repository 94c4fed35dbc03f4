package models

import "time"

// ConversionEvent is a single diagnostics log entry.
type ConversionEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // RUN_STARTED | RUN_FINISHED | RUN_FAILED | FILE_FAILED | DEVICE_SKIPPED | COMMAND_DROPPED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
