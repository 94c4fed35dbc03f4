package models

import "time"

// RunState is the snapshot of the most recent conversion run. A single row
// is kept and overwritten as the run progresses.
type RunState struct {
	ID                int       `json:"id"`
	Status            string    `json:"status"`            // IDLE | RUNNING | DONE | FAILED
	Trigger           string    `json:"trigger,omitempty"` // startup | api | schedule
	StartedAt         time.Time `json:"started_at,omitempty"`
	FinishedAt        time.Time `json:"finished_at,omitempty"`
	FilesScanned      int       `json:"files_scanned"`
	FilesFailed       int       `json:"files_failed"`
	DevicesConverted  int       `json:"devices_converted"`
	DevicesSkipped    int       `json:"devices_skipped"`
	CommandsConverted int       `json:"commands_converted"`
	CommandsDropped   int       `json:"commands_dropped"`
	LastError         string    `json:"last_error,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}
