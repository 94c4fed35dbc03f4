package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"irforge/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

const (
	runStateRowID = 1

	insertOrUpdateRunSQL = `
		INSERT INTO run_state (id, status, started_by, started_at, finished_at,
			files_scanned, files_failed, devices_converted, devices_skipped,
			commands_converted, commands_dropped, last_error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			started_by=excluded.started_by,
			started_at=excluded.started_at,
			finished_at=excluded.finished_at,
			files_scanned=excluded.files_scanned,
			files_failed=excluded.files_failed,
			devices_converted=excluded.devices_converted,
			devices_skipped=excluded.devices_skipped,
			commands_converted=excluded.commands_converted,
			commands_dropped=excluded.commands_dropped,
			last_error=excluded.last_error,
			updated_at=excluded.updated_at
	`

	selectRunSQL = `
		SELECT id, status, started_by, started_at, finished_at,
			files_scanned, files_failed, devices_converted, devices_skipped,
			commands_converted, commands_dropped, last_error, updated_at
		FROM run_state WHERE id=?
	`
)

// Save updates or inserts the run_state row (id always 1).
func (r *RunSQLite) Save(ctx context.Context, state models.RunState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateRunSQL,
		runStateRowID,
		state.Status,
		state.Trigger,
		state.StartedAt.UTC(),
		state.FinishedAt.UTC(),
		state.FilesScanned,
		state.FilesFailed,
		state.DevicesConverted,
		state.DevicesSkipped,
		state.CommandsConverted,
		state.CommandsDropped,
		state.LastError,
		tsUTC,
	)
	return err
}

// Load fetches the single run_state row (id=1).
func (r *RunSQLite) Load(ctx context.Context) (models.RunState, error) {
	row := r.db.QueryRowContext(ctx, selectRunSQL, runStateRowID)

	var s models.RunState
	if err := row.Scan(
		&s.ID,
		&s.Status,
		&s.Trigger,
		&s.StartedAt,
		&s.FinishedAt,
		&s.FilesScanned,
		&s.FilesFailed,
		&s.DevicesConverted,
		&s.DevicesSkipped,
		&s.CommandsConverted,
		&s.CommandsDropped,
		&s.LastError,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunState{}, nil // no run recorded yet
		}
		return models.RunState{}, err
	}

	s.StartedAt = s.StartedAt.UTC()
	s.FinishedAt = s.FinishedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
