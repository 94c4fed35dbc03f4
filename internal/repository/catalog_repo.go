package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"irforge/internal/models"
)

type CatalogSQLite struct {
	db *sql.DB
}

func NewCatalogSQLite(db *sql.DB) *CatalogSQLite {
	return &CatalogSQLite{db: db}
}

// Ensure implementation of CatalogRepo at compile time.
var _ CatalogRepo = (*CatalogSQLite)(nil)

const (
	upsertDeviceSQL = `
		INSERT INTO devices (manufacturer, model, format, frequency, source_file,
			output_path, command_count, converted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(manufacturer, model) DO UPDATE SET
			format=excluded.format,
			frequency=excluded.frequency,
			source_file=excluded.source_file,
			output_path=excluded.output_path,
			command_count=excluded.command_count,
			converted_at=excluded.converted_at
	`

	selectDeviceIDSQL = `SELECT id FROM devices WHERE manufacturer = ? AND model = ?`

	deleteCommandsSQL = `DELETE FROM commands WHERE device_id = ?`

	insertCommandSQL = `
		INSERT INTO commands (device_id, position, name, type, protocol, address,
			command, data, frequency, duty_cycle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectDeviceColumns = `id, manufacturer, model, format, frequency, source_file,
		output_path, command_count, converted_at`

	selectCommandsSQL = `
		SELECT id, position, name, type, protocol, address, command, data,
			frequency, duty_cycle
		FROM commands WHERE device_id = ? ORDER BY position ASC
	`
)

// SaveDevice upserts the device row keyed by (manufacturer, model) and
// replaces its command rows, all in one transaction. Re-converting a source
// file therefore never leaves stale commands behind.
func (r *CatalogSQLite) SaveDevice(ctx context.Context, d models.Device) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, upsertDeviceSQL,
		d.Manufacturer,
		d.Model,
		d.FormatTag,
		d.Frequency,
		d.SourceFile,
		d.OutputPath,
		len(d.Commands),
		d.ConvertedAt.UTC(),
	); err != nil {
		return 0, fmt.Errorf("upsert device %s/%s: %w", d.Manufacturer, d.Model, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, selectDeviceIDSQL, d.Manufacturer, d.Model).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve device id for %s/%s: %w", d.Manufacturer, d.Model, err)
	}

	if _, err := tx.ExecContext(ctx, deleteCommandsSQL, id); err != nil {
		return 0, fmt.Errorf("clear commands for device %d: %w", id, err)
	}
	for _, cmd := range d.Commands {
		if _, err := tx.ExecContext(ctx, insertCommandSQL,
			id,
			cmd.Position,
			cmd.Name,
			cmd.Type,
			cmd.Protocol,
			cmd.Address,
			cmd.Command,
			cmd.Data,
			cmd.Frequency,
			cmd.DutyCycle,
		); err != nil {
			return 0, fmt.Errorf("insert command %q for device %d: %w", cmd.Name, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog transaction: %w", err)
	}
	return id, nil
}

// ListDevices returns catalog rows without their commands, optionally
// narrowed to one manufacturer.
func (r *CatalogSQLite) ListDevices(ctx context.Context, manufacturer string) ([]models.Device, error) {
	q := `SELECT ` + selectDeviceColumns + ` FROM devices`
	var args []any
	if manufacturer = strings.TrimSpace(manufacturer); manufacturer != "" {
		q += ` WHERE manufacturer = ?`
		args = append(args, manufacturer)
	}
	q += ` ORDER BY manufacturer ASC, model ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Device, 0, 64)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDevice returns one device with its commands in document order.
func (r *CatalogSQLite) GetDevice(ctx context.Context, id int64) (models.Device, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectDeviceColumns+` FROM devices WHERE id = ?`, id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, ErrDeviceNotFound
		}
		return models.Device{}, err
	}

	rows, err := r.db.QueryContext(ctx, selectCommandsSQL, id)
	if err != nil {
		return models.Device{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cmd models.Command
		if err := rows.Scan(
			&cmd.ID,
			&cmd.Position,
			&cmd.Name,
			&cmd.Type,
			&cmd.Protocol,
			&cmd.Address,
			&cmd.Command,
			&cmd.Data,
			&cmd.Frequency,
			&cmd.DutyCycle,
		); err != nil {
			return models.Device{}, err
		}
		d.Commands = append(d.Commands, cmd)
	}
	if err := rows.Err(); err != nil {
		return models.Device{}, err
	}
	return d, nil
}

// scanDevice works for both *sql.Row and *sql.Rows.
func scanDevice(row interface{ Scan(dest ...any) error }) (models.Device, error) {
	var d models.Device
	if err := row.Scan(
		&d.ID,
		&d.Manufacturer,
		&d.Model,
		&d.FormatTag,
		&d.Frequency,
		&d.SourceFile,
		&d.OutputPath,
		&d.CommandCount,
		&d.ConvertedAt,
	); err != nil {
		return models.Device{}, err
	}
	d.ConvertedAt = d.ConvertedAt.UTC()
	return d, nil
}
