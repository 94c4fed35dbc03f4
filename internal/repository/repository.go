package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"irforge/internal/models"
	"irforge/internal/repository/db"
)

// ErrDeviceNotFound reports a catalog lookup for an id that does not exist.
var ErrDeviceNotFound = errors.New("device not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// RunRepo persists the single conversion-run snapshot row.
type RunRepo interface {
	Save(ctx context.Context, s models.RunState) error
	Load(ctx context.Context) (models.RunState, error)
}

// EventRepo is the append-only conversion diagnostics log.
type EventRepo interface {
	Append(ctx context.Context, e models.ConversionEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ConversionEvent, error)
}

// CatalogRepo stores converted devices and their commands.
type CatalogRepo interface {
	SaveDevice(ctx context.Context, d models.Device) (int64, error)
	ListDevices(ctx context.Context, manufacturer string) ([]models.Device, error)
	GetDevice(ctx context.Context, id int64) (models.Device, error)
}

type Repository struct {
	Runs    RunRepo
	Events  EventRepo
	Catalog CatalogRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs:    NewRunSQLite(db),
		Events:  NewEventSQLite(db),
		Catalog: NewCatalogSQLite(db),
		Auth:    NewUserRepository(db),
	}
}

// InitDB opens the SQLite database file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
