package service

import (
	"context"

	"irforge/internal/logger"
	"irforge/internal/models"
	"irforge/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Converter runs the corpus conversion pipeline. Run blocks until the run
// finishes; Start launches it in the background and fails fast when a run
// is already active.
type Converter interface {
	Run(ctx context.Context, trigger string) error
	Start(trigger string) error
}

// Catalog exposes read access to converted devices.
type Catalog interface {
	ListDevices(ctx context.Context, manufacturer string) ([]models.Device, error)
	GetDevice(ctx context.Context, id int64) (models.Device, error)
}

// RunStatus exposes the current conversion run snapshot.
type RunStatus interface {
	GetState(ctx context.Context) (models.RunState, error)
}

// EventLog exposes the append-only diagnostics log with filtering access.
type EventLog interface {
	List(ctx context.Context, f EventFilter) ([]models.ConversionEvent, error)
}

// Scheduler re-triggers conversions on a cron spec. Stop via context
// cancellation in main() for graceful shutdown.
type Scheduler interface {
	Run(ctx context.Context) error
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Converter
	Catalog
	RunStatus
	EventLog
	Scheduler
	Authorization
}

// Config aggregates the service-layer knobs read from the config file.
type Config struct {
	Convert   ConvertConfig
	Auth      AuthConfig
	Schedule  string
	Overrides *Overrides
}

// NewService wires the repository layer into concrete services. ctx bounds
// background runs started through Converter.Start, so canceling it in main
// stops API-triggered conversions too.
func NewService(ctx context.Context, repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	converter := NewConverterService(ctx, repos.Catalog, repos.Events, repos.Runs, cfg.Convert, cfg.Overrides, log)
	return &Service{
		Converter:     converter,
		Catalog:       NewCatalogService(repos.Catalog),
		RunStatus:     NewRunStatusService(repos.Runs),
		EventLog:      NewEventLogService(repos.Events),
		Scheduler:     NewSchedulerService(converter, cfg.Schedule, log),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
