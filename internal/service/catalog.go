package service

import (
	"context"
	"errors"

	"irforge/internal/models"
	"irforge/internal/repository"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	errInvalidDeviceID = errors.New("device id must be positive")
)

// CatalogService exposes the converted-device catalog.
type CatalogService struct {
	catalog repository.CatalogRepo
}

func NewCatalogService(catalog repository.CatalogRepo) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListDevices returns catalog entries without their command lists, optionally
// narrowed to one manufacturer.
func (s *CatalogService) ListDevices(ctx context.Context, manufacturer string) ([]models.Device, error) {
	return s.catalog.ListDevices(ctx, manufacturer)
}

// GetDevice returns one catalog entry with its commands loaded.
func (s *CatalogService) GetDevice(ctx context.Context, id int64) (models.Device, error) {
	if id <= 0 {
		return models.Device{}, errInvalidDeviceID
	}
	dev, err := s.catalog.GetDevice(ctx, id)
	if errors.Is(err, repository.ErrDeviceNotFound) {
		return models.Device{}, ErrDeviceNotFound
	}
	return dev, err
}
