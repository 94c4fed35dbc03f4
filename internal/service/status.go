package service

import (
	"context"
	"time"

	"irforge/internal/models"
	"irforge/internal/repository"
)

// RunStatusService reads the persisted run snapshot for the REST endpoint
// and the websocket stream.
type RunStatusService struct {
	runs repository.RunRepo
}

func NewRunStatusService(runs repository.RunRepo) *RunStatusService {
	return &RunStatusService{runs: runs}
}

// GetState returns the latest run snapshot. Before the first run has ever
// been recorded the store is empty and an IDLE baseline is reported instead.
func (s *RunStatusService) GetState(ctx context.Context) (models.RunState, error) {
	st, err := s.runs.Load(ctx)
	if err != nil {
		return models.RunState{}, err
	}
	if st.ID == 0 {
		return models.RunState{
			ID:        1,
			Status:    StatusIdle,
			UpdatedAt: time.Now().UTC(),
		}, nil
	}
	return st, nil
}
