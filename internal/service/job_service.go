package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fleetreserve/internal/repository"
)

type JobService struct {
	Repo repository.JobRepository
}

func NewJobService(repo repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteElapsedReservations marks active reservations whose end date has
// passed as completed, then releases reserved vehicles left without any
// active reservation.
func (s *JobService) CompleteElapsedReservations(ctx context.Context) error {
	now := time.Now().UTC()

	ids, err := s.Repo.GetActiveReservationIDsPastEnd(ctx, now)
	if err != nil {
		return fmt.Errorf("sweep: failed to list elapsed reservations: %w", err)
	}
	if len(ids) > 0 {
		updated, err := s.Repo.MarkReservationsCompleted(ctx, ids, now)
		if err != nil {
			return fmt.Errorf("sweep: failed to complete reservations: %w", err)
		}
		log.Infof("Sweep: marked %d reservations as completed", updated)
	}

	released, err := s.Repo.ReleaseIdleVehicles(ctx, now)
	if err != nil {
		return fmt.Errorf("sweep: failed to release vehicles: %w", err)
	}
	if released > 0 {
		log.Infof("Sweep: released %d vehicles back to available", released)
	}
	return nil
}
