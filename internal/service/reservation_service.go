package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fleetreserve/internal/db"
	"fleetreserve/internal/entities"
	"fleetreserve/internal/httperrors"
	"fleetreserve/internal/repository"
)

type ReservationService struct {
	reservations repository.ReservationRepository
	vehicles     repository.VehicleRepository
	notifier     *NotifyService
}

func NewReservationService(reservations repository.ReservationRepository, vehicles repository.VehicleRepository, notifier *NotifyService) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		vehicles:     vehicles,
		notifier:     notifier,
	}
}

// CreateReservation books the vehicle for [start, end]. Temporal rules are
// checked here; the overlap gate and the vehicle status flip run atomically
// in the repository. Input presence is the handler's job.
func (s *ReservationService) CreateReservation(ctx context.Context, userID, vehicleID string, start, end time.Time, reason string) (*entities.ReservationResponse, error) {
	if !end.After(start) {
		return nil, httperrors.Validation("End date must be after start date")
	}
	if start.Before(time.Now().UTC()) {
		return nil, httperrors.Validation("Start date cannot be in the past")
	}

	now := time.Now().UTC()
	reservation := &db.Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		VehicleID: vehicleID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    db.ReservationStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	conflicts, err := s.reservations.Create(ctx, reservation)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, httperrors.NotFound("Vehicle not found")
		}
		return nil, fmt.Errorf("error creating reservation: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, httperrors.Conflict("Vehicle is already reserved for this period", conflictingPeriods(conflicts))
	}

	created, err := s.reservations.GetByID(ctx, reservation.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading created reservation: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ReservationCreated(created)
	}
	return created, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, userID, reservationID string) (*entities.ReservationResponse, error) {
	_, err := s.reservations.Cancel(ctx, reservationID, userID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return nil, httperrors.NotFound("Reservation not found")
		case errors.Is(err, repository.ErrReservationCancelled):
			return nil, httperrors.Validation("Reservation is already cancelled")
		default:
			return nil, fmt.Errorf("error cancelling reservation: %w", err)
		}
	}

	cancelled, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("error loading cancelled reservation: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ReservationCancelled(cancelled)
	}
	return cancelled, nil
}

func (s *ReservationService) GetUserReservations(ctx context.Context, userID string) ([]entities.ReservationResponse, error) {
	return s.reservations.ListForUser(ctx, userID)
}

func (s *ReservationService) GetAllReservations(ctx context.Context) ([]entities.ReservationResponse, error) {
	return s.reservations.ListAll(ctx)
}

func (s *ReservationService) GetReservationByID(ctx context.Context, id string) (*entities.ReservationResponse, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, httperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	return res, nil
}

// CheckAvailability answers whether the vehicle is free for [start, end].
// The vehicle must exist before the overlap check runs.
func (s *ReservationService) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time) (*entities.AvailabilityResponse, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, httperrors.NotFound("Vehicle not found")
		}
		return nil, err
	}

	active, err := s.reservations.ListActiveForVehicle(ctx, vehicleID)
	if err != nil {
		log.Errorf("Error listing active reservations for vehicle %s: %v", vehicleID, err)
		return nil, fmt.Errorf("error checking availability: %w", err)
	}

	conflicts := FindConflicts(active, start, end)
	return &entities.AvailabilityResponse{
		Vehicle:                 vehicleToResponse(vehicle),
		Available:               len(conflicts) == 0,
		ConflictingReservations: conflictingPeriods(conflicts),
	}, nil
}

func (s *ReservationService) ListVehicles(ctx context.Context) ([]entities.VehicleResponse, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := []entities.VehicleResponse{}
	for i := range vehicles {
		responses = append(responses, vehicleToResponse(&vehicles[i]))
	}
	return responses, nil
}

func (s *ReservationService) GetVehicle(ctx context.Context, id string) (*entities.VehicleResponse, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, httperrors.NotFound("Vehicle not found")
		}
		return nil, err
	}
	resp := vehicleToResponse(vehicle)
	return &resp, nil
}

func vehicleToResponse(v *db.Vehicle) entities.VehicleResponse {
	return entities.VehicleResponse{
		ID:                 v.ID,
		Brand:              v.Brand,
		Model:              v.Model,
		RegistrationNumber: v.RegistrationNumber,
		Status:             v.Status,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
