package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetreserve/internal/db"
)

// Sentinel errors surfaced by the reservation and vehicle repositories. The
// service layer maps them onto the HTTP taxonomy.
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationCancelled = errors.New("reservation already cancelled")
)

type VehicleRepository interface {
	List(ctx context.Context) ([]db.Vehicle, error)
	GetByID(ctx context.Context, id string) (*db.Vehicle, error)
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(database *sql.DB) VehicleRepository {
	return &vehicleRepository{db: database}
}

func (r *vehicleRepository) List(ctx context.Context) ([]db.Vehicle, error) {
	query := `
		SELECT id, brand, model, registration_number, status, created_at, updated_at
		FROM vehicles
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.RegistrationNumber, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*db.Vehicle, error) {
	var v db.Vehicle
	query := `
		SELECT id, brand, model, registration_number, status, created_at, updated_at
		FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Brand, &v.Model, &v.RegistrationNumber, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("error querying vehicle: %w", err)
	}
	return &v, nil
}
