package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetreserve/internal/db"
	"fleetreserve/internal/entities"
)

type ReservationRepository interface {
	// Create inserts the reservation and flips the vehicle to reserved as one
	// transaction. The vehicle row is locked first, so two concurrent creates
	// for the same vehicle cannot both pass the overlap check. When active
	// reservations overlap the requested range, nothing is written and the
	// conflicting rows are returned instead.
	Create(ctx context.Context, res *db.Reservation) ([]db.Reservation, error)

	// Cancel marks the user's reservation cancelled and, when no active
	// reservation remains for the vehicle, releases it back to available.
	// Runs as one transaction. Returns ErrReservationNotFound when the
	// reservation does not exist or belongs to another user.
	Cancel(ctx context.Context, id, userID string, now time.Time) (*db.Reservation, error)

	ListActiveForVehicle(ctx context.Context, vehicleID string) ([]db.Reservation, error)
	GetByID(ctx context.Context, id string) (*entities.ReservationResponse, error)
	ListForUser(ctx context.Context, userID string) ([]entities.ReservationResponse, error)
	ListAll(ctx context.Context) ([]entities.ReservationResponse, error)
}

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(database *sql.DB) ReservationRepository {
	return &reservationRepository{db: database}
}

// Closed-interval overlap: an active reservation conflicts with [start, end]
// iff existing.start <= end AND existing.end >= start. A reservation ending
// exactly when another starts still counts as a conflict.
const overlapQuery = `
	SELECT id, user_id, vehicle_id, start_date, end_date, reason, status, created_at, updated_at
	FROM reservations
	WHERE vehicle_id = $1
	  AND status IN ('pending', 'confirmed')
	  AND start_date <= $2
	  AND end_date >= $3
	ORDER BY start_date`

func (r *reservationRepository) Create(ctx context.Context, res *db.Reservation) ([]db.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Serializes writers per vehicle for the check-then-insert sequence.
	var vehicleStatus string
	err = tx.QueryRowContext(ctx, `SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`, res.VehicleID).Scan(&vehicleStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("error locking vehicle: %w", err)
	}

	conflicts, err := scanReservations(tx.QueryContext(ctx, overlapQuery, res.VehicleID, res.EndDate, res.StartDate))
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping reservations: %w", err)
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations (id, user_id, vehicle_id, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		res.ID, res.UserID, res.VehicleID, res.StartDate, res.EndDate, res.Reason, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting reservation: %w", err)
	}

	// Blunt flag: reserved means "has at least one active booking", not
	// "occupied right now".
	_, err = tx.ExecContext(ctx, `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
		db.VehicleStatusReserved, res.CreatedAt, res.VehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating vehicle status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing reservation: %w", err)
	}
	return nil, nil
}

func (r *reservationRepository) Cancel(ctx context.Context, id, userID string, now time.Time) (*db.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var res db.Reservation
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, vehicle_id, start_date, end_date, reason, status, created_at, updated_at
		FROM reservations
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, id, userID).Scan(
		&res.ID, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate, &res.Reason, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent and not-yours both report not found.
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	if res.Status == db.ReservationStatusCancelled {
		return nil, ErrReservationCancelled
	}

	_, err = tx.ExecContext(ctx, `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		db.ReservationStatusCancelled, now, res.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("error cancelling reservation: %w", err)
	}

	var active int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE vehicle_id = $1 AND status IN ('pending', 'confirmed')`, res.VehicleID).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("error counting active reservations: %w", err)
	}
	if active == 0 {
		_, err = tx.ExecContext(ctx, `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
			db.VehicleStatusAvailable, now, res.VehicleID,
		)
		if err != nil {
			return nil, fmt.Errorf("error releasing vehicle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing cancellation: %w", err)
	}
	res.Status = db.ReservationStatusCancelled
	res.UpdatedAt = now
	return &res, nil
}

func (r *reservationRepository) ListActiveForVehicle(ctx context.Context, vehicleID string) ([]db.Reservation, error) {
	query := `
		SELECT id, user_id, vehicle_id, start_date, end_date, reason, status, created_at, updated_at
		FROM reservations
		WHERE vehicle_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY start_date`
	reservations, err := scanReservations(r.db.QueryContext(ctx, query, vehicleID))
	if err != nil {
		return nil, fmt.Errorf("error querying active reservations: %w", err)
	}
	return reservations, nil
}

const joinedSelect = `
	SELECT
		r.id, r.user_id, r.vehicle_id, r.start_date, r.end_date, r.reason, r.status, r.created_at, r.updated_at,
		v.id, v.brand, v.model, v.registration_number, v.status,
		u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, '')
	FROM reservations r
	LEFT JOIN vehicles v ON r.vehicle_id = v.id
	LEFT JOIN users u ON r.user_id = u.id`

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*entities.ReservationResponse, error) {
	row := r.db.QueryRowContext(ctx, joinedSelect+` WHERE r.id = $1`, id)
	res, err := scanJoinedRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return res, nil
}

func (r *reservationRepository) ListForUser(ctx context.Context, userID string) ([]entities.ReservationResponse, error) {
	query := joinedSelect + ` WHERE r.user_id = $1 ORDER BY r.created_at DESC`
	return r.listJoined(ctx, query, userID)
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]entities.ReservationResponse, error) {
	query := joinedSelect + ` ORDER BY r.created_at DESC`
	return r.listJoined(ctx, query)
}

func (r *reservationRepository) listJoined(ctx context.Context, query string, args ...interface{}) ([]entities.ReservationResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	reservations := []entities.ReservationResponse{}
	for rows.Next() {
		res, err := scanJoinedRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

func scanJoinedRow(scan func(dest ...interface{}) error) (*entities.ReservationResponse, error) {
	var res entities.ReservationResponse
	var vehicle entities.VehicleSummary
	var user entities.UserSummary
	err := scan(
		&res.ID, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate, &res.Reason, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		&vehicle.ID, &vehicle.Brand, &vehicle.Model, &vehicle.RegistrationNumber, &vehicle.Status,
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
	)
	if err != nil {
		return nil, err
	}
	res.Vehicle = &vehicle
	res.User = &user
	return &res, nil
}

func scanReservations(rows *sql.Rows, err error) ([]db.Reservation, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate, &res.Reason, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
