package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository interface {
	GetActiveReservationIDsPastEnd(ctx context.Context, now time.Time) ([]string, error)
	MarkReservationsCompleted(ctx context.Context, ids []string, now time.Time) (int64, error)
	ReleaseIdleVehicles(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(database *sql.DB) JobRepository {
	return &jobRepository{db: database}
}

func (r *jobRepository) GetActiveReservationIDsPastEnd(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		SELECT id FROM reservations
		WHERE status IN ('pending', 'confirmed') AND end_date < $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying active reservations past end date: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *jobRepository) MarkReservationsCompleted(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE reservations SET status = 'completed', updated_at = $1 WHERE id = ANY($2)`
	result, err := r.db.ExecContext(ctx, query, now, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error marking reservations completed: %w", err)
	}
	return result.RowsAffected()
}

// ReleaseIdleVehicles flips reserved vehicles with no remaining active
// reservation back to available. Run after completing elapsed reservations
// so a vehicle whose last booking just ended becomes bookable again.
func (r *jobRepository) ReleaseIdleVehicles(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE vehicles SET status = 'available', updated_at = $1
		WHERE status = 'reserved'
		  AND NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE reservations.vehicle_id = vehicles.id
			  AND reservations.status IN ('pending', 'confirmed')
		  )`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("error releasing idle vehicles: %w", err)
	}
	return result.RowsAffected()
}
