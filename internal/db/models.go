package db

import "time"

// Vehicle statuses. "reserved" and "available" are derived from the set of
// active reservations; "maintenance" is set by operators and never written
// by the reservation flow.
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusReserved    = "reserved"
)

// Reservation statuses. Pending and confirmed reservations are the only ones
// considered for overlap checks and vehicle status derivation.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Vehicle struct {
	ID                 string
	Brand              string
	Model              string
	RegistrationNumber string
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Reservation struct {
	ID        string
	UserID    string
	VehicleID string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the reservation blocks the vehicle for its period.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}
