package entities

import "time"

// ReservationResponse is the joined read model returned by every reservation
// endpoint: the row itself plus vehicle and user summaries.
type ReservationResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	VehicleID string          `json:"vehicle_id"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Reason    string          `json:"reason"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Vehicle   *VehicleSummary `json:"vehicle,omitempty"`
	User      *UserSummary    `json:"user,omitempty"`
}

// ConflictingPeriod describes one reservation blocking a requested range.
// Enough for a client to render the conflict without a follow-up query.
type ConflictingPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}
