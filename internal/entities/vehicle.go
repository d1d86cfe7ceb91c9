package entities

import "time"

type VehicleResponse struct {
	ID                 string    `json:"id"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	RegistrationNumber string    `json:"registration_number"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// VehicleSummary is the slice of a vehicle embedded in joined reservation
// reads. Status is only populated on the user-facing list, where the UI
// shows it next to each booking.
type VehicleSummary struct {
	ID                 string `json:"id"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number"`
	Status             string `json:"status,omitempty"`
}
