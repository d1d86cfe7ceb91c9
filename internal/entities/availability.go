package entities

// AvailabilityResponse answers "can this vehicle be booked for this range".
// ConflictingReservations is empty when Available is true.
type AvailabilityResponse struct {
	Vehicle                 VehicleResponse     `json:"vehicle"`
	Available               bool                `json:"available"`
	ConflictingReservations []ConflictingPeriod `json:"conflictingReservations"`
}
