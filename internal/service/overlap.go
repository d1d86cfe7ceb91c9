package service

import (
	"time"

	"fleetreserve/internal/db"
	"fleetreserve/internal/entities"
)

// Overlaps reports whether two closed intervals intersect. A shared boundary
// counts: a reservation ending at T conflicts with one starting at T.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !startB.After(endA)
}

// FindConflicts filters reservations down to those intersecting
// [start, end]. Callers pass active reservations only; no further status
// filtering happens here.
func FindConflicts(reservations []db.Reservation, start, end time.Time) []db.Reservation {
	var conflicts []db.Reservation
	for _, res := range reservations {
		if Overlaps(res.StartDate, res.EndDate, start, end) {
			conflicts = append(conflicts, res)
		}
	}
	return conflicts
}

func conflictingPeriods(reservations []db.Reservation) []entities.ConflictingPeriod {
	periods := []entities.ConflictingPeriod{}
	for _, res := range reservations {
		periods = append(periods, entities.ConflictingPeriod{
			StartDate: res.StartDate,
			EndDate:   res.EndDate,
			Reason:    res.Reason,
		})
	}
	return periods
}
