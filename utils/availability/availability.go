// Package availability decides whether a stay is bookable, given a snapshot
// of the room's occupying bookings and manual date overrides. It is pure:
// callers fetch the snapshot, so results are deterministic and unit-testable
// without a database.
package availability

import (
	"github.com/google/uuid"
	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/utils/dateonly"
)

const (
	ReasonBookingConflict = "Room is already booked for selected dates"
	ReasonDatesBlocked    = "Room is not available for some selected dates"
)

// StayRange is a conflicting existing stay, reported back to the caller.
type StayRange struct {
	CheckIn  dateonly.Date `json:"check_in"`
	CheckOut dateonly.Date `json:"check_out"`
}

// Result is the outcome of an availability check. When Available is false,
// Reason and exactly one of ConflictingStays/BlockedDates are set.
type Result struct {
	Available        bool            `json:"available"`
	Reason           string          `json:"reason,omitempty"`
	ConflictingStays []StayRange     `json:"conflicting_stays,omitempty"`
	BlockedDates     []dateonly.Date `json:"blocked_dates,omitempty"`
}

// CheckStay verifies that every night in [checkIn, checkOut) is free of
// conflicting reservations and not manually blocked. checkIn < checkOut is
// the caller's precondition. excludeBookingID, when not Nil, skips that one
// booking (used when re-validating an existing reservation).
//
// Reservation conflicts are checked first and win the reported reason when
// both kinds exist.
func CheckStay(bookings []booking_models.Booking, overrides []override_models.DateOverride, checkIn, checkOut dateonly.Date, excludeBookingID uuid.UUID) Result {
	var conflicts []StayRange
	for i := range bookings {
		b := &bookings[i]
		if excludeBookingID != uuid.Nil && b.ID == excludeBookingID {
			continue
		}
		if !b.Occupies() {
			continue
		}
		// Half-open intervals intersect iff each starts before the other ends.
		if b.CheckInDate.Before(checkOut) && b.CheckOutDate.After(checkIn) {
			conflicts = append(conflicts, StayRange{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate})
		}
	}
	if len(conflicts) > 0 {
		return Result{
			Available:        false,
			Reason:           ReasonBookingConflict,
			ConflictingStays: conflicts,
		}
	}

	var blocked []dateonly.Date
	for i := range overrides {
		o := &overrides[i]
		if o.IsAvailable {
			continue
		}
		if !o.Date.Before(checkIn) && o.Date.Before(checkOut) {
			blocked = append(blocked, o.Date)
		}
	}
	if len(blocked) > 0 {
		return Result{
			Available:    false,
			Reason:       ReasonDatesBlocked,
			BlockedDates: blocked,
		}
	}

	return Result{Available: true}
}
