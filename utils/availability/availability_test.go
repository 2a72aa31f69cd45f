package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) dateonly.Date {
	return dateonly.New(2026, time.September, day)
}

func stay(status string, inDay, outDay int) booking_models.Booking {
	return booking_models.Booking{
		ID:           uuid.New(),
		RoomID:       uuid.New(),
		CheckInDate:  date(inDay),
		CheckOutDate: date(outDay),
		Status:       status,
	}
}

func block(day int) override_models.DateOverride {
	return override_models.DateOverride{
		ID:          uuid.New(),
		Date:        date(day),
		IsAvailable: false,
	}
}

func TestFreeRoom(t *testing.T) {
	res := CheckStay(nil, nil, date(10), date(13), uuid.Nil)

	assert.True(t, res.Available)
	assert.Empty(t, res.Reason)
	assert.Empty(t, res.ConflictingStays)
	assert.Empty(t, res.BlockedDates)
}

func TestConfirmedReservationConflicts(t *testing.T) {
	existing := stay(shared_models.BookingStatusConfirmed, 11, 14)

	res := CheckStay([]booking_models.Booking{existing}, nil, date(10), date(13), uuid.Nil)

	assert.False(t, res.Available)
	assert.Equal(t, ReasonBookingConflict, res.Reason)
	require.Len(t, res.ConflictingStays, 1)
	assert.True(t, res.ConflictingStays[0].CheckIn.Equal(date(11)))
	assert.True(t, res.ConflictingStays[0].CheckOut.Equal(date(14)))
}

func TestReservationConflictWinsOverBlockedDates(t *testing.T) {
	// Both conflict kinds present: the reported reason must name the
	// reservation conflict, not the override block.
	existing := stay(shared_models.BookingStatusConfirmed, 10, 12)
	blocked := block(12)

	res := CheckStay([]booking_models.Booking{existing}, []override_models.DateOverride{blocked}, date(10), date(13), uuid.Nil)

	assert.False(t, res.Available)
	assert.Equal(t, ReasonBookingConflict, res.Reason)
	assert.NotEmpty(t, res.ConflictingStays)
	assert.Empty(t, res.BlockedDates)
}

func TestOccupyingStatuses(t *testing.T) {
	tests := []struct {
		status    string
		conflicts bool
	}{
		{shared_models.BookingStatusPending, true},
		{shared_models.BookingStatusWaitingConfirmation, true},
		{shared_models.BookingStatusConfirmed, true},
		{shared_models.BookingStatusCancelled, false},
		{shared_models.BookingStatusRejected, false},
		{shared_models.BookingStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			existing := stay(tt.status, 10, 13)
			res := CheckStay([]booking_models.Booking{existing}, nil, date(10), date(13), uuid.Nil)
			assert.Equal(t, !tt.conflicts, res.Available)
		})
	}
}

func TestBackToBackStaysAllowed(t *testing.T) {
	// Half-open ranges: an existing stay checking out on the 13th does not
	// conflict with a new stay checking in on the 13th, and vice versa.
	before := stay(shared_models.BookingStatusConfirmed, 7, 10)
	after := stay(shared_models.BookingStatusConfirmed, 13, 16)

	res := CheckStay([]booking_models.Booking{before, after}, nil, date(10), date(13), uuid.Nil)

	assert.True(t, res.Available)
}

func TestExcludeBookingID(t *testing.T) {
	existing := stay(shared_models.BookingStatusConfirmed, 10, 13)

	res := CheckStay([]booking_models.Booking{existing}, nil, date(10), date(13), existing.ID)
	assert.True(t, res.Available, "the excluded booking must not conflict with itself")

	other := stay(shared_models.BookingStatusConfirmed, 11, 12)
	res = CheckStay([]booking_models.Booking{existing, other}, nil, date(10), date(13), existing.ID)
	assert.False(t, res.Available, "other bookings still conflict")
}

func TestBlockedDatesReportedPerDate(t *testing.T) {
	overrides := []override_models.DateOverride{
		block(11),
		block(12),
		{ID: uuid.New(), Date: date(10), IsAvailable: true}, // explicit available, not a block
		block(20), // outside the requested range
	}

	res := CheckStay(nil, overrides, date(10), date(13), uuid.Nil)

	assert.False(t, res.Available)
	assert.Equal(t, ReasonDatesBlocked, res.Reason)
	require.Len(t, res.BlockedDates, 2)
	assert.Equal(t, "2026-09-11", res.BlockedDates[0].String())
	assert.Equal(t, "2026-09-12", res.BlockedDates[1].String())
}

func TestBlockOnCheckoutDateIgnored(t *testing.T) {
	// The checkout day itself is not occupied.
	res := CheckStay(nil, []override_models.DateOverride{block(13)}, date(10), date(13), uuid.Nil)
	assert.True(t, res.Available)
}
