package shared_models

import (
	"github.com/google/uuid"
)

// Booking lifecycle statuses.
const (
	BookingStatusPending             = "PENDING"
	BookingStatusWaitingConfirmation = "WAITING_CONFIRMATION"
	BookingStatusConfirmed           = "CONFIRMED"
	BookingStatusRejected            = "REJECTED"
	BookingStatusCancelled           = "CANCELLED"
	BookingStatusCompleted           = "COMPLETED"
)

// Payment statuses, tracked independently of the booking lifecycle.
const (
	PaymentStatusPending             = "PENDING"
	PaymentStatusWaitingPayment      = "WAITING_PAYMENT"
	PaymentStatusWaitingConfirmation = "WAITING_CONFIRMATION"
	PaymentStatusApproved            = "APPROVED"
	PaymentStatusRejected            = "REJECTED"
)

// OccupyingStatuses are the booking statuses that block inventory.
// CANCELLED and REJECTED release their date range immediately.
var OccupyingStatuses = []string{
	BookingStatusPending,
	BookingStatusWaitingConfirmation,
	BookingStatusConfirmed,
}

// IsOccupying reports whether a booking in the given status blocks its dates.
func IsOccupying(status string) bool {
	for _, s := range OccupyingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Season rate types.
const (
	RateTypeNominal    = "NOMINAL"
	RateTypePercentage = "PERCENTAGE"
)

// GenerateUUIDv7 generates a new UUIDv7.
func GenerateUUIDv7() (uuid.UUID, error) {
	return uuid.NewV7()
}
