package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
)

var (
	// ErrBookingNotFound is returned when a booking ID resolves to nothing.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrConflict is returned when an insert loses the race for a date range:
	// another occupying booking appeared between check and write.
	ErrConflict = errors.New("room is no longer available for the selected dates")
)

// Booking is a guest's reservation of a room over the half-open range
// [CheckInDate, CheckOutDate): the checkout day itself is not occupied.
// TotalPrice is authoritative; NightlyPrice is the informational average.
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	GuestID       uuid.UUID     `json:"guest_id"`
	PropertyID    uuid.UUID     `json:"property_id"`
	RoomID        uuid.UUID     `json:"room_id"`
	CheckInDate   dateonly.Date `json:"check_in_date"`
	CheckOutDate  dateonly.Date `json:"check_out_date"`
	Guests        int           `json:"guests"`
	NightlyPrice  int64         `json:"nightly_price"`
	TotalPrice    int64         `json:"total_price"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	PaymentProof  *string       `json:"payment_proof,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Occupies reports whether the booking currently blocks its date range.
func (b *Booking) Occupies() bool {
	return shared_models.IsOccupying(b.Status)
}

// NewBooking creates a PENDING/PENDING booking struct.
func NewBooking(guestID, propertyID, roomID uuid.UUID, checkIn, checkOut dateonly.Date, guests int, nightlyPrice, totalPrice int64) (*Booking, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now()
	return &Booking{
		ID:            id,
		GuestID:       guestID,
		PropertyID:    propertyID,
		RoomID:        roomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        guests,
		NightlyPrice:  nightlyPrice,
		TotalPrice:    totalPrice,
		Status:        shared_models.BookingStatusPending,
		PaymentStatus: shared_models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

const bookingColumns = `id, guest_id, property_id, room_id, check_in_date, check_out_date,
		guests, nightly_price, total_price, status, payment_status, payment_proof, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	var checkIn, checkOut time.Time
	err := row.Scan(
		&b.ID,
		&b.GuestID,
		&b.PropertyID,
		&b.RoomID,
		&checkIn,
		&checkOut,
		&b.Guests,
		&b.NightlyPrice,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.PaymentProof,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.CheckInDate = dateonly.FromTime(checkIn)
	b.CheckOutDate = dateonly.FromTime(checkOut)
	return b, nil
}

// GetBookingByID fetches a booking by its ID.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Booking %s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return booking, nil
}

// GetOccupyingBookings returns the bookings on a room whose status still
// blocks inventory and whose [check_in, check_out) intersects [from, to).
// Status is always read live; an externally cancelled booking vacates its
// range the moment the row changes.
func GetOccupyingBookings(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID, from, to dateonly.Date, excludeBookingID uuid.UUID) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1
		  AND status = ANY($2)
		  AND check_in_date < $4
		  AND check_out_date > $3
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY check_in_date ASC`

	var exclude *uuid.UUID
	if excludeBookingID != uuid.Nil {
		exclude = &excludeBookingID
	}

	rows, err := db.Query(ctx, query, roomID, shared_models.OccupyingStatuses, from.Time(), to.Time(), exclude)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch occupying bookings for room %s: %v", roomID, err)
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// CreateBookingChecked inserts the booking inside a transaction that first
// locks the room's occupying bookings and re-verifies that none overlap the
// new range. Two concurrent admissions for overlapping dates serialize on the
// row locks and the loser gets ErrConflict instead of a silent double-booking.
func CreateBookingChecked(ctx context.Context, db *pgxpool.Pool, booking *Booking) (*Booking, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the room row so concurrent admissions for the same room
	// serialize here even when their current booking sets are disjoint.
	var lockedRoom uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID).Scan(&lockedRoom)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("room %s disappeared before insert", booking.RoomID)
		}
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}

	var conflicts int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE room_id = $1
		  AND status = ANY($2)
		  AND check_in_date < $4
		  AND check_out_date > $3`,
		booking.RoomID, shared_models.OccupyingStatuses,
		booking.CheckInDate.Time(), booking.CheckOutDate.Time(),
	).Scan(&conflicts)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check conflicts: %w", err)
	}
	if conflicts > 0 {
		logger.WarnLogger.Warnf("Admission race lost for room %s (%s to %s): %d conflicting booking(s)",
			booking.RoomID, booking.CheckInDate, booking.CheckOutDate, conflicts)
		return nil, ErrConflict
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.Exec(ctx, query,
		booking.ID, booking.GuestID, booking.PropertyID, booking.RoomID,
		booking.CheckInDate.Time(), booking.CheckOutDate.Time(),
		booking.Guests, booking.NightlyPrice, booking.TotalPrice,
		booking.Status, booking.PaymentStatus, booking.PaymentProof,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for room %s: %v", booking.RoomID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	logger.InfoLogger.Infof("Booking %s created for room %s (%s to %s)",
		booking.ID, booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	return booking, nil
}

// UpdateBookingStatus updates the lifecycle status of a booking.
func UpdateBookingStatus(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, status string) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		bookingID, status, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", bookingID, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s status updated to %s", bookingID, status)
	return nil
}

// UpdatePaymentStatus updates the payment status (and optional proof URL).
func UpdatePaymentStatus(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, paymentStatus string, paymentProof *string) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE bookings
		SET payment_status = $2,
		    payment_proof = COALESCE($3, payment_proof),
		    updated_at = $4
		WHERE id = $1`,
		bookingID, paymentStatus, paymentProof, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s payment status: %v", bookingID, err)
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s payment status updated to %s", bookingID, paymentStatus)
	return nil
}

// GetBookingsByGuest retrieves a guest's bookings with pagination and an
// optional status filter.
func GetBookingsByGuest(ctx context.Context, db *pgxpool.Pool, guestID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	return listBookings(ctx, db, "guest_id", guestID, status, page, limit)
}

// GetBookingsByRoom retrieves a room's bookings with pagination and an
// optional status filter (tenant view).
func GetBookingsByRoom(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	return listBookings(ctx, db, "room_id", roomID, status, page, limit)
}

func listBookings(ctx context.Context, db *pgxpool.Pool, column string, id uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM bookings WHERE ` + column + ` = $1`
	listQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`
	args := []any{id}

	if status != "" {
		countQuery += ` AND status = $2`
		listQuery += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, status)
	} else {
		listQuery += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}

	var totalCount int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings by %s %s: %v", column, id, err)
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.Query(ctx, listQuery, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch bookings by %s %s: %v", column, id, err)
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, totalCount, rows.Err()
}

// CancelStalePendingBookings cancels PENDING bookings created before the
// cutoff and returns how many were swept. Their date ranges free up
// immediately because conflict checks read status live.
func CancelStalePendingBookings(ctx context.Context, db *pgxpool.Pool, cutoff time.Time) (int64, error) {
	cmdTag, err := db.Exec(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE status = $3 AND created_at < $4`,
		shared_models.BookingStatusCancelled, time.Now(), shared_models.BookingStatusPending, cutoff)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sweep stale pending bookings: %v", err)
		return 0, fmt.Errorf("failed to cancel stale bookings: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
