package booking_controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/utils/availability"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/staynest/booking/utils/mail"
	"github.com/staynest/booking/utils/pricing"
)

const (
	// RedisRoomLockPrefix keys the per-room admission lease. One admission
	// at a time per room; the transactional re-check in the insert is the
	// backstop when the lease cannot be taken (redis down) or expires.
	RedisRoomLockPrefix = "room_admission_lock:"
	RedisRoomLockExpiry = 15 * time.Second
)

var (
	// ErrCapacityExceeded is returned when the guest count exceeds the room.
	ErrCapacityExceeded = errors.New("guest count exceeds room capacity")
	// ErrPastCheckIn is returned for stays starting before today.
	ErrPastCheckIn = errors.New("check-in date cannot be in the past")
)

// UnavailableError wraps the checker's verdict for an unbookable stay.
type UnavailableError struct {
	Result availability.Result
}

func (e *UnavailableError) Error() string { return e.Result.Reason }

// AdmissionRequest is a guest's booking intent.
type AdmissionRequest struct {
	RoomID     uuid.UUID
	PropertyID uuid.UUID
	CheckIn    dateonly.Date
	CheckOut   dateonly.Date
	Guests     int
	GuestEmail string
}

// AdmissionService decides booking intents: availability check, authoritative
// pricing, and the conflict-guarded insert form one admission decision.
type AdmissionService struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// NewAdmissionService creates an AdmissionService. redisClient may be nil;
// admission then relies on the transactional guard alone.
func NewAdmissionService(db *pgxpool.Pool, redisClient *redis.Client) *AdmissionService {
	return &AdmissionService{DB: db, Redis: redisClient}
}

func roomLockKey(roomID uuid.UUID) string {
	return RedisRoomLockPrefix + roomID.String()
}

// acquireRoomLock takes the per-room admission lease. Returns a release func,
// or an error when another admission currently holds the room.
func (s *AdmissionService) acquireRoomLock(ctx context.Context, roomID uuid.UUID) (func(), error) {
	if s.Redis == nil {
		return func() {}, nil
	}

	key := roomLockKey(roomID)
	set, err := s.Redis.SetNX(ctx, key, time.Now().UnixNano(), RedisRoomLockExpiry).Result()
	if err != nil {
		// Redis trouble must not take bookings down; the insert still
		// re-checks conflicts transactionally.
		logger.WarnLogger.Warnf("Redis error acquiring admission lock for room %s: %v", roomID, err)
		return func() {}, nil
	}
	if !set {
		return nil, booking_models.ErrConflict
	}

	return func() {
		if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
			logger.ErrorLogger.Errorf("Failed to release admission lock for room %s: %v", roomID, err)
		}
	}, nil
}

// CheckAvailability fetches the room's live snapshot and runs the conflict
// check over [checkIn, checkOut). excludeBookingID, when not Nil, ignores
// that reservation.
func (s *AdmissionService) CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut dateonly.Date, excludeBookingID uuid.UUID) (*availability.Result, error) {
	if _, err := room_models.GetRoomByID(ctx, s.DB, roomID); err != nil {
		return nil, err
	}

	bookings, err := booking_models.GetOccupyingBookings(ctx, s.DB, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return nil, err
	}
	overrides, err := override_models.GetOverridesInRange(ctx, s.DB, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	result := availability.CheckStay(bookings, overrides, checkIn, checkOut, excludeBookingID)
	return &result, nil
}

// PriceStay computes the authoritative price breakdown for a stay.
func (s *AdmissionService) PriceStay(ctx context.Context, roomID uuid.UUID, checkIn, checkOut dateonly.Date) (*pricing.Breakdown, error) {
	room, err := room_models.GetRoomByID(ctx, s.DB, roomID)
	if err != nil {
		return nil, err
	}
	return s.priceStayForRoom(ctx, room, checkIn, checkOut)
}

func (s *AdmissionService) priceStayForRoom(ctx context.Context, room *room_models.Room, checkIn, checkOut dateonly.Date) (*pricing.Breakdown, error) {
	overrides, err := override_models.GetOverridesInRange(ctx, s.DB, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	roomRates, err := season_rate_models.GetRatesForRoom(ctx, s.DB, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	propertyRates, err := season_rate_models.GetRatesForProperty(ctx, s.DB, room.PropertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return pricing.Quote(room, overrides, roomRates, propertyRates, checkIn, checkOut)
}

// BookStay is the admission decision: reject early when unavailable, price
// server-side, then persist PENDING/PENDING under the conflict guard. The
// returned breakdown is the price the booking was persisted with.
func (s *AdmissionService) BookStay(ctx context.Context, guestID uuid.UUID, req *AdmissionRequest) (*booking_models.Booking, *pricing.Breakdown, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	nights := req.CheckIn.DaysUntil(req.CheckOut)
	if nights < 1 {
		return nil, nil, pricing.ErrInvalidRange
	}
	if req.CheckIn.Before(dateonly.Today()) {
		return nil, nil, ErrPastCheckIn
	}

	release, err := s.acquireRoomLock(ctx, req.RoomID)
	if err != nil {
		logger.WarnLogger.Warnf("Admission lock busy for room %s", req.RoomID)
		return nil, nil, err
	}
	defer release()

	room, err := room_models.GetRoomByID(ctx, s.DB, req.RoomID)
	if err != nil {
		return nil, nil, err
	}
	if req.Guests > room.CapacityGuests {
		return nil, nil, fmt.Errorf("%w: room capacity is %d guests", ErrCapacityExceeded, room.CapacityGuests)
	}

	bookings, err := booking_models.GetOccupyingBookings(ctx, s.DB, req.RoomID, req.CheckIn, req.CheckOut, uuid.Nil)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := override_models.GetOverridesInRange(ctx, s.DB, req.RoomID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, nil, err
	}
	if result := availability.CheckStay(bookings, overrides, req.CheckIn, req.CheckOut, uuid.Nil); !result.Available {
		logger.InfoLogger.Infof("Admission rejected for room %s (%s to %s): %s",
			req.RoomID, req.CheckIn, req.CheckOut, result.Reason)
		return nil, nil, &UnavailableError{Result: result}
	}

	// The price is always recomputed here, never taken from the client.
	breakdown, err := s.priceStayForRoom(ctx, room, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, nil, err
	}

	booking, err := booking_models.NewBooking(
		guestID, room.PropertyID, room.ID,
		req.CheckIn, req.CheckOut, req.Guests,
		breakdown.AverageNightlyPrice, breakdown.TotalPrice,
	)
	if err != nil {
		return nil, nil, err
	}

	created, err := booking_models.CreateBookingChecked(ctx, s.DB, booking)
	if err != nil {
		return nil, nil, err
	}

	if req.GuestEmail != "" {
		mail.SendBookingPendingAsync(req.GuestEmail, created, room.Name)
	}

	logger.InfoLogger.Infof("Admission accepted: booking %s, room %s, total %d over %d night(s)",
		created.ID, room.ID, breakdown.TotalPrice, breakdown.Nights)
	return created, breakdown, nil
}
