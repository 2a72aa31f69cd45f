package booking_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/payment_transaction_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/staynest/booking/utils/mail"
	"github.com/staynest/booking/utils/pricing"
)

// BookingController handles the HTTP surface of booking admission and the
// reservation lifecycle.
type BookingController struct {
	Service *AdmissionService
}

func NewBookingController(service *AdmissionService) *BookingController {
	return &BookingController{Service: service}
}

// CreateBookingRequest is the booking-intent payload.
type CreateBookingRequest struct {
	RoomID     uuid.UUID `json:"room_id" binding:"required"`
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	CheckIn    string    `json:"check_in_date" binding:"required"`
	CheckOut   string    `json:"check_out_date" binding:"required"`
	Guests     int       `json:"guests"`
}

func parseStayRange(c *gin.Context, checkInStr, checkOutStr string) (dateonly.Date, dateonly.Date, bool) {
	checkIn, err := dateonly.Parse(checkInStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in date, expected YYYY-MM-DD"})
		return dateonly.Date{}, dateonly.Date{}, false
	}
	checkOut, err := dateonly.Parse(checkOutStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-out date, expected YYYY-MM-DD"})
		return dateonly.Date{}, dateonly.Date{}, false
	}
	return checkIn, checkOut, true
}

// CreateBooking handles POST /bookings: the booking intent. Responds with
// the created reservation and its price breakdown, or a structured rejection.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnLogger.Warnf("Invalid booking request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	guestID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	checkIn, checkOut, ok := parseStayRange(c, req.CheckIn, req.CheckOut)
	if !ok {
		return
	}

	guests := req.Guests
	if guests <= 0 {
		guests = 1
	}
	email, _ := c.Get("email")
	guestEmail, _ := email.(string)

	booking, breakdown, err := bc.Service.BookStay(c.Request.Context(), guestID, &AdmissionRequest{
		RoomID:     req.RoomID,
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		GuestEmail: guestEmail,
	})
	if err != nil {
		bc.writeAdmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":         booking,
		"price_breakdown": breakdown,
	})
}

func (bc *BookingController) writeAdmissionError(c *gin.Context, err error) {
	var unavailable *UnavailableError
	switch {
	case errors.As(err, &unavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":             unavailable.Result.Reason,
			"conflicting_stays": unavailable.Result.ConflictingStays,
			"blocked_dates":     unavailable.Result.BlockedDates,
		})
	case errors.Is(err, booking_models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": booking_models.ErrConflict.Error()})
	case errors.Is(err, room_models.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, pricing.ErrInvalidRange), errors.Is(err, ErrPastCheckIn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Booking admission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
	}
}

// GetQuote handles GET /rooms/:room_id/quote?check_in=...&check_out=...
// It previews the price a stay would be admitted at.
func (bc *BookingController) GetQuote(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}

	checkIn, checkOut, ok := parseStayRange(c, c.Query("check_in"), c.Query("check_out"))
	if !ok {
		return
	}

	breakdown, err := bc.Service.PriceStay(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, room_models.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, pricing.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.ErrorLogger.Errorf("Failed to quote stay for room %s: %v", roomID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute price"})
		}
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// CheckAvailability handles GET /rooms/:room_id/availability-check.
func (bc *BookingController) CheckAvailability(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}

	checkIn, checkOut, ok := parseStayRange(c, c.Query("check_in"), c.Query("check_out"))
	if !ok {
		return
	}
	if !checkIn.Before(checkOut) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-out date must be after check-in date"})
		return
	}

	var excludeID uuid.UUID
	if raw := c.Query("exclude_booking_id"); raw != "" {
		excludeID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exclude_booking_id format"})
			return
		}
	}

	result, err := bc.Service.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut, excludeID)
	if err != nil {
		if errors.Is(err, room_models.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		logger.ErrorLogger.Errorf("Availability check failed for room %s: %v", roomID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (bc *BookingController) bookingFromPath(c *gin.Context) (*booking_models.Booking, bool) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return nil, false
	}

	booking, err := booking_models.GetBookingByID(c.Request.Context(), bc.Service.DB, bookingID)
	if err != nil {
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		}
		return nil, false
	}
	return booking, true
}

// GetBooking handles GET /bookings/:booking_id. The payment transaction, once
// the tenant has approved one, rides along in the detail view.
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.bookingFromPath(c)
	if !ok {
		return
	}

	resp := gin.H{"booking": booking}
	tx, err := payment_transaction_models.GetByBookingID(c.Request.Context(), bc.Service.DB, booking.ID)
	switch {
	case err == nil:
		resp["payment_transaction"] = tx
	case !errors.Is(err, payment_transaction_models.ErrTransactionNotFound):
		logger.WarnLogger.Warnf("Failed to fetch payment transaction for booking %s: %v", booking.ID, err)
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyBookings handles GET /bookings/my for the authenticated guest.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	guestID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := paginationParams(c)
	bookings, total, err := booking_models.GetBookingsByGuest(c.Request.Context(), bc.Service.DB, guestID, c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    bookings,
		"total_count": total,
		"page":        page,
		"limit":       limit,
	})
}

// ListRoomBookings handles GET /rooms/:room_id/bookings (tenant view).
func (bc *BookingController) ListRoomBookings(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}

	page, limit := paginationParams(c)
	bookings, total, err := booking_models.GetBookingsByRoom(c.Request.Context(), bc.Service.DB, roomID, c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    bookings,
		"total_count": total,
		"page":        page,
		"limit":       limit,
	})
}

// CancelBooking handles PATCH /bookings/:booking_id/cancel. Guests may only
// cancel their own bookings, and only before the tenant confirmed.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	booking, ok := bc.bookingFromPath(c)
	if !ok {
		return
	}

	guestID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if booking.GuestID != guestID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		return
	}

	switch booking.Status {
	case shared_models.BookingStatusPending, shared_models.BookingStatusWaitingConfirmation:
		// cancellable
	case shared_models.BookingStatusConfirmed:
		c.JSON(http.StatusConflict, gin.H{"error": "Confirmed bookings cannot be cancelled by the guest"})
		return
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is not cancellable in its current status"})
		return
	}

	if err := booking_models.UpdateBookingStatus(c.Request.Context(), bc.Service.DB, booking.ID, shared_models.BookingStatusCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	logger.InfoLogger.Infof("Booking %s cancelled by guest %s", booking.ID, guestID)
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// UploadPaymentProofRequest carries the stored proof location; the file
// itself lives in the external upload service.
type UploadPaymentProofRequest struct {
	ProofURL string `json:"proof_url" binding:"required"`
}

// UploadPaymentProof handles POST /bookings/:booking_id/payment-proof and
// moves the booking to WAITING_CONFIRMATION on both axes.
func (bc *BookingController) UploadPaymentProof(c *gin.Context) {
	booking, ok := bc.bookingFromPath(c)
	if !ok {
		return
	}

	guestID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if booking.GuestID != guestID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only pay for your own bookings"})
		return
	}
	if booking.Status != shared_models.BookingStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is not awaiting payment"})
		return
	}

	var req UploadPaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := booking_models.UpdateBookingStatus(ctx, bc.Service.DB, booking.ID, shared_models.BookingStatusWaitingConfirmation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}
	if err := booking_models.UpdatePaymentStatus(ctx, bc.Service.DB, booking.ID, shared_models.PaymentStatusWaitingConfirmation, &req.ProofURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	logger.InfoLogger.Infof("Payment proof uploaded for booking %s", booking.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Payment proof received, awaiting confirmation"})
}

// ApproveBooking handles PATCH /bookings/:booking_id/approve (tenant):
// CONFIRMED + APPROVED, and records the payment transaction.
func (bc *BookingController) ApproveBooking(c *gin.Context) {
	booking, ok := bc.bookingFromPath(c)
	if !ok {
		return
	}
	if booking.Status != shared_models.BookingStatusWaitingConfirmation {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is not awaiting confirmation"})
		return
	}

	ctx := c.Request.Context()
	if err := booking_models.UpdateBookingStatus(ctx, bc.Service.DB, booking.ID, shared_models.BookingStatusConfirmed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve booking"})
		return
	}
	if err := booking_models.UpdatePaymentStatus(ctx, bc.Service.DB, booking.ID, shared_models.PaymentStatusApproved, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	tx, err := payment_transaction_models.NewPaymentTransaction(booking.ID, booking.TotalPrice, booking.PaymentProof, shared_models.PaymentStatusApproved)
	if err == nil {
		_, err = payment_transaction_models.UpsertForBooking(ctx, bc.Service.DB, tx)
	}
	if err != nil {
		// The booking stays confirmed; the transaction record is repairable.
		logger.ErrorLogger.Errorf("Failed to record payment transaction for booking %s: %v", booking.ID, err)
	}

	bc.notifyDecision(c, booking.RoomID, booking.ID, shared_models.BookingStatusConfirmed)
	c.JSON(http.StatusOK, gin.H{"message": "Booking confirmed"})
}

// RejectBooking handles PATCH /bookings/:booking_id/reject (tenant).
func (bc *BookingController) RejectBooking(c *gin.Context) {
	booking, ok := bc.bookingFromPath(c)
	if !ok {
		return
	}
	if !booking.Occupies() {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is already finalized"})
		return
	}

	ctx := c.Request.Context()
	if err := booking_models.UpdateBookingStatus(ctx, bc.Service.DB, booking.ID, shared_models.BookingStatusRejected); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject booking"})
		return
	}
	if err := booking_models.UpdatePaymentStatus(ctx, bc.Service.DB, booking.ID, shared_models.PaymentStatusRejected, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	bc.notifyDecision(c, booking.RoomID, booking.ID, shared_models.BookingStatusRejected)
	c.JSON(http.StatusOK, gin.H{"message": "Booking rejected"})
}

func (bc *BookingController) notifyDecision(c *gin.Context, roomID, bookingID uuid.UUID, status string) {
	email, _ := c.Get("email")
	guestEmail, _ := email.(string)
	if guestEmail == "" {
		return
	}

	ctx := c.Request.Context()
	booking, err := booking_models.GetBookingByID(ctx, bc.Service.DB, bookingID)
	if err != nil {
		return
	}
	roomName := ""
	if room, err := room_models.GetRoomByID(ctx, bc.Service.DB, roomID); err == nil {
		roomName = room.Name
	}

	if status == shared_models.BookingStatusConfirmed {
		mail.SendBookingConfirmedAsync(guestEmail, booking, roomName)
	} else {
		mail.SendBookingRejectedAsync(guestEmail, booking, roomName)
	}
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
