package override_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/booking_models"
	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/staynest/booking/utils/pricing"
)

// OverrideController manages per-date calendar overrides (blocked dates and
// custom nightly prices) and serves the merged room calendar.
type OverrideController struct {
	DB *pgxpool.Pool
}

func NewOverrideController(db *pgxpool.Pool) *OverrideController {
	return &OverrideController{DB: db}
}

// CalendarDay is one merged calendar entry: the resolved nightly price plus
// the day's availability as the guest would see it.
type CalendarDay struct {
	Date        dateonly.Date `json:"date"`
	Price       int64         `json:"price"`
	PriceSource string        `json:"price_source"`
	IsAvailable bool          `json:"is_available"`
	IsBooked    bool          `json:"is_booked"`
}

// GetCalendar handles GET /rooms/:room_id/availability?start_date=...&end_date=...
// and returns one entry per date in the inclusive range.
func (oc *OverrideController) GetCalendar(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}

	from, err := dateonly.Parse(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	to, err := dateonly.Parse(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}

	ctx := c.Request.Context()
	room, err := room_models.GetRoomByID(ctx, oc.DB, roomID)
	if err != nil {
		if errors.Is(err, room_models.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		}
		return
	}

	// Quote prices half-open ranges, so the inclusive calendar end becomes
	// an exclusive bound one day later.
	end := to.AddDays(1)
	overrides, err := override_models.GetOverridesForCalendar(ctx, oc.DB, roomID, from, to)
	if err != nil {
		oc.calendarError(c, roomID, err)
		return
	}
	roomRates, err := season_rate_models.GetRatesForRoom(ctx, oc.DB, roomID, from, end)
	if err != nil {
		oc.calendarError(c, roomID, err)
		return
	}
	propertyRates, err := season_rate_models.GetRatesForProperty(ctx, oc.DB, room.PropertyID, from, end)
	if err != nil {
		oc.calendarError(c, roomID, err)
		return
	}
	bookings, err := booking_models.GetOccupyingBookings(ctx, oc.DB, roomID, from, end, uuid.Nil)
	if err != nil {
		oc.calendarError(c, roomID, err)
		return
	}

	breakdown, err := pricing.Quote(room, overrides, roomRates, propertyRates, from, end)
	if err != nil {
		oc.calendarError(c, roomID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":  roomID,
		"calendar": buildCalendar(breakdown, overrides, bookings),
	})
}

func (oc *OverrideController) calendarError(c *gin.Context, roomID uuid.UUID, err error) {
	logger.ErrorLogger.Errorf("Failed to build calendar for room %s: %v", roomID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build calendar"})
}

func buildCalendar(breakdown *pricing.Breakdown, overrides []override_models.DateOverride, bookings []booking_models.Booking) []CalendarDay {
	blocked := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		if !o.IsAvailable {
			blocked[o.Date.String()] = true
		}
	}

	days := make([]CalendarDay, 0, len(breakdown.DailyPrices))
	for _, dp := range breakdown.DailyPrices {
		booked := false
		for _, b := range bookings {
			if !dp.Date.Before(b.CheckInDate) && dp.Date.Before(b.CheckOutDate) {
				booked = true
				break
			}
		}
		days = append(days, CalendarDay{
			Date:        dp.Date,
			Price:       dp.FinalPrice,
			PriceSource: dp.Source,
			IsAvailable: !blocked[dp.Date.String()] && !booked,
			IsBooked:    booked,
		})
	}
	return days
}

// UpsertOverridesRequest is a bulk write of calendar overrides.
type UpsertOverridesRequest struct {
	Overrides []override_models.OverrideItem `json:"overrides" binding:"required,min=1,dive"`
}

// UpsertOverrides handles POST /availability. One row per (room, date);
// re-posting a pair updates it in place.
func (oc *OverrideController) UpsertOverrides(c *gin.Context) {
	var req UpsertOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	results, err := override_models.UpsertOverrides(c.Request.Context(), oc.DB, req.Overrides)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save date overrides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overrides": results})
}

// DeleteOverride handles DELETE /availability/:override_id.
func (oc *OverrideController) DeleteOverride(c *gin.Context) {
	overrideID, err := uuid.Parse(c.Param("override_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid override ID format"})
		return
	}

	if err := override_models.DeleteOverride(c.Request.Context(), oc.DB, overrideID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete date override"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Date override deleted"})
}
