package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/staynest/booking/config/db"
	"github.com/staynest/booking/config/redis"
	"github.com/staynest/booking/controllers/booking_controller"
	"github.com/staynest/booking/controllers/override_controller"
	"github.com/staynest/booking/controllers/room_controller"
	middleware "github.com/staynest/booking/middlewares"
)

// RegisterRoomRoutes registers the public room browsing surface: the room
// itself, its merged calendar, availability checks and price quotes.
func RegisterRoomRoutes(router *gin.Engine) {
	roomController := room_controller.NewRoomController(db.DB)
	overrideController := override_controller.NewOverrideController(db.DB)

	admissionService := booking_controller.NewAdmissionService(db.DB, redis.GetRedisClient())
	bookingController := booking_controller.NewBookingController(admissionService)

	// Public routes - guests browse before authenticating
	rooms := router.Group("/rooms/:room_id")
	{
		rooms.GET("",
			middleware.NewRateLimiter("30-1m", "get-room"),
			roomController.GetRoom)

		rooms.GET("/availability",
			middleware.NewRateLimiter("30-1m", "room-availability"),
			overrideController.GetCalendar)

		rooms.GET("/availability-check",
			middleware.NewRateLimiter("50-1m", "availability-check"),
			bookingController.CheckAvailability)

		rooms.GET("/quote",
			middleware.NewRateLimiter("50-1m", "room-quote"),
			bookingController.GetQuote)
	}
}
