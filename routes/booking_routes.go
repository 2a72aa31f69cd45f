package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/staynest/booking/config/db"
	"github.com/staynest/booking/config/redis"
	"github.com/staynest/booking/controllers/booking_controller"
	middleware "github.com/staynest/booking/middlewares"
	"github.com/staynest/booking/middlewares/auth"
)

// RegisterBookingRoutes registers booking admission and lifecycle routes.
func RegisterBookingRoutes(router *gin.Engine) {
	admissionService := booking_controller.NewAdmissionService(db.DB, redis.GetRedisClient())
	bookingController := booking_controller.NewBookingController(admissionService)

	// Protected routes - require authentication
	protected := router.Group("/bookings")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/",
			middleware.CombinedRateLimiter("create-booking", "5-1m", "20-10m"),
			bookingController.CreateBooking)

		protected.GET("/my",
			middleware.NewRateLimiter("20-1m", "my-bookings"),
			bookingController.GetMyBookings)

		protected.GET("/:booking_id",
			middleware.NewRateLimiter("15-30s", "get-booking"),
			bookingController.GetBooking)

		protected.PATCH("/:booking_id/cancel",
			middleware.CombinedRateLimiter("cancel-booking", "3-1m", "10-10m"),
			bookingController.CancelBooking)

		protected.POST("/:booking_id/payment-proof",
			middleware.CombinedRateLimiter("payment-proof", "5-1m", "15-10m"),
			bookingController.UploadPaymentProof)
	}

	// Tenant routes - review and decide on pending bookings
	tenant := router.Group("/bookings")
	tenant.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleTenant))
	{
		tenant.PATCH("/:booking_id/approve",
			middleware.NewRateLimiter("20-1m", "approve-booking"),
			bookingController.ApproveBooking)

		tenant.PATCH("/:booking_id/reject",
			middleware.NewRateLimiter("20-1m", "reject-booking"),
			bookingController.RejectBooking)
	}

	roomBookings := router.Group("/rooms/:room_id")
	roomBookings.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleTenant))
	{
		roomBookings.GET("/bookings",
			middleware.NewRateLimiter("30-1m", "room-bookings"),
			bookingController.ListRoomBookings)
	}
}
