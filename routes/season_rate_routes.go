package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/staynest/booking/config/db"
	"github.com/staynest/booking/controllers/season_rate_controller"
	middleware "github.com/staynest/booking/middlewares"
	"github.com/staynest/booking/middlewares/auth"
)

// RegisterSeasonRateRoutes registers seasonal pricing management routes.
// Only tenants manage rates; guests see their effect through quotes.
func RegisterSeasonRateRoutes(router *gin.Engine) {
	seasonRateController := season_rate_controller.NewSeasonRateController(db.DB)

	protected := router.Group("/season-rates")
	protected.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleTenant))
	{
		protected.POST("/",
			middleware.CombinedRateLimiter("create-season-rate", "10-1m", "50-10m"),
			seasonRateController.CreateSeasonRate)

		protected.GET("/",
			middleware.NewRateLimiter("30-1m", "list-season-rates"),
			seasonRateController.ListSeasonRates)

		protected.GET("/:rate_id",
			middleware.NewRateLimiter("30-1m", "get-season-rate"),
			seasonRateController.GetSeasonRate)

		protected.PUT("/:rate_id",
			middleware.CombinedRateLimiter("update-season-rate", "10-1m", "30-10m"),
			seasonRateController.UpdateSeasonRate)

		protected.DELETE("/:rate_id",
			middleware.CombinedRateLimiter("delete-season-rate", "5-1m", "20-10m"),
			seasonRateController.DeleteSeasonRate)
	}
}
