package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/staynest/booking/config/db"
	"github.com/staynest/booking/controllers/override_controller"
	middleware "github.com/staynest/booking/middlewares"
	"github.com/staynest/booking/middlewares/auth"
)

// RegisterOverrideRoutes registers calendar override management routes.
func RegisterOverrideRoutes(router *gin.Engine) {
	overrideController := override_controller.NewOverrideController(db.DB)

	protected := router.Group("/availability")
	protected.Use(auth.AuthMiddleware(), auth.RequireRole(auth.RoleTenant))
	{
		protected.POST("/",
			middleware.CombinedRateLimiter("upsert-overrides", "10-1m", "50-10m"),
			overrideController.UpsertOverrides)

		protected.DELETE("/:override_id",
			middleware.CombinedRateLimiter("delete-override", "10-1m", "30-10m"),
			overrideController.DeleteOverride)
	}
}
