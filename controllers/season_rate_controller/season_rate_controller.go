package season_rate_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/utils/dateonly"
)

// SeasonRateController manages seasonal pricing windows for a room or a
// whole property.
type SeasonRateController struct {
	DB *pgxpool.Pool
}

func NewSeasonRateController(db *pgxpool.Pool) *SeasonRateController {
	return &SeasonRateController{DB: db}
}

// SeasonRateRequest is shared by create and update. Exactly one of RoomID and
// PropertyID must be set.
type SeasonRateRequest struct {
	RoomID     *uuid.UUID `json:"room_id"`
	PropertyID *uuid.UUID `json:"property_id"`
	Type       string     `json:"type" binding:"required"`
	Value      float64    `json:"value" binding:"required"`
	StartDate  string     `json:"start_date" binding:"required"`
	EndDate    string     `json:"end_date" binding:"required"`
}

func (r *SeasonRateRequest) toRate() (*season_rate_models.SeasonRate, error) {
	scope, err := season_rate_models.ScopeFromIDs(r.RoomID, r.PropertyID)
	if err != nil {
		return nil, err
	}
	start, err := dateonly.Parse(r.StartDate)
	if err != nil {
		return nil, season_rate_models.ErrInvalidWindow
	}
	end, err := dateonly.Parse(r.EndDate)
	if err != nil {
		return nil, season_rate_models.ErrInvalidWindow
	}
	return season_rate_models.NewSeasonRate(scope, r.Type, r.Value, season_rate_models.Window{Start: start, End: end})
}

// CreateSeasonRate handles POST /season-rates.
func (sc *SeasonRateController) CreateSeasonRate(c *gin.Context) {
	var req SeasonRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	rate, err := req.toRate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := season_rate_models.CreateSeasonRateChecked(c.Request.Context(), sc.DB, rate)
	if err != nil {
		sc.writeRateError(c, err)
		return
	}

	logger.InfoLogger.Infof("Season rate %s created for %s window", created.ID, req.Type)
	c.JSON(http.StatusCreated, gin.H{"season_rate": created})
}

// UpdateSeasonRate handles PUT /season-rates/:rate_id. The rate keeps its
// identity; scope, type, value and window are replaced wholesale.
func (sc *SeasonRateController) UpdateSeasonRate(c *gin.Context) {
	rateID, err := uuid.Parse(c.Param("rate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season rate ID format"})
		return
	}

	var req SeasonRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	rate, err := req.toRate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate.ID = rateID

	updated, err := season_rate_models.UpdateSeasonRateChecked(c.Request.Context(), sc.DB, rate)
	if err != nil {
		sc.writeRateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"season_rate": updated})
}

func (sc *SeasonRateController) writeRateError(c *gin.Context, err error) {
	var overlap *season_rate_models.OverlapError
	switch {
	case errors.As(err, &overlap):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "Season rate window overlaps an existing rate for the same scope",
			"conflicting_rate": overlap.Conflicting,
		})
	case errors.Is(err, season_rate_models.ErrRateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Season rate not found"})
	case errors.Is(err, season_rate_models.ErrScopeTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room or property not found"})
	case errors.Is(err, season_rate_models.ErrInvalidScope),
		errors.Is(err, season_rate_models.ErrInvalidWindow),
		errors.Is(err, season_rate_models.ErrScopeChanged):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Season rate write failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save season rate"})
	}
}

// GetSeasonRate handles GET /season-rates/:rate_id.
func (sc *SeasonRateController) GetSeasonRate(c *gin.Context) {
	rateID, err := uuid.Parse(c.Param("rate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season rate ID format"})
		return
	}

	rate, err := season_rate_models.GetSeasonRateByID(c.Request.Context(), sc.DB, rateID)
	if err != nil {
		if errors.Is(err, season_rate_models.ErrRateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Season rate not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch season rate"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"season_rate": rate})
}

// ListSeasonRates handles GET /season-rates?room_id=...|property_id=... and
// returns every rate for one scope, newest window first.
func (sc *SeasonRateController) ListSeasonRates(c *gin.Context) {
	var roomID, propertyID *uuid.UUID
	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room_id format"})
			return
		}
		roomID = &id
	}
	if raw := c.Query("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property_id format"})
			return
		}
		propertyID = &id
	}

	scope, err := season_rate_models.ScopeFromIDs(roomID, propertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rates, err := season_rate_models.GetSeasonRatesByScope(c.Request.Context(), sc.DB, scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch season rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"season_rates": rates})
}

// DeleteSeasonRate handles DELETE /season-rates/:rate_id.
func (sc *SeasonRateController) DeleteSeasonRate(c *gin.Context) {
	rateID, err := uuid.Parse(c.Param("rate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season rate ID format"})
		return
	}

	if err := season_rate_models.DeleteSeasonRate(c.Request.Context(), sc.DB, rateID); err != nil {
		if errors.Is(err, season_rate_models.ErrRateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Season rate not found"})
		} else {
			logger.ErrorLogger.Errorf("Failed to delete season rate %s: %v", rateID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete season rate"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Season rate deleted"})
}
