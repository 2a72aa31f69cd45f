package room_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staynest/booking/models/room_models"
)

type RoomController struct {
	DB *pgxpool.Pool
}

func NewRoomController(db *pgxpool.Pool) *RoomController {
	return &RoomController{DB: db}
}

// GetRoom handles GET /rooms/:room_id.
func (rc *RoomController) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}

	room, err := room_models.GetRoomByID(c.Request.Context(), rc.DB, roomID)
	if err != nil {
		if errors.Is(err, room_models.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}
