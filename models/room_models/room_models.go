package room_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
)

// ErrRoomNotFound is returned when the requested room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// Room is the unit of inventory. BasePrice is the immutable nightly default
// in minor-unit-free nominal currency; season rates and overrides layer on
// top of it at quote time.
type Room struct {
	ID             uuid.UUID `json:"id"`
	PropertyID     uuid.UUID `json:"property_id"`
	Name           string    `json:"name"`
	BasePrice      int64     `json:"base_price"`
	CapacityGuests int       `json:"capacity_guests"`
	BedCount       int       `json:"bed_count"`
	BathCount      int       `json:"bath_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetRoomByID fetches a room by its ID.
func GetRoomByID(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID) (*Room, error) {
	room := &Room{}
	query := `
		SELECT id, property_id, name, base_price, capacity_guests, bed_count, bath_count, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	err := db.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.PropertyID,
		&room.Name,
		&room.BasePrice,
		&room.CapacityGuests,
		&room.BedCount,
		&room.BathCount,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Room %s not found", roomID)
			return nil, ErrRoomNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch room %s: %v", roomID, err)
		return nil, fmt.Errorf("database error fetching room: %w", err)
	}

	return room, nil
}
