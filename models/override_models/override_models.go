package override_models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
)

// DateOverride is a tenant-set exception for a single (room, date) pair:
// a manual block (IsAvailable=false) and/or a custom nightly price.
// The database enforces at most one row per (room_id, date).
type DateOverride struct {
	ID            uuid.UUID     `json:"id"`
	RoomID        uuid.UUID     `json:"room_id"`
	Date          dateonly.Date `json:"date"`
	IsAvailable   bool          `json:"is_available"`
	OverridePrice *int64        `json:"override_price,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func scanOverride(row pgx.Row) (*DateOverride, error) {
	o := &DateOverride{}
	var date time.Time
	err := row.Scan(
		&o.ID,
		&o.RoomID,
		&date,
		&o.IsAvailable,
		&o.OverridePrice,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Date = dateonly.FromTime(date)
	return o, nil
}

// GetOverridesInRange returns the overrides for a room on nights in
// [from, to) — the half-open stay convention: the checkout date itself is
// not occupied and is not fetched.
func GetOverridesInRange(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID, from, to dateonly.Date) ([]DateOverride, error) {
	query := `
		SELECT id, room_id, date, is_available, override_price, created_at, updated_at
		FROM date_overrides
		WHERE room_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`

	rows, err := db.Query(ctx, query, roomID, from.Time(), to.Time())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch overrides for room %s: %v", roomID, err)
		return nil, fmt.Errorf("failed to fetch date overrides: %w", err)
	}
	defer rows.Close()

	var overrides []DateOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan date override: %w", err)
		}
		overrides = append(overrides, *o)
	}
	return overrides, rows.Err()
}

// GetOverridesForCalendar returns overrides on [from, to] inclusive, for the
// tenant-facing availability calendar.
func GetOverridesForCalendar(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID, from, to dateonly.Date) ([]DateOverride, error) {
	query := `
		SELECT id, room_id, date, is_available, override_price, created_at, updated_at
		FROM date_overrides
		WHERE room_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := db.Query(ctx, query, roomID, from.Time(), to.Time())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch calendar overrides for room %s: %v", roomID, err)
		return nil, fmt.Errorf("failed to fetch date overrides: %w", err)
	}
	defer rows.Close()

	var overrides []DateOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan date override: %w", err)
		}
		overrides = append(overrides, *o)
	}
	return overrides, rows.Err()
}

// OverrideItem is one entry of a bulk upsert.
type OverrideItem struct {
	RoomID        uuid.UUID     `json:"room_id" binding:"required"`
	Date          dateonly.Date `json:"date" binding:"required"`
	IsAvailable   bool          `json:"is_available"`
	OverridePrice *int64        `json:"override_price,omitempty"`
}

// UpsertOverrides writes the given items, one row per (room, date). An
// existing row for the same pair is updated in place, preserving the
// uniqueness invariant.
func UpsertOverrides(ctx context.Context, db *pgxpool.Pool, items []OverrideItem) ([]DateOverride, error) {
	query := `
		INSERT INTO date_overrides (id, room_id, date, is_available, override_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (room_id, date)
		DO UPDATE SET is_available = EXCLUDED.is_available,
		              override_price = EXCLUDED.override_price,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, room_id, date, is_available, override_price, created_at, updated_at
	`

	now := time.Now()
	results := make([]DateOverride, 0, len(items))
	for _, item := range items {
		id, err := shared_models.GenerateUUIDv7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID for override: %w", err)
		}

		row := db.QueryRow(ctx, query, id, item.RoomID, item.Date.Time(), item.IsAvailable, item.OverridePrice, now)
		o, err := scanOverride(row)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to upsert override for room %s on %s: %v", item.RoomID, item.Date, err)
			return nil, fmt.Errorf("failed to upsert date override: %w", err)
		}
		results = append(results, *o)
	}

	logger.InfoLogger.Infof("%d date override(s) upserted", len(results))
	return results, nil
}

// DeleteOverride removes an override by ID.
func DeleteOverride(ctx context.Context, db *pgxpool.Pool, overrideID uuid.UUID) error {
	cmdTag, err := db.Exec(ctx, `DELETE FROM date_overrides WHERE id = $1`, overrideID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to delete override %s: %v", overrideID, err)
		return fmt.Errorf("failed to delete date override: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("date override %s not found", overrideID)
	}

	logger.InfoLogger.Infof("Date override %s deleted", overrideID)
	return nil
}
