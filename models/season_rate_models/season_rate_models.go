package season_rate_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
)

// ErrRateNotFound is returned when the requested season rate does not exist.
var (
	// ErrRateNotFound is returned when a rate ID resolves to nothing.
	ErrRateNotFound = errors.New("season rate not found")
	// ErrScopeChanged is returned when an update names a different room or
	// property than the rate was created for.
	ErrScopeChanged = errors.New("season rate scope cannot be changed")
	// ErrScopeTargetNotFound is returned when the scope's room or property
	// does not exist.
	ErrScopeTargetNotFound = errors.New("season rate target room or property not found")
)

// SeasonRate raises (or fixes) a room's nightly price over an inclusive date
// window. Exactly one of RoomID/PropertyID is set; within one scope the
// windows of all rates are pairwise non-overlapping.
type SeasonRate struct {
	ID         uuid.UUID     `json:"id"`
	RoomID     *uuid.UUID    `json:"room_id,omitempty"`
	PropertyID *uuid.UUID    `json:"property_id,omitempty"`
	Type       string        `json:"type"` // NOMINAL or PERCENTAGE
	Value      float64       `json:"value"`
	StartDate  dateonly.Date `json:"start_date"`
	EndDate    dateonly.Date `json:"end_date"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Window returns the rate's inclusive date window.
func (r *SeasonRate) Window() Window {
	return Window{Start: r.StartDate, End: r.EndDate}
}

// Scope returns the rate's scope as stored.
func (r *SeasonRate) Scope() (Scope, error) {
	return ScopeFromIDs(r.RoomID, r.PropertyID)
}

// NewSeasonRate builds a rate for the given scope and window.
func NewSeasonRate(scope Scope, rateType string, value float64, window Window) (*SeasonRate, error) {
	if scope.IsZero() {
		return nil, ErrInvalidScope
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if rateType != shared_models.RateTypeNominal && rateType != shared_models.RateTypePercentage {
		return nil, fmt.Errorf("invalid season rate type %q", rateType)
	}
	if value <= 0 {
		return nil, fmt.Errorf("season rate value must be positive")
	}

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for season rate: %w", err)
	}

	now := time.Now()
	rate := &SeasonRate{
		ID:        id,
		Type:      rateType,
		Value:     value,
		StartDate: window.Start,
		EndDate:   window.End,
		CreatedAt: now,
		UpdatedAt: now,
	}
	scopeID := scope.ID()
	switch scope.Kind() {
	case ScopeRoom:
		rate.RoomID = &scopeID
	case ScopeProperty:
		rate.PropertyID = &scopeID
	}
	return rate, nil
}

func scanRate(row pgx.Row) (*SeasonRate, error) {
	r := &SeasonRate{}
	var start, end time.Time
	err := row.Scan(
		&r.ID,
		&r.RoomID,
		&r.PropertyID,
		&r.Type,
		&r.Value,
		&start,
		&end,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.StartDate = dateonly.FromTime(start)
	r.EndDate = dateonly.FromTime(end)
	return r, nil
}

const rateColumns = `id, room_id, property_id, type, value, start_date, end_date, created_at, updated_at`

// GetSeasonRateByID fetches a season rate by its ID.
func GetSeasonRateByID(ctx context.Context, db *pgxpool.Pool, rateID uuid.UUID) (*SeasonRate, error) {
	query := `SELECT ` + rateColumns + ` FROM season_rates WHERE id = $1`

	rate, err := scanRate(db.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch season rate %s: %v", rateID, err)
		return nil, fmt.Errorf("database error fetching season rate: %w", err)
	}
	return rate, nil
}

func queryRates(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, sql string, args ...any) ([]SeasonRate, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season rates: %w", err)
	}
	defer rows.Close()

	var rates []SeasonRate
	for rows.Next() {
		r, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan season rate: %w", err)
		}
		rates = append(rates, *r)
	}
	return rates, rows.Err()
}

// GetSeasonRatesByScope returns every rate attached to the given scope,
// ordered by start date.
func GetSeasonRatesByScope(ctx context.Context, db *pgxpool.Pool, scope Scope) ([]SeasonRate, error) {
	query := `SELECT ` + rateColumns + ` FROM season_rates WHERE ` + scope.Column() + ` = $1 ORDER BY start_date ASC`
	return queryRates(ctx, db, query, scope.ID())
}

// GetRatesForRoom returns the room-scoped rates intersecting [from, to).
func GetRatesForRoom(ctx context.Context, db *pgxpool.Pool, roomID uuid.UUID, from, to dateonly.Date) ([]SeasonRate, error) {
	query := `SELECT ` + rateColumns + `
		FROM season_rates
		WHERE room_id = $1 AND start_date < $3 AND end_date >= $2
		ORDER BY start_date ASC`
	return queryRates(ctx, db, query, roomID, from.Time(), to.Time())
}

// GetRatesForProperty returns the property-scoped rates intersecting [from, to).
func GetRatesForProperty(ctx context.Context, db *pgxpool.Pool, propertyID uuid.UUID, from, to dateonly.Date) ([]SeasonRate, error) {
	query := `SELECT ` + rateColumns + `
		FROM season_rates
		WHERE property_id = $1 AND start_date < $3 AND end_date >= $2
		ORDER BY start_date ASC`
	return queryRates(ctx, db, query, propertyID, from.Time(), to.Time())
}

// CreateSeasonRateChecked inserts the rate inside a transaction that locks the
// scope's anchor row (the room or property itself) and then re-reads the
// scope's existing windows. Two concurrent creates for the same scope
// serialize on the anchor lock, so the non-overlap invariant survives the
// check-then-act race even when the scope holds no rates yet.
func CreateSeasonRateChecked(ctx context.Context, db *pgxpool.Pool, rate *SeasonRate) (*SeasonRate, error) {
	scope, err := rate.Scope()
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockAndCheckOverlap(ctx, tx, scope, rate.Window(), uuid.Nil); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO season_rates (id, room_id, property_id, type, value, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		rate.ID, rate.RoomID, rate.PropertyID, rate.Type, rate.Value,
		rate.StartDate.Time(), rate.EndDate.Time(), rate.CreatedAt, rate.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert season rate: %v", err)
		return nil, fmt.Errorf("failed to create season rate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit season rate: %w", err)
	}

	logger.InfoLogger.Infof("Season rate %s created", rate.ID)
	return rate, nil
}

// UpdateSeasonRateChecked applies the new type/value/window to an existing
// rate under the same transactional overlap guard, ignoring the rate's own
// current window. The overlap check always runs against the scope stored on
// the row; a request naming a different scope is rejected rather than
// validated against the wrong sibling set.
func UpdateSeasonRateChecked(ctx context.Context, db *pgxpool.Pool, rate *SeasonRate) (*SeasonRate, error) {
	requested, err := rate.Scope()
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stored, err := scanRate(tx.QueryRow(ctx,
		`SELECT `+rateColumns+` FROM season_rates WHERE id = $1 FOR UPDATE`, rate.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to fetch season rate for update: %w", err)
	}
	storedScope, err := stored.Scope()
	if err != nil {
		return nil, fmt.Errorf("season rate %s has invalid stored scope: %w", rate.ID, err)
	}
	if err := scopeForUpdate(storedScope, requested); err != nil {
		return nil, err
	}

	if err := lockAndCheckOverlap(ctx, tx, storedScope, rate.Window(), rate.ID); err != nil {
		return nil, err
	}

	query := `
		UPDATE season_rates
		SET type = $2, value = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $1
	`
	rate.UpdatedAt = time.Now()
	cmdTag, err := tx.Exec(ctx, query,
		rate.ID, rate.Type, rate.Value, rate.StartDate.Time(), rate.EndDate.Time(), rate.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update season rate %s: %v", rate.ID, err)
		return nil, fmt.Errorf("failed to update season rate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrRateNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit season rate update: %w", err)
	}

	logger.InfoLogger.Infof("Season rate %s updated", rate.ID)
	return rate, nil
}

// OverlapError carries the window that defeated a create/update.
type OverlapError struct {
	Conflicting SeasonRate
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("season rate window overlaps existing rate %s (%s to %s)",
		e.Conflicting.ID, e.Conflicting.StartDate, e.Conflicting.EndDate)
}

// scopeForUpdate rejects scope changes: a rate stays attached to the room or
// property it was created for, matching the stored columns the UPDATE
// statement leaves untouched.
func scopeForUpdate(stored, requested Scope) error {
	if requested != stored {
		return ErrScopeChanged
	}
	return nil
}

func anchorLockQuery(scope Scope) string {
	return `SELECT id FROM ` + scope.AnchorTable() + ` WHERE id = $1 FOR UPDATE`
}

// lockAndCheckOverlap serializes rate writes for one scope and verifies the
// proposed window against the scope's existing rates. Locking only sibling
// rate rows is not enough: an empty scope leaves nothing to lock and two
// concurrent creates would both pass the check, so the scope's anchor row is
// locked first, the same way booking admission locks the room row.
func lockAndCheckOverlap(ctx context.Context, tx pgx.Tx, scope Scope, proposed Window, excludeID uuid.UUID) error {
	if err := proposed.Validate(); err != nil {
		return err
	}

	var anchorID uuid.UUID
	if err := tx.QueryRow(ctx, anchorLockQuery(scope), scope.ID()).Scan(&anchorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Season rate write for missing %s %s", scope.Kind(), scope.ID())
			return ErrScopeTargetNotFound
		}
		return fmt.Errorf("failed to lock %s row: %w", scope.Kind(), err)
	}

	query := `SELECT ` + rateColumns + ` FROM season_rates WHERE ` + scope.Column() + ` = $1`
	existing, err := queryRates(ctx, tx, query, scope.ID())
	if err != nil {
		return err
	}

	if conflict := FindOverlap(existing, proposed, excludeID); conflict != nil {
		logger.WarnLogger.Warnf("Season rate window %s..%s overlaps rate %s", proposed.Start, proposed.End, conflict.ID)
		return &OverlapError{Conflicting: *conflict}
	}
	return nil
}

// DeleteSeasonRate removes a rate by ID.
func DeleteSeasonRate(ctx context.Context, db *pgxpool.Pool, rateID uuid.UUID) error {
	cmdTag, err := db.Exec(ctx, `DELETE FROM season_rates WHERE id = $1`, rateID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to delete season rate %s: %v", rateID, err)
		return fmt.Errorf("failed to delete season rate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrRateNotFound
	}

	logger.InfoLogger.Infof("Season rate %s deleted", rateID)
	return nil
}
