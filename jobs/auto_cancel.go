package jobs

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/booking_models"
)

const (
	defaultPendingTTLMinutes = 60
	sweepInterval            = 5 * time.Minute
)

// PendingBookingTTL reads PENDING_BOOKING_TTL_MINUTES, falling back to one
// hour. A pending booking older than this is swept.
func PendingBookingTTL() time.Duration {
	raw := os.Getenv("PENDING_BOOKING_TTL_MINUTES")
	if raw == "" {
		return defaultPendingTTLMinutes * time.Minute
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		logger.WarnLogger.Warnf("Invalid PENDING_BOOKING_TTL_MINUTES %q, using default", raw)
		return defaultPendingTTLMinutes * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// StartAutoCancelSweeper periodically cancels PENDING bookings whose payment
// window has lapsed, releasing their dates back to other guests. It returns
// once ctx is done.
func StartAutoCancelSweeper(ctx context.Context, db *pgxpool.Pool) {
	ttl := PendingBookingTTL()
	logger.InfoLogger.Infof("Auto-cancel sweeper started (TTL %s, every %s)", ttl, sweepInterval)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoLogger.Info("Auto-cancel sweeper stopped")
			return
		case <-ticker.C:
			sweepOnce(ctx, db, ttl)
		}
	}
}

func sweepOnce(ctx context.Context, db *pgxpool.Pool, ttl time.Duration) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cancelled, err := booking_models.CancelStalePendingBookings(sweepCtx, db, time.Now().Add(-ttl))
	if err != nil {
		logger.ErrorLogger.Errorf("Auto-cancel sweep failed: %v", err)
		return
	}
	if cancelled > 0 {
		logger.InfoLogger.Infof("Auto-cancel sweep cancelled %d stale pending booking(s)", cancelled)
	}
}
