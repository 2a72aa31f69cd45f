package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisclient "github.com/staynest/booking/config/redis"
	"github.com/staynest/booking/logger"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

func userKey(c *gin.Context) string {
	if raw, exists := c.Get("user_id"); exists {
		if id, ok := raw.(string); ok && id != "" {
			return id
		}
	}
	return c.ClientIP()
}

func createRedisStore(routeID string, period time.Duration) (limiter.Store, error) {
	rdb := redisclient.GetRedisClient()
	if rdb == nil {
		return nil, fmt.Errorf("redis unavailable for rate limiter on route %s", routeID)
	}

	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: period,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

// ParseCustomRate allows formats like "10-2m", "30-20m", "5-1h", "20-10s".
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	var period time.Duration

	switch {
	case strings.HasSuffix(durationStr, "s"):
		seconds, err := strconv.Atoi(strings.TrimSuffix(durationStr, "s"))
		if err != nil {
			return limiter.Rate{}, fmt.Errorf("invalid seconds duration: %v", err)
		}
		period = time.Duration(seconds) * time.Second

	case strings.HasSuffix(durationStr, "m"):
		minutes, err := strconv.Atoi(strings.TrimSuffix(durationStr, "m"))
		if err != nil {
			return limiter.Rate{}, fmt.Errorf("invalid minutes duration: %v", err)
		}
		period = time.Duration(minutes) * time.Minute

	case strings.HasSuffix(durationStr, "h"):
		hours, err := strconv.Atoi(strings.TrimSuffix(durationStr, "h"))
		if err != nil {
			return limiter.Rate{}, fmt.Errorf("invalid hours duration: %v", err)
		}
		period = time.Duration(hours) * time.Hour

	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}

	return limiter.Rate{
		Period: period,
		Limit:  int64(limit),
	}, nil
}

// NewRateLimiter creates middleware with a custom rate like "10-2m" for a
// specific route, keyed per authenticated user (falling back to client IP).
// When Redis is unavailable the middleware passes through.
func NewRateLimiter(rateStr, routeID string) gin.HandlerFunc {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		logger.ErrorLogger.Errorf("Error parsing rate for route %s: %v", routeID, err)
		return func(c *gin.Context) { c.Next() }
	}

	store, err := createRedisStore(routeID, rate.Period)
	if err != nil {
		logger.WarnLogger.Warnf("Rate limiter disabled for route %s: %v", routeID, err)
		return func(c *gin.Context) { c.Next() }
	}

	instance := limiter.New(store, rate)
	return ginmiddleware.NewMiddleware(instance,
		ginmiddleware.WithKeyGetter(userKey),
	)
}

// CombinedRateLimiter chains a short-window and a long-window limit on the
// same route, e.g. ("book-stay", "3-1m", "15-10m").
func CombinedRateLimiter(routeID string, shortRate, longRate string) gin.HandlerFunc {
	short := NewRateLimiter(shortRate, routeID+":short")
	long := NewRateLimiter(longRate, routeID+":long")

	return func(c *gin.Context) {
		short(c)
		if c.IsAborted() {
			return
		}
		long(c)
	}
}
