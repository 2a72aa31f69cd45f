package season_rate_controller

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/models/shared_models"
)

func TestSeasonRateRequestToRate(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	t.Run("room scoped", func(t *testing.T) {
		req := SeasonRateRequest{
			RoomID:    &roomID,
			Type:      shared_models.RateTypeNominal,
			Value:     750000,
			StartDate: "2026-12-20",
			EndDate:   "2027-01-05",
		}

		rate, err := req.toRate()
		require.NoError(t, err)
		require.NotNil(t, rate.RoomID)
		assert.Equal(t, roomID, *rate.RoomID)
		assert.Nil(t, rate.PropertyID)
		assert.Equal(t, "2026-12-20", rate.StartDate.String())
		assert.Equal(t, "2027-01-05", rate.EndDate.String())
	})

	t.Run("property scoped", func(t *testing.T) {
		req := SeasonRateRequest{
			PropertyID: &propertyID,
			Type:       shared_models.RateTypePercentage,
			Value:      25,
			StartDate:  "2026-06-01",
			EndDate:    "2026-06-30",
		}

		rate, err := req.toRate()
		require.NoError(t, err)
		require.NotNil(t, rate.PropertyID)
		assert.Equal(t, propertyID, *rate.PropertyID)
		assert.Nil(t, rate.RoomID)
	})

	t.Run("both scopes rejected", func(t *testing.T) {
		req := SeasonRateRequest{
			RoomID:     &roomID,
			PropertyID: &propertyID,
			Type:       shared_models.RateTypeNominal,
			Value:      500000,
			StartDate:  "2026-06-01",
			EndDate:    "2026-06-30",
		}

		_, err := req.toRate()
		assert.ErrorIs(t, err, season_rate_models.ErrInvalidScope)
	})

	t.Run("neither scope rejected", func(t *testing.T) {
		req := SeasonRateRequest{
			Type:      shared_models.RateTypeNominal,
			Value:     500000,
			StartDate: "2026-06-01",
			EndDate:   "2026-06-30",
		}

		_, err := req.toRate()
		assert.ErrorIs(t, err, season_rate_models.ErrInvalidScope)
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		req := SeasonRateRequest{
			RoomID:    &roomID,
			Type:      shared_models.RateTypeNominal,
			Value:     500000,
			StartDate: "June 1st",
			EndDate:   "2026-06-30",
		}

		_, err := req.toRate()
		assert.ErrorIs(t, err, season_rate_models.ErrInvalidWindow)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		req := SeasonRateRequest{
			RoomID:    &roomID,
			Type:      shared_models.RateTypeNominal,
			Value:     500000,
			StartDate: "2026-06-30",
			EndDate:   "2026-06-01",
		}

		_, err := req.toRate()
		assert.Error(t, err)
	})

	t.Run("single day window allowed", func(t *testing.T) {
		req := SeasonRateRequest{
			RoomID:    &roomID,
			Type:      shared_models.RateTypePercentage,
			Value:     10,
			StartDate: "2026-06-15",
			EndDate:   "2026-06-15",
		}

		rate, err := req.toRate()
		require.NoError(t, err)
		assert.True(t, rate.StartDate.Equal(rate.EndDate))
	})
}
