package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) dateonly.Date {
	return dateonly.New(2026, time.August, day)
}

func testRoom(basePrice int64) *room_models.Room {
	return &room_models.Room{
		ID:             uuid.New(),
		PropertyID:     uuid.New(),
		Name:           "Deluxe Twin",
		BasePrice:      basePrice,
		CapacityGuests: 2,
	}
}

func rate(rateType string, value float64, startDay, endDay int) season_rate_models.SeasonRate {
	roomID := uuid.New()
	return season_rate_models.SeasonRate{
		ID:        uuid.New(),
		RoomID:    &roomID,
		Type:      rateType,
		Value:     value,
		StartDate: date(startDay),
		EndDate:   date(endDay),
	}
}

func TestBasePriceOnly(t *testing.T) {
	// Three nights at base with no overrides or season rates.
	room := testRoom(500000)

	b, err := Quote(room, nil, nil, nil, date(10), date(13))
	require.NoError(t, err)

	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, int64(1500000), b.TotalPrice)
	assert.Equal(t, int64(500000), b.AverageNightlyPrice)
	require.Len(t, b.DailyPrices, 3)
	for i, dp := range b.DailyPrices {
		assert.Equal(t, SourceBase, dp.Source)
		assert.Equal(t, int64(500000), dp.FinalPrice)
		assert.Equal(t, int64(0), dp.SeasonalAdjustment)
		assert.Equal(t, date(10+i).String(), dp.Date.String())
	}
}

func TestPropertyPercentageRate(t *testing.T) {
	// A property-level 20% rate covering the whole stay.
	room := testRoom(500000)
	propRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypePercentage, 20, 1, 31)}

	b, err := Quote(room, nil, nil, propRates, date(10), date(13))
	require.NoError(t, err)

	assert.Equal(t, int64(1800000), b.TotalPrice)
	for _, dp := range b.DailyPrices {
		assert.Equal(t, SourcePeakSeason, dp.Source)
		assert.Equal(t, int64(600000), dp.FinalPrice)
		assert.Equal(t, int64(100000), dp.SeasonalAdjustment)
	}
}

func TestRoomRateBeatsPropertyRate(t *testing.T) {
	// A room-level nominal rate overlapping the same dates as the property
	// percentage rate: the room rate wins.
	room := testRoom(500000)
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypeNominal, 700000, 1, 31)}
	propRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypePercentage, 20, 1, 31)}

	b, err := Quote(room, nil, roomRates, propRates, date(10), date(13))
	require.NoError(t, err)

	for _, dp := range b.DailyPrices {
		assert.Equal(t, SourcePeakSeason, dp.Source)
		assert.Equal(t, int64(700000), dp.FinalPrice)
		assert.Equal(t, int64(200000), dp.SeasonalAdjustment)
	}
	assert.Equal(t, int64(2100000), b.TotalPrice)
}

func TestOverridePriceBeatsEverything(t *testing.T) {
	// Night two carries a custom override price inside an otherwise
	// base-priced stay; the other nights are unaffected.
	room := testRoom(500000)
	overridePrice := int64(999999)
	overrides := []override_models.DateOverride{{
		ID:            uuid.New(),
		RoomID:        room.ID,
		Date:          date(11),
		IsAvailable:   true,
		OverridePrice: &overridePrice,
	}}

	b, err := Quote(room, overrides, nil, nil, date(10), date(13))
	require.NoError(t, err)

	assert.Equal(t, SourceBase, b.DailyPrices[0].Source)
	assert.Equal(t, SourceCustom, b.DailyPrices[1].Source)
	assert.Equal(t, int64(999999), b.DailyPrices[1].FinalPrice)
	assert.Equal(t, int64(0), b.DailyPrices[1].SeasonalAdjustment)
	assert.Equal(t, SourceBase, b.DailyPrices[2].Source)
	assert.Equal(t, int64(500000+999999+500000), b.TotalPrice)
}

func TestOverrideBeatsSeasonRate(t *testing.T) {
	room := testRoom(500000)
	overridePrice := int64(450000)
	overrides := []override_models.DateOverride{{
		ID:            uuid.New(),
		RoomID:        room.ID,
		Date:          date(10),
		IsAvailable:   true,
		OverridePrice: &overridePrice,
	}}
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypeNominal, 700000, 1, 31)}

	b, err := Quote(room, overrides, roomRates, nil, date(10), date(12))
	require.NoError(t, err)

	assert.Equal(t, SourceCustom, b.DailyPrices[0].Source)
	assert.Equal(t, int64(450000), b.DailyPrices[0].FinalPrice)
	assert.Equal(t, SourcePeakSeason, b.DailyPrices[1].Source)
	assert.Equal(t, int64(700000), b.DailyPrices[1].FinalPrice)
}

func TestOverrideWithoutPriceFallsThrough(t *testing.T) {
	// A block-only override (no price set) does not affect pricing.
	room := testRoom(500000)
	overrides := []override_models.DateOverride{{
		ID:          uuid.New(),
		RoomID:      room.ID,
		Date:        date(10),
		IsAvailable: false,
	}}

	b, err := Quote(room, overrides, nil, nil, date(10), date(11))
	require.NoError(t, err)

	assert.Equal(t, SourceBase, b.DailyPrices[0].Source)
	assert.Equal(t, int64(500000), b.DailyPrices[0].FinalPrice)
}

func TestNominalRateBelowBaseClampsAdjustment(t *testing.T) {
	// A nominal rate can discount below base; the adjustment is reported as
	// zero, never negative.
	room := testRoom(500000)
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypeNominal, 400000, 1, 31)}

	b, err := Quote(room, nil, roomRates, nil, date(10), date(11))
	require.NoError(t, err)

	assert.Equal(t, int64(400000), b.DailyPrices[0].FinalPrice)
	assert.Equal(t, int64(0), b.DailyPrices[0].SeasonalAdjustment)
}

func TestFractionalPercentageRounding(t *testing.T) {
	// 12.5% of 99999 is 12499.875: the nightly price rounds to the nearest
	// whole unit before accumulation.
	room := testRoom(99999)
	propRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypePercentage, 12.5, 1, 31)}

	b, err := Quote(room, nil, nil, propRates, date(10), date(12))
	require.NoError(t, err)

	assert.Equal(t, int64(112499), b.DailyPrices[0].FinalPrice) // round(112498.875)
	assert.Equal(t, b.DailyPrices[0].FinalPrice*2, b.TotalPrice)
}

func TestRateWindowEdges(t *testing.T) {
	// Season windows are inclusive on both ends.
	room := testRoom(500000)
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypeNominal, 700000, 11, 12)}

	b, err := Quote(room, nil, roomRates, nil, date(10), date(14))
	require.NoError(t, err)

	assert.Equal(t, SourceBase, b.DailyPrices[0].Source)       // 10th
	assert.Equal(t, SourcePeakSeason, b.DailyPrices[1].Source) // 11th
	assert.Equal(t, SourcePeakSeason, b.DailyPrices[2].Source) // 12th
	assert.Equal(t, SourceBase, b.DailyPrices[3].Source)       // 13th
}

func TestTotalEqualsSumOfNights(t *testing.T) {
	room := testRoom(333333)
	overridePrice := int64(123456)
	overrides := []override_models.DateOverride{{
		ID: uuid.New(), RoomID: room.ID, Date: date(12), IsAvailable: true, OverridePrice: &overridePrice,
	}}
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypePercentage, 17.3, 13, 15)}
	propRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypeNominal, 444444, 10, 20)}

	b, err := Quote(room, overrides, roomRates, propRates, date(10), date(17))
	require.NoError(t, err)

	var sum int64
	for _, dp := range b.DailyPrices {
		sum += dp.FinalPrice
	}
	assert.Equal(t, sum, b.TotalPrice)
	assert.Equal(t, 7, b.Nights)
	assert.Len(t, b.DailyPrices, 7)
}

func TestDeterminism(t *testing.T) {
	room := testRoom(500000)
	roomRates := []season_rate_models.SeasonRate{rate(shared_models.RateTypePercentage, 20, 1, 31)}

	first, err := Quote(room, nil, roomRates, nil, date(10), date(15))
	require.NoError(t, err)
	second, err := Quote(room, nil, roomRates, nil, date(10), date(15))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestInvalidRange(t *testing.T) {
	room := testRoom(500000)

	_, err := Quote(room, nil, nil, nil, date(13), date(13))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Quote(room, nil, nil, nil, date(13), date(10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestAverageNightlyPriceRounds(t *testing.T) {
	room := testRoom(500000)
	overridePrice := int64(500001)
	overrides := []override_models.DateOverride{{
		ID: uuid.New(), RoomID: room.ID, Date: date(10), IsAvailable: true, OverridePrice: &overridePrice,
	}}

	b, err := Quote(room, overrides, nil, nil, date(10), date(12))
	require.NoError(t, err)

	// total 1000001 over 2 nights -> 500000.5 rounds to 500001
	assert.Equal(t, int64(1000001), b.TotalPrice)
	assert.Equal(t, int64(500001), b.AverageNightlyPrice)
}
