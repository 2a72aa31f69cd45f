// Package pricing resolves the nightly price of a stay. For each night the
// first applicable source wins: manual override price, then a room-scoped
// season rate, then a property-scoped one, then the room's base price.
// Like the availability checker it is pure over a fetched snapshot.
package pricing

import (
	"errors"
	"math"

	"github.com/staynest/booking/models/override_models"
	"github.com/staynest/booking/models/room_models"
	"github.com/staynest/booking/models/season_rate_models"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
)

// ErrInvalidRange is returned for stays of zero or negative nights.
var ErrInvalidRange = errors.New("check-out date must be after check-in date")

// Price sources, in descending precedence.
const (
	SourceCustom     = "custom"
	SourcePeakSeason = "peak_season"
	SourceBase       = "base"
)

// DailyPrice is one night of the breakdown. Prices are integer nominal
// currency values, rounded before accumulation.
type DailyPrice struct {
	Date               dateonly.Date `json:"date"`
	BasePrice          int64         `json:"base_price"`
	SeasonalAdjustment int64         `json:"seasonal_adjustment"`
	FinalPrice         int64         `json:"final_price"`
	Source             string        `json:"source"`
}

// Breakdown is the authoritative price of a stay. TotalPrice is the sum of
// the nightly final prices; AverageNightlyPrice is informational.
type Breakdown struct {
	DailyPrices         []DailyPrice `json:"daily_prices"`
	TotalPrice          int64        `json:"total_price"`
	AverageNightlyPrice int64        `json:"average_nightly_price"`
	Nights              int          `json:"nights"`
}

// Quote prices every night in [checkIn, checkOut). The season-rate slices
// hold the rates of the room's scope and its property's scope; thanks to the
// per-scope non-overlap invariant at most one rate per scope can cover a
// given night, so the first match is the only match.
func Quote(room *room_models.Room, overrides []override_models.DateOverride, roomRates, propertyRates []season_rate_models.SeasonRate, checkIn, checkOut dateonly.Date) (*Breakdown, error) {
	nights := checkIn.DaysUntil(checkOut)
	if nights < 1 {
		return nil, ErrInvalidRange
	}

	overrideByDate := make(map[string]*override_models.DateOverride, len(overrides))
	for i := range overrides {
		overrideByDate[overrides[i].Date.String()] = &overrides[i]
	}

	breakdown := &Breakdown{
		DailyPrices: make([]DailyPrice, 0, nights),
		Nights:      nights,
	}

	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		night := priceNight(room.BasePrice, d, overrideByDate[d.String()], roomRates, propertyRates)
		breakdown.DailyPrices = append(breakdown.DailyPrices, night)
		breakdown.TotalPrice += night.FinalPrice
	}

	breakdown.AverageNightlyPrice = int64(math.Round(float64(breakdown.TotalPrice) / float64(nights)))
	return breakdown, nil
}

func priceNight(basePrice int64, d dateonly.Date, override *override_models.DateOverride, roomRates, propertyRates []season_rate_models.SeasonRate) DailyPrice {
	if override != nil && override.OverridePrice != nil {
		return DailyPrice{
			Date:               d,
			BasePrice:          basePrice,
			SeasonalAdjustment: 0,
			FinalPrice:         *override.OverridePrice,
			Source:             SourceCustom,
		}
	}

	if rate := rateCovering(roomRates, d); rate != nil {
		return applyRate(basePrice, d, rate)
	}
	if rate := rateCovering(propertyRates, d); rate != nil {
		return applyRate(basePrice, d, rate)
	}

	return DailyPrice{
		Date:       d,
		BasePrice:  basePrice,
		FinalPrice: basePrice,
		Source:     SourceBase,
	}
}

func rateCovering(rates []season_rate_models.SeasonRate, d dateonly.Date) *season_rate_models.SeasonRate {
	for i := range rates {
		if rates[i].Window().Contains(d) {
			return &rates[i]
		}
	}
	return nil
}

func applyRate(basePrice int64, d dateonly.Date, rate *season_rate_models.SeasonRate) DailyPrice {
	var finalPrice int64
	if rate.Type == shared_models.RateTypeNominal {
		finalPrice = int64(math.Round(rate.Value))
	} else {
		// PERCENTAGE: the adjustment may be fractional; round the final
		// nightly price to whole currency units before accumulation.
		finalPrice = int64(math.Round(float64(basePrice) + float64(basePrice)*rate.Value/100))
	}

	adjustment := finalPrice - basePrice
	if rate.Type == shared_models.RateTypeNominal && adjustment < 0 {
		// A nominal rate below base never reports a negative adjustment.
		adjustment = 0
	}

	return DailyPrice{
		Date:               d,
		BasePrice:          basePrice,
		SeasonalAdjustment: adjustment,
		FinalPrice:         finalPrice,
		Source:             SourcePeakSeason,
	}
}
