package season_rate_models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staynest/booking/models/shared_models"
	"github.com/staynest/booking/utils/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(start, end string) Window {
	s, err := dateonly.Parse(start)
	if err != nil {
		panic(err)
	}
	e, err := dateonly.Parse(end)
	if err != nil {
		panic(err)
	}
	return Window{Start: s, End: e}
}

func TestScopeFromIDs(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	t.Run("RoomOnly", func(t *testing.T) {
		s, err := ScopeFromIDs(&roomID, nil)
		require.NoError(t, err)
		assert.Equal(t, ScopeRoom, s.Kind())
		assert.Equal(t, roomID, s.ID())
	})

	t.Run("PropertyOnly", func(t *testing.T) {
		s, err := ScopeFromIDs(nil, &propertyID)
		require.NoError(t, err)
		assert.Equal(t, ScopeProperty, s.Kind())
		assert.Equal(t, propertyID, s.ID())
	})

	t.Run("BothRejected", func(t *testing.T) {
		_, err := ScopeFromIDs(&roomID, &propertyID)
		assert.ErrorIs(t, err, ErrInvalidScope)
	})

	t.Run("NeitherRejected", func(t *testing.T) {
		_, err := ScopeFromIDs(nil, nil)
		assert.ErrorIs(t, err, ErrInvalidScope)

		nilID := uuid.Nil
		_, err = ScopeFromIDs(&nilID, nil)
		assert.ErrorIs(t, err, ErrInvalidScope)
	})
}

func TestWindowValidate(t *testing.T) {
	assert.NoError(t, window("2026-06-01", "2026-06-30").Validate())
	assert.NoError(t, window("2026-06-01", "2026-06-01").Validate(), "single-day window is valid")
	assert.ErrorIs(t, window("2026-06-30", "2026-06-01").Validate(), ErrInvalidWindow)
}

func TestWindowOverlaps(t *testing.T) {
	base := window("2026-06-10", "2026-06-20")

	tests := []struct {
		name    string
		other   Window
		overlap bool
	}{
		{"DisjointBefore", window("2026-06-01", "2026-06-05"), false},
		{"DisjointAfter", window("2026-06-25", "2026-06-30"), false},
		{"TouchingStart", window("2026-06-01", "2026-06-10"), true},
		{"TouchingEnd", window("2026-06-20", "2026-06-30"), true},
		{"PartialLeft", window("2026-06-05", "2026-06-15"), true},
		{"PartialRight", window("2026-06-15", "2026-06-25"), true},
		{"Contained", window("2026-06-12", "2026-06-18"), true},
		{"Containing", window("2026-06-01", "2026-06-30"), true},
		{"Identical", window("2026-06-10", "2026-06-20"), true},
		{"AdjacentDayBefore", window("2026-06-01", "2026-06-09"), false},
		{"AdjacentDayAfter", window("2026-06-21", "2026-06-30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlap, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

// The looser predicate the marketplace historically used spelled the same
// test as five disjuncts. Both forms must agree on every window pair.
func TestWindowOverlapMatchesExpandedPredicate(t *testing.T) {
	expanded := func(a, b Window) bool {
		return a.Start.Equal(b.End) || a.End.Equal(b.Start) ||
			(a.Start.Before(b.End) && a.End.After(b.Start)) ||
			a.Start.Equal(b.Start) || a.End.Equal(b.End)
	}

	origin := dateonly.New(2026, time.January, 1)
	// Every pair of small windows over a 12-day span.
	for s1 := 0; s1 < 8; s1++ {
		for l1 := 0; l1 < 4; l1++ {
			for s2 := 0; s2 < 8; s2++ {
				for l2 := 0; l2 < 4; l2++ {
					a := Window{Start: origin.AddDays(s1), End: origin.AddDays(s1 + l1)}
					b := Window{Start: origin.AddDays(s2), End: origin.AddDays(s2 + l2)}
					require.Equal(t, expanded(a, b), a.Overlaps(b),
						"windows %v..%v vs %v..%v", a.Start, a.End, b.Start, b.End)
				}
			}
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := window("2026-06-10", "2026-06-20")

	assert.True(t, w.Contains(dateonly.New(2026, time.June, 10)), "start date inclusive")
	assert.True(t, w.Contains(dateonly.New(2026, time.June, 20)), "end date inclusive")
	assert.True(t, w.Contains(dateonly.New(2026, time.June, 15)))
	assert.False(t, w.Contains(dateonly.New(2026, time.June, 9)))
	assert.False(t, w.Contains(dateonly.New(2026, time.June, 21)))
}

func TestFindOverlap(t *testing.T) {
	roomID := uuid.New()
	existing := []SeasonRate{
		mustRate(t, RoomScope(roomID), window("2026-06-01", "2026-06-10")),
		mustRate(t, RoomScope(roomID), window("2026-07-01", "2026-07-10")),
	}

	t.Run("NoConflict", func(t *testing.T) {
		assert.Nil(t, FindOverlap(existing, window("2026-06-15", "2026-06-25"), uuid.Nil))
	})

	t.Run("TouchingEndpointConflicts", func(t *testing.T) {
		// New rate starting on an existing rate's end date is rejected.
		conflict := FindOverlap(existing, window("2026-06-10", "2026-06-15"), uuid.Nil)
		require.NotNil(t, conflict)
		assert.Equal(t, existing[0].ID, conflict.ID)
	})

	t.Run("ExcludeSelfOnUpdate", func(t *testing.T) {
		// Re-saving a rate over its own window must not conflict with itself.
		assert.Nil(t, FindOverlap(existing, window("2026-06-01", "2026-06-10"), existing[0].ID))
	})

	t.Run("ExcludedRateStillBlockedByOthers", func(t *testing.T) {
		conflict := FindOverlap(existing, window("2026-06-05", "2026-07-05"), existing[0].ID)
		require.NotNil(t, conflict)
		assert.Equal(t, existing[1].ID, conflict.ID)
	})
}

func TestNewSeasonRateValidation(t *testing.T) {
	roomID := uuid.New()

	t.Run("Valid", func(t *testing.T) {
		rate, err := NewSeasonRate(RoomScope(roomID), shared_models.RateTypePercentage, 20, window("2026-06-01", "2026-06-30"))
		require.NoError(t, err)
		assert.Equal(t, roomID, *rate.RoomID)
		assert.Nil(t, rate.PropertyID)
		assert.NotEqual(t, uuid.Nil, rate.ID)
	})

	t.Run("ZeroScope", func(t *testing.T) {
		_, err := NewSeasonRate(Scope{}, shared_models.RateTypeNominal, 700000, window("2026-06-01", "2026-06-30"))
		assert.ErrorIs(t, err, ErrInvalidScope)
	})

	t.Run("InvertedWindow", func(t *testing.T) {
		_, err := NewSeasonRate(RoomScope(roomID), shared_models.RateTypeNominal, 700000, window("2026-06-30", "2026-06-01"))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("BadType", func(t *testing.T) {
		_, err := NewSeasonRate(RoomScope(roomID), "FLAT", 10, window("2026-06-01", "2026-06-30"))
		assert.Error(t, err)
	})

	t.Run("NonPositiveValue", func(t *testing.T) {
		_, err := NewSeasonRate(RoomScope(roomID), shared_models.RateTypePercentage, 0, window("2026-06-01", "2026-06-30"))
		assert.Error(t, err)
	})
}

func mustRate(t *testing.T, scope Scope, w Window) SeasonRate {
	t.Helper()
	rate, err := NewSeasonRate(scope, shared_models.RateTypeNominal, 700000, w)
	require.NoError(t, err)
	return *rate
}
