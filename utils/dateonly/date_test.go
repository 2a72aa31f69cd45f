package dateonly

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.String())

	_, err = Parse("15-03-2026")
	assert.Error(t, err)

	_, err = Parse("2026-02-30")
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	a := New(2026, time.March, 15)
	b := New(2026, time.March, 16)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(New(2026, time.March, 15)))
}

func TestArithmetic(t *testing.T) {
	a := New(2026, time.March, 30)

	assert.Equal(t, "2026-04-02", a.AddDays(3).String())
	assert.Equal(t, 3, a.DaysUntil(a.AddDays(3)))
	assert.Equal(t, -1, a.DaysUntil(a.AddDays(-1)))
	assert.Equal(t, 0, a.DaysUntil(a))
}

func TestFromTimeDropsClock(t *testing.T) {
	ts := time.Date(2026, time.July, 4, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-07-04", FromTime(ts).String())
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2026, time.December, 31)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-12-31"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &bad))
}
