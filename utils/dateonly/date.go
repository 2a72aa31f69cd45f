// Package dateonly provides a calendar-date value type for booking ranges.
// Stays are date-granular; carrying a time-of-day around invites off-by-one
// bugs across timezones, so everything in the core works in whole days UTC.
package dateonly

import (
	"encoding/json"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
type Date struct {
	t time.Time
}

// New returns the given calendar date.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// FromTime truncates a time.Time (as scanned from a SQL date column) to
// its calendar date.
func FromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return New(y, m, d)
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) String() string     { return d.t.Format(Layout) }
func (d Date) Time() time.Time    { return d.t }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysUntil returns the number of whole days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
