package season_rate_models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/staynest/booking/utils/dateonly"
)

var (
	// ErrInvalidScope is returned when a rate names both or neither of
	// room and property.
	ErrInvalidScope = errors.New("season rate must target exactly one of room or property")
	// ErrInvalidWindow is returned when endDate precedes startDate.
	ErrInvalidWindow = errors.New("season rate end date must not be before start date")
)

// ScopeKind discriminates what a season rate is attached to.
type ScopeKind string

const (
	ScopeRoom     ScopeKind = "room"
	ScopeProperty ScopeKind = "property"
)

// Scope is a tagged variant: a season rate belongs to exactly one room or
// exactly one property. Constructing it through RoomScope/PropertyScope makes
// "both" and "neither" unrepresentable.
type Scope struct {
	kind ScopeKind
	id   uuid.UUID
}

// RoomScope returns a scope targeting a single room.
func RoomScope(roomID uuid.UUID) Scope {
	return Scope{kind: ScopeRoom, id: roomID}
}

// PropertyScope returns a scope targeting a whole property.
func PropertyScope(propertyID uuid.UUID) Scope {
	return Scope{kind: ScopeProperty, id: propertyID}
}

// ScopeFromIDs builds a scope from optional room/property IDs as they arrive
// on the wire, rejecting both-set and neither-set.
func ScopeFromIDs(roomID, propertyID *uuid.UUID) (Scope, error) {
	hasRoom := roomID != nil && *roomID != uuid.Nil
	hasProperty := propertyID != nil && *propertyID != uuid.Nil

	switch {
	case hasRoom && hasProperty:
		return Scope{}, ErrInvalidScope
	case hasRoom:
		return RoomScope(*roomID), nil
	case hasProperty:
		return PropertyScope(*propertyID), nil
	default:
		return Scope{}, ErrInvalidScope
	}
}

func (s Scope) Kind() ScopeKind { return s.kind }
func (s Scope) ID() uuid.UUID   { return s.id }
func (s Scope) IsZero() bool    { return s.kind == "" }

// Column returns the season_rates column holding this scope's target ID.
func (s Scope) Column() string {
	if s.kind == ScopeProperty {
		return "property_id"
	}
	return "room_id"
}

// AnchorTable returns the table whose target row serializes all rate writes
// for this scope.
func (s Scope) AnchorTable() string {
	if s.kind == ScopeProperty {
		return "properties"
	}
	return "rooms"
}

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start dateonly.Date `json:"start_date"`
	End   dateonly.Date `json:"end_date"`
}

// Validate rejects windows whose end precedes their start.
func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps reports whether two inclusive windows overlap. Touching endpoints
// count as overlap: two rates may not share a boundary date.
func (w Window) Overlaps(o Window) bool {
	return !(w.End.Before(o.Start) || w.Start.After(o.End))
}

// Contains reports whether d falls inside the window, endpoints included.
func (w Window) Contains(d dateonly.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// FindOverlap returns the first existing rate whose window overlaps the
// proposed one, skipping excludeID (the rate being updated). A nil result
// means the proposed window is admissible.
func FindOverlap(existing []SeasonRate, proposed Window, excludeID uuid.UUID) *SeasonRate {
	for i := range existing {
		if excludeID != uuid.Nil && existing[i].ID == excludeID {
			continue
		}
		if proposed.Overlaps(existing[i].Window()) {
			return &existing[i]
		}
	}
	return nil
}
