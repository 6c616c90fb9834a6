package model

import (
	"time"

	"food-rescue-marketplace/internal/domain"
)

// PickupWindow is the time range during which a reserved offer can be
// collected. Start must be strictly before End.
type PickupWindow struct {
	Start time.Time
	End   time.Time
}

func NewPickupWindow(start, end time.Time) (PickupWindow, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return PickupWindow{}, domain.ErrInvalidArgument
	}
	return PickupWindow{Start: start, End: end}, nil
}

// Open reports whether the window has not yet closed at the given instant.
func (w PickupWindow) Open(now time.Time) bool {
	return now.Before(w.End)
}

func (w PickupWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w PickupWindow) Equals(other PickupWindow) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}
