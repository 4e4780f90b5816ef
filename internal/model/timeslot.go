package model

import "time"

// TimeSlot is a half-open time interval [StartTime, EndTime).
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Overlaps reports whether two slots share any time. Intervals are
// half-open, so slots that merely touch at an endpoint do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// IsZero reports whether the slot is unset.
func (s TimeSlot) IsZero() bool {
	return s.StartTime.IsZero() && s.EndTime.IsZero()
}

// AnyOverlap reports whether any slot in a overlaps any slot in b.
func AnyOverlap(a, b []TimeSlot) bool {
	for _, sa := range a {
		for _, sb := range b {
			if sa.Overlaps(sb) {
				return true
			}
		}
	}
	return false
}
