// Package availability implements the room availability engine: the
// half-open interval overlap test, booking window validation, free
// slot generation within business hours, and the read-only service
// that answers "is this room free" and "what slots are open" against
// persisted bookings.  Every conflict decision in the system reduces
// to Overlaps; no other code compares booking windows directly.
package availability

import "time"

// TimeSlot is a transient start/end pair describing either a requested
// booking window or a computed free interval.  It is never persisted.
// The interval is half-open: Start is included, End is excluded, so a
// booking ending exactly when another starts does not conflict.
type TimeSlot struct {
    Start           time.Time `json:"start"`
    End             time.Time `json:"end"`
    DurationMinutes int       `json:"duration_minutes"`
}

// NewTimeSlot builds a TimeSlot with its derived duration.
func NewTimeSlot(start, end time.Time) TimeSlot {
    return TimeSlot{
        Start:           start,
        End:             end,
        DurationMinutes: int(end.Sub(start) / time.Minute),
    }
}

// Overlaps reports whether the half-open intervals
// [existingStart, existingEnd) and [newStart, newEnd) intersect.
// Back-to-back windows sharing a boundary instant do not overlap.
func Overlaps(existingStart, existingEnd, newStart, newEnd time.Time) bool {
    return newStart.Before(existingEnd) && newEnd.After(existingStart)
}

// IsInPast reports whether t is strictly before the current instant.
// The comparison is exact to the instant; there is deliberately no
// day-level truncation so that a 09:00 window cannot be booked at
// 10:00 on the same day.
func IsInPast(t time.Time) bool {
    return t.Before(time.Now())
}

// ValidDuration reports whether the window [start, end) lasts at least
// minMinutes and at most maxHours.  Callers must already have rejected
// windows where start is not strictly before end.
func ValidDuration(start, end time.Time, minMinutes, maxHours int) bool {
    d := end.Sub(start)
    if d < time.Duration(minMinutes)*time.Minute {
        return false
    }
    return d <= time.Duration(maxHours)*time.Hour
}

// DayKey formats t as its canonical "YYYY-MM-DD" calendar day in the
// time's own location.  Bookings are bucketed by this wall-clock day
// when generating slots.
func DayKey(t time.Time) string {
    return t.Format("2006-01-02")
}
