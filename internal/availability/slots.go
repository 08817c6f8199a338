package availability

import (
    "errors"
    "fmt"
    "time"
)

// ErrBadHours is returned when slot generation is requested with a
// closing hour that does not come after the opening hour, or with a
// non-positive slot width.  Misconfiguration must surface loudly
// rather than silently yield an empty day.
var ErrBadHours = errors.New("invalid business hours")

// Policy carries the configurable scheduling rules: the business-hour
// window inside which slots are generated, the fixed slot width, and
// the allowed booking duration bounds.  Zero values are replaced by
// the defaults below via Normalize.
type Policy struct {
    OpeningHour       int // first bookable hour of the day (default 9)
    ClosingHour       int // hour at which the day closes (default 18)
    SlotMinutes       int // uniform slot width in minutes (default 30)
    MinBookingMinutes int // shortest allowed booking (default 30)
    MaxBookingHours   int // longest allowed booking (default 120)
}

// DefaultPolicy returns the standard 9-18 business day with 30-minute
// slots and booking durations between 30 minutes and 120 hours.
func DefaultPolicy() Policy {
    return Policy{
        OpeningHour:       9,
        ClosingHour:       18,
        SlotMinutes:       30,
        MinBookingMinutes: 30,
        MaxBookingHours:   120,
    }
}

// Normalize fills unset fields with their defaults and returns the
// resulting policy.
func (p Policy) Normalize() Policy {
    def := DefaultPolicy()
    if p.OpeningHour == 0 && p.ClosingHour == 0 {
        p.OpeningHour, p.ClosingHour = def.OpeningHour, def.ClosingHour
    }
    if p.SlotMinutes <= 0 {
        p.SlotMinutes = def.SlotMinutes
    }
    if p.MinBookingMinutes <= 0 {
        p.MinBookingMinutes = def.MinBookingMinutes
    }
    if p.MaxBookingHours <= 0 {
        p.MaxBookingHours = def.MaxBookingHours
    }
    return p
}

// FreeSlots computes the ordered free intervals of width slotMinutes
// between openingHour and closingHour on the calendar day of `day`,
// given the busy intervals already booked.  Busy intervals are matched
// against the business window by overlap, so a booking that started
// the previous evening and runs into the morning still blocks the
// slots it covers.  A candidate slot is free iff it overlaps no busy
// interval; a busy interval ending exactly on a slot boundary does not
// block the slot that starts there.
//
// The discretization is deliberately coarse: when a busy interval
// starts or ends mid-slot, the whole covering slot is reported busy
// and no partial slot is emitted.
func FreeSlots(busy []TimeSlot, day time.Time, openingHour, closingHour, slotMinutes int) ([]TimeSlot, error) {
    if closingHour <= openingHour || openingHour < 0 || closingHour > 24 {
        return nil, fmt.Errorf("%w: opening=%d closing=%d", ErrBadHours, openingHour, closingHour)
    }
    if slotMinutes <= 0 {
        return nil, fmt.Errorf("%w: slot_minutes=%d", ErrBadHours, slotMinutes)
    }

    loc := day.Location()
    dayStart := time.Date(day.Year(), day.Month(), day.Day(), openingHour, 0, 0, 0, loc)
    dayEnd := time.Date(day.Year(), day.Month(), day.Day(), closingHour, 0, 0, 0, loc)

    // Keep only busy intervals that intrude into the business window.
    relevant := busy[:0:0]
    for _, b := range busy {
        if Overlaps(b.Start, b.End, dayStart, dayEnd) {
            relevant = append(relevant, b)
        }
    }

    width := time.Duration(slotMinutes) * time.Minute
    free := make([]TimeSlot, 0, int(dayEnd.Sub(dayStart)/width))
    for t := dayStart; !t.Add(width).After(dayEnd); t = t.Add(width) {
        slotEnd := t.Add(width)
        if !overlapsAny(t, slotEnd, relevant) {
            free = append(free, NewTimeSlot(t, slotEnd))
        }
    }
    return free, nil
}

// overlapsAny reports whether [start, end) intersects any busy interval.
func overlapsAny(start, end time.Time, busy []TimeSlot) bool {
    for _, b := range busy {
        if Overlaps(b.Start, b.End, start, end) {
            return true
        }
    }
    return false
}
