// Package booking owns the booking lifecycle: creation, reschedule and
// cancellation, with every validation and conflict rule applied before
// a write is committed. This file defines the validation errors the
// lifecycle can return. Together with the repository sentinels
// (ErrConflict, ErrForbidden, ErrRoomNotFound, ErrBookingNotFound) and
// availability.ErrRoomInactive they form the closed set of failure
// kinds callers need to distinguish; anything else is an unexpected
// infrastructure error.
package booking

import (
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/room-reservation/internal/repository"
)

// ErrInvalidWindow is returned when a requested window's start is not
// strictly before its end.
var ErrInvalidWindow = errors.New("start must be before end")

// ErrDurationOutOfRange is returned when a window is shorter than the
// minimum or longer than the maximum allowed booking duration.
var ErrDurationOutOfRange = errors.New("booking duration out of range")

// ErrPastBooking is returned when an operation would create, move or
// act on a booking whose relevant start instant has already elapsed.
var ErrPastBooking = errors.New("booking start is in the past")

// ConflictError reports that a requested window overlaps a live
// booking for the room. It wraps repository.ErrConflict so that
// errors.Is(err, repository.ErrConflict) holds whether the conflict
// was detected by the availability pre-check or by the write-time
// exclusion check; callers cannot tell the two apart.
type ConflictError struct {
    RoomID uint64
    Start  time.Time
    End    time.Time
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("room %d is occupied between %s and %s",
        e.RoomID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error { return repository.ErrConflict }
