package model

import "time"

// Booking statuses.  A booking is created directly in CONFIRMED status;
// PENDING and ACTIVE exist so that a future approval or check-in flow
// can be introduced without a schema change.  CANCELLED is terminal.
const (
    BookingStatusPending   = "PENDING"
    BookingStatusConfirmed = "CONFIRMED"
    BookingStatusActive    = "ACTIVE"
    BookingStatusCancelled = "CANCELLED"
)

// LiveStatuses enumerates the statuses that occupy a room for
// availability purposes.  Cancelled bookings never block a window.
var LiveStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusActive}

// Booking records a user's reservation of a room for a half-open time
// window [StartsAt, EndsAt).  StartsAt is always strictly before
// EndsAt.  A reschedule replaces the window in place; a cancellation
// flips the status and keeps the window for audit.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reserved.
//  UserID    – user who owns the booking.
//  StartsAt  – when the booking begins (inclusive).
//  EndsAt    – when the booking ends (exclusive).
//  Status    – one of the status constants above.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
    ID        uint64    // bookings.id
    RoomID    uint64    // bookings.room_id
    UserID    uint64    // bookings.user_id
    StartsAt  time.Time // bookings.starts_at
    EndsAt    time.Time // bookings.ends_at
    Status    string    // bookings.status
    CreatedAt time.Time // bookings.created_at
    UpdatedAt time.Time // bookings.updated_at
}

// IsLive reports whether the booking currently occupies its room.
func (b *Booking) IsLive() bool {
    return b.Status != BookingStatusCancelled
}
