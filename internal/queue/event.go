// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// Event types carried in BookingEvent.Type.
const (
    EventBookingCreated     = "booking.created"
    EventBookingRescheduled = "booking.rescheduled"
    EventBookingCancelled   = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created, rescheduled or
// cancelled. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type BookingEvent struct {
    EventID    string `json:"event_id"` // unique id for consumer-side dedup
    Type       string `json:"type"`     // booking.created | booking.rescheduled | booking.cancelled
    BookingID  uint64 `json:"booking_id"`
    RoomID     uint64 `json:"room_id"`
    UserID     uint64 `json:"user_id"`
    StartsAt   string `json:"starts_at"` // RFC3339
    EndsAt     string `json:"ends_at"`   // RFC3339
    Status     string `json:"status"`
    OccurredAt string `json:"occurred_at"` // RFC3339
}

// NewBookingEvent assembles a BookingEvent with a fresh event id.
func NewBookingEvent(typ string, bookingID, roomID, userID uint64, startsAt, endsAt time.Time, status string, occurredAt time.Time) BookingEvent {
    return BookingEvent{
        EventID:    uuid.NewString(),
        Type:       typ,
        BookingID:  bookingID,
        RoomID:     roomID,
        UserID:     userID,
        StartsAt:   startsAt.UTC().Format(time.RFC3339),
        EndsAt:     endsAt.UTC().Format(time.RFC3339),
        Status:     status,
        OccurredAt: occurredAt.UTC().Format(time.RFC3339),
    }
}
