package booking

import (
    "context"
    "time"
)

// Event describes a booking state change handed to the configured
// EventSink.  It carries enough information for downstream consumers
// to log or notify without querying the primary database.
type Event struct {
    BookingID  uint64
    RoomID     uint64
    UserID     uint64
    StartsAt   time.Time
    EndsAt     time.Time
    Status     string
    OccurredAt time.Time
}

// EventSink receives booking lifecycle events.  The sink is injected
// by the caller; the lifecycle service never knows which transport (a
// message broker, a websocket hub, a test recorder) sits behind it.
// Implementations must not block the request path on delivery
// problems; failures are theirs to log and absorb.
type EventSink interface {
    BookingCreated(ctx context.Context, ev Event)
    BookingRescheduled(ctx context.Context, ev Event)
    BookingCancelled(ctx context.Context, ev Event)
}

// NopSink discards all events.  It is the default sink when no
// transport is configured.
type NopSink struct{}

func (NopSink) BookingCreated(context.Context, Event)     {}
func (NopSink) BookingRescheduled(context.Context, Event) {}
func (NopSink) BookingCancelled(context.Context, Event)   {}
