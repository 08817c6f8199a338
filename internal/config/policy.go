package config

// This file loads the scheduling policy that governs slot generation and
// booking validation.  All values are optional; availability.Policy
// normalizes zero values back to the defaults (09:00–18:00 business day,
// 30 minute slots, bookings between 30 minutes and 120 hours).

import (
    "github.com/iliyamo/room-reservation/internal/availability"
)

// LoadBookingPolicy reads the scheduling policy from environment variables:
//   OPENING_HOUR / CLOSING_HOUR – business day bounds (0..24)
//   SLOT_MINUTES – slot width for availability grids
//   MIN_BOOKING_MINUTES / MAX_BOOKING_HOURS – booking duration bounds
func LoadBookingPolicy() availability.Policy {
    return availability.Policy{
        OpeningHour:       envInt("OPENING_HOUR", 0),
        ClosingHour:       envInt("CLOSING_HOUR", 0),
        SlotMinutes:       envInt("SLOT_MINUTES", 0),
        MinBookingMinutes: envInt("MIN_BOOKING_MINUTES", 0),
        MaxBookingHours:   envInt("MAX_BOOKING_HOURS", 0),
    }.Normalize()
}
