package model

import "time"

// Room represents a bookable meeting room.  Rooms are created and
// maintained by administrators; only active rooms may receive new
// bookings.  Deactivating a room is a soft operation that leaves
// existing bookings untouched, while deletion removes the room
// permanently and is refused while live bookings still reference it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique, non-empty room name.
//  Capacity  – number of seats; always positive.
//  Amenities – free-form amenity labels (projector, whiteboard, ...).
//  IsActive  – whether the room accepts new bookings.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
    ID        uint64    // rooms.id
    Name      string    // rooms.name
    Capacity  uint32    // rooms.capacity
    Amenities []string  // rooms.amenities (stored as a comma-separated list)
    IsActive  bool      // rooms.is_active
    CreatedAt time.Time // rooms.created_at
    UpdatedAt time.Time // rooms.updated_at
}
