package availability

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// ErrRoomInactive is returned when an availability read targets a room
// that exists but has been deactivated.  It is a policy refusal, not a
// not-found: only the audit entry points accept inactive rooms.
var ErrRoomInactive = errors.New("room inactive")

// BookingSource is the read surface the availability engine needs from
// booking persistence.  All methods consider live bookings only
// (PENDING, CONFIRMED or ACTIVE); cancelled bookings are invisible here.
type BookingSource interface {
    // FindLiveOverlapping returns live bookings for roomID whose window
    // overlaps [start, end), skipping excludeID when non-zero.
    FindLiveOverlapping(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error)
    // FindByRoomAndDay returns live bookings for roomID on the calendar day of day.
    FindByRoomAndDay(ctx context.Context, roomID uint64, day time.Time) ([]model.Booking, error)
    // FindAllLiveByDay returns live bookings across all rooms on the calendar day of day.
    FindAllLiveByDay(ctx context.Context, day time.Time) ([]model.Booking, error)
}

// RoomSource is the read surface the availability engine needs from
// room persistence.
type RoomSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Room, error)
    ListActive(ctx context.Context) ([]model.Room, error)
}

// Service answers availability questions by combining persisted
// bookings with the slot generator.  It is strictly read-only.
type Service struct {
    rooms    RoomSource
    bookings BookingSource
    policy   Policy
}

// NewService builds an availability Service.  The policy is normalized
// so that zero-valued fields fall back to the defaults.
func NewService(rooms RoomSource, bookings BookingSource, policy Policy) *Service {
    if rooms == nil || bookings == nil {
        panic("nil source passed to availability.NewService")
    }
    return &Service{rooms: rooms, bookings: bookings, policy: policy.Normalize()}
}

// Policy exposes the normalized scheduling policy in effect.
func (s *Service) Policy() Policy { return s.policy }

// IsRoomFree reports whether roomID has no live booking overlapping
// [start, end).  excludeID, when non-zero, names a booking to ignore;
// the reschedule path uses it so a booking is never matched against
// itself.  This is the canonical conflict check for both creation and
// reschedule.  It fails with the room repository's not-found error
// when the room does not exist and with ErrRoomInactive when the room
// is deactivated.
func (s *Service) IsRoomFree(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (bool, error) {
    room, err := s.rooms.GetByID(ctx, roomID)
    if err != nil {
        return false, err
    }
    if !room.IsActive {
        return false, ErrRoomInactive
    }
    overlapping, err := s.bookings.FindLiveOverlapping(ctx, roomID, start, end, excludeID)
    if err != nil {
        return false, err
    }
    return len(overlapping) == 0, nil
}

// FreeSlotsForRoom returns the free slots of the given room on the
// calendar day of day, honoring the configured business hours.  It
// refuses inactive rooms; admins auditing a deactivated room use
// FreeSlotsForRoomAudit instead.
func (s *Service) FreeSlotsForRoom(ctx context.Context, roomID uint64, day time.Time) ([]TimeSlot, error) {
    room, err := s.rooms.GetByID(ctx, roomID)
    if err != nil {
        return nil, err
    }
    if !room.IsActive {
        return nil, ErrRoomInactive
    }
    return s.slotsFor(ctx, roomID, day)
}

// FreeSlotsForRoomAudit behaves like FreeSlotsForRoom but accepts
// deactivated rooms.  It still verifies that the room exists.
func (s *Service) FreeSlotsForRoomAudit(ctx context.Context, roomID uint64, day time.Time) ([]TimeSlot, error) {
    if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
        return nil, err
    }
    return s.slotsFor(ctx, roomID, day)
}

func (s *Service) slotsFor(ctx context.Context, roomID uint64, day time.Time) ([]TimeSlot, error) {
    bookings, err := s.bookings.FindByRoomAndDay(ctx, roomID, day)
    if err != nil {
        return nil, err
    }
    return FreeSlots(busyIntervals(bookings), day, s.policy.OpeningHour, s.policy.ClosingHour, s.policy.SlotMinutes)
}

// RoomSlots pairs a room with its free slots for one day.
type RoomSlots struct {
    Room  model.Room `json:"room"`
    Slots []TimeSlot `json:"slots"`
}

// FreeSlotsForAllActiveRooms computes the free slots of every active
// room on the day.  It issues exactly two queries (active rooms, live
// bookings for the day) and partitions the bookings by room in memory.
// Rooms with no free slot are dropped unless includeFull is set.
func (s *Service) FreeSlotsForAllActiveRooms(ctx context.Context, day time.Time, includeFull bool) ([]RoomSlots, error) {
    rooms, err := s.rooms.ListActive(ctx)
    if err != nil {
        return nil, err
    }
    bookings, err := s.bookings.FindAllLiveByDay(ctx, day)
    if err != nil {
        return nil, err
    }
    byRoom := make(map[uint64][]model.Booking, len(rooms))
    for _, b := range bookings {
        byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
    }
    out := make([]RoomSlots, 0, len(rooms))
    for _, room := range rooms {
        slots, err := FreeSlots(busyIntervals(byRoom[room.ID]), day, s.policy.OpeningHour, s.policy.ClosingHour, s.policy.SlotMinutes)
        if err != nil {
            return nil, err
        }
        if len(slots) == 0 && !includeFull {
            continue
        }
        out = append(out, RoomSlots{Room: room, Slots: slots})
    }
    return out, nil
}

// busyIntervals projects bookings onto their occupied time windows.
func busyIntervals(bookings []model.Booking) []TimeSlot {
    busy := make([]TimeSlot, 0, len(bookings))
    for _, b := range bookings {
        busy = append(busy, NewTimeSlot(b.StartsAt, b.EndsAt))
    }
    return busy
}
