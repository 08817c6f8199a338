package booking

import (
    "context"
    "time"

    "github.com/iliyamo/room-reservation/internal/availability"
    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// Store is the persistence surface the lifecycle service needs from
// booking storage.  The ConflictFree writes re-verify the overlap
// condition under a lock and return repository.ErrConflict when a
// concurrent booking won the race.
type Store interface {
    FindByID(ctx context.Context, id uint64) (*model.Booking, error)
    InsertConflictFree(ctx context.Context, b *model.Booking) error
    UpdateTimesConflictFree(ctx context.Context, id, roomID uint64, start, end time.Time) (*model.Booking, error)
    UpdateStatus(ctx context.Context, id uint64, status string) (*model.Booking, error)
    Detail(ctx context.Context, id uint64) (*repository.BookingDetail, error)
}

// Checker is the conflict primitive of the availability service.  Both
// creation and reschedule go through this single code path so their
// conflict semantics can never drift apart.
type Checker interface {
    IsRoomFree(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (bool, error)
}

// Service owns the booking state machine: bookings are created in
// CONFIRMED status, reschedule replaces the window in place, and
// CANCELLED is terminal.  All validation and conflict rules run before
// the single durable write of each operation, so a failed operation
// leaves no partial state behind.
type Service struct {
    store  Store
    avail  Checker
    events EventSink
    policy availability.Policy
}

// NewService builds a lifecycle Service.  A nil sink falls back to
// NopSink.
func NewService(store Store, avail Checker, events EventSink, policy availability.Policy) *Service {
    if store == nil || avail == nil {
        panic("nil dependency passed to booking.NewService")
    }
    if events == nil {
        events = NopSink{}
    }
    return &Service{store: store, avail: avail, events: events, policy: policy.Normalize()}
}

// validateWindow applies the shared window rules: ordered bounds,
// duration within policy, start not yet elapsed.
func (s *Service) validateWindow(start, end time.Time) error {
    if !start.Before(end) {
        return ErrInvalidWindow
    }
    if !availability.ValidDuration(start, end, s.policy.MinBookingMinutes, s.policy.MaxBookingHours) {
        return ErrDurationOutOfRange
    }
    if availability.IsInPast(start) {
        return ErrPastBooking
    }
    return nil
}

// Create validates and persists a new CONFIRMED booking for
// requesterID.  The availability check and the write share the same
// conflict semantics: a window occupied at check time yields a
// ConflictError, and so does a conflicting write that lands between
// the check and our insert.  Room existence and active state are
// verified by the availability service (ErrRoomNotFound,
// availability.ErrRoomInactive).
func (s *Service) Create(ctx context.Context, roomID uint64, start, end time.Time, requesterID uint64) (*repository.BookingDetail, error) {
    if err := s.validateWindow(start, end); err != nil {
        return nil, err
    }
    free, err := s.avail.IsRoomFree(ctx, roomID, start, end, 0)
    if err != nil {
        return nil, err
    }
    if !free {
        return nil, &ConflictError{RoomID: roomID, Start: start, End: end}
    }
    b := &model.Booking{
        RoomID:   roomID,
        UserID:   requesterID,
        StartsAt: start,
        EndsAt:   end,
        Status:   model.BookingStatusConfirmed,
    }
    if err := s.store.InsertConflictFree(ctx, b); err != nil {
        if err == repository.ErrConflict {
            return nil, &ConflictError{RoomID: roomID, Start: start, End: end}
        }
        return nil, err
    }
    s.events.BookingCreated(ctx, eventFrom(b))
    return s.store.Detail(ctx, b.ID)
}

// Reschedule moves an existing booking to a new window.  Only the
// booking's owner or an admin may move it, a booking whose start has
// already elapsed can no longer be moved, and the conflict check
// excludes the booking itself so it is never flagged against its own
// current window.
func (s *Service) Reschedule(ctx context.Context, bookingID uint64, newStart, newEnd time.Time, requesterID uint64, requesterRole string) (*repository.BookingDetail, error) {
    if err := s.validateWindow(newStart, newEnd); err != nil {
        return nil, err
    }
    b, err := s.store.FindByID(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if err := authorize(b, requesterID, requesterRole); err != nil {
        return nil, err
    }
    if !b.IsLive() {
        return nil, repository.ErrConflict
    }
    if availability.IsInPast(b.StartsAt) {
        return nil, ErrPastBooking
    }
    free, err := s.avail.IsRoomFree(ctx, b.RoomID, newStart, newEnd, bookingID)
    if err != nil {
        return nil, err
    }
    if !free {
        return nil, &ConflictError{RoomID: b.RoomID, Start: newStart, End: newEnd}
    }
    moved, err := s.store.UpdateTimesConflictFree(ctx, bookingID, b.RoomID, newStart, newEnd)
    if err != nil {
        if err == repository.ErrConflict {
            return nil, &ConflictError{RoomID: b.RoomID, Start: newStart, End: newEnd}
        }
        return nil, err
    }
    s.events.BookingRescheduled(ctx, eventFrom(moved))
    return s.store.Detail(ctx, bookingID)
}

// Cancel marks a booking cancelled.  Only the owner or an admin may
// cancel, a booking that has already started cannot be retroactively
// cancelled, and cancelling an already-cancelled booking is a state
// conflict.  The window is retained on the row for audit.
func (s *Service) Cancel(ctx context.Context, bookingID, requesterID uint64, requesterRole string) (*repository.BookingDetail, error) {
    b, err := s.store.FindByID(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if err := authorize(b, requesterID, requesterRole); err != nil {
        return nil, err
    }
    if !b.IsLive() {
        return nil, repository.ErrConflict
    }
    if availability.IsInPast(b.StartsAt) {
        return nil, ErrPastBooking
    }
    cancelled, err := s.store.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled)
    if err != nil {
        return nil, err
    }
    s.events.BookingCancelled(ctx, eventFrom(cancelled))
    return s.store.Detail(ctx, bookingID)
}

// authorize enforces the owner-or-admin rule shared by reschedule and
// cancel.
func authorize(b *model.Booking, requesterID uint64, role string) error {
    if b.UserID == requesterID || role == model.RoleAdmin {
        return nil
    }
    return repository.ErrForbidden
}

func eventFrom(b *model.Booking) Event {
    return Event{
        BookingID:  b.ID,
        RoomID:     b.RoomID,
        UserID:     b.UserID,
        StartsAt:   b.StartsAt,
        EndsAt:     b.EndsAt,
        Status:     b.Status,
        OccurredAt: time.Now().UTC(),
    }
}
