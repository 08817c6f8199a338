package availability

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// fakeRooms serves rooms from a map, mirroring the repository contract.
type fakeRooms struct {
    rooms map[uint64]model.Room
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
    r, ok := f.rooms[id]
    if !ok {
        return nil, repository.ErrRoomNotFound
    }
    return &r, nil
}

func (f *fakeRooms) ListActive(_ context.Context) ([]model.Room, error) {
    out := []model.Room{}
    for _, r := range f.rooms {
        if r.IsActive {
            out = append(out, r)
        }
    }
    return out, nil
}

// fakeBookings serves live bookings from a slice, applying the same
// overlap and day filters as the SQL queries.
type fakeBookings struct {
    bookings []model.Booking
    calls    int
}

func (f *fakeBookings) FindLiveOverlapping(_ context.Context, roomID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error) {
    f.calls++
    out := []model.Booking{}
    for _, b := range f.bookings {
        if b.RoomID != roomID || !b.IsLive() || b.ID == excludeID {
            continue
        }
        if Overlaps(b.StartsAt, b.EndsAt, start, end) {
            out = append(out, b)
        }
    }
    return out, nil
}

func (f *fakeBookings) FindByRoomAndDay(ctx context.Context, roomID uint64, day time.Time) ([]model.Booking, error) {
    dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
    return f.FindLiveOverlapping(ctx, roomID, dayStart, dayStart.Add(24*time.Hour), 0)
}

func (f *fakeBookings) FindAllLiveByDay(_ context.Context, day time.Time) ([]model.Booking, error) {
    f.calls++
    dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
    out := []model.Booking{}
    for _, b := range f.bookings {
        if b.IsLive() && Overlaps(b.StartsAt, b.EndsAt, dayStart, dayStart.Add(24*time.Hour)) {
            out = append(out, b)
        }
    }
    return out, nil
}

var testDay = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

func testRooms() *fakeRooms {
    return &fakeRooms{rooms: map[uint64]model.Room{
        1: {ID: 1, Name: "Aurora", Capacity: 8, IsActive: true},
        2: {ID: 2, Name: "Borealis", Capacity: 4, IsActive: true},
        3: {ID: 3, Name: "Cellar", Capacity: 2, IsActive: false},
    }}
}

func liveBooking(id, roomID uint64, startMin, endMin int) model.Booking {
    return model.Booking{
        ID:       id,
        RoomID:   roomID,
        UserID:   7,
        StartsAt: testDay.Add(time.Duration(startMin) * time.Minute),
        EndsAt:   testDay.Add(time.Duration(endMin) * time.Minute),
        Status:   model.BookingStatusConfirmed,
    }
}

func TestIsRoomFree(t *testing.T) {
    bookings := &fakeBookings{bookings: []model.Booking{
        liveBooking(10, 1, 14*60, 15*60),
    }}
    svc := NewService(testRooms(), bookings, DefaultPolicy())
    ctx := context.Background()

    free, err := svc.IsRoomFree(ctx, 1, testDay.Add(15*time.Hour), testDay.Add(16*time.Hour), 0)
    require.NoError(t, err)
    assert.True(t, free, "window adjacent to the booking must be free")

    free, err = svc.IsRoomFree(ctx, 1, testDay.Add(14*time.Hour+30*time.Minute), testDay.Add(15*time.Hour+30*time.Minute), 0)
    require.NoError(t, err)
    assert.False(t, free)

    // The booking must never be matched against itself during reschedule.
    free, err = svc.IsRoomFree(ctx, 1, testDay.Add(14*time.Hour+30*time.Minute), testDay.Add(15*time.Hour+30*time.Minute), 10)
    require.NoError(t, err)
    assert.True(t, free)
}

func TestIsRoomFree_CancelledBookingDoesNotBlock(t *testing.T) {
    cancelled := liveBooking(11, 1, 14*60, 15*60)
    cancelled.Status = model.BookingStatusCancelled
    svc := NewService(testRooms(), &fakeBookings{bookings: []model.Booking{cancelled}}, DefaultPolicy())

    free, err := svc.IsRoomFree(context.Background(), 1, testDay.Add(14*time.Hour), testDay.Add(15*time.Hour), 0)
    require.NoError(t, err)
    assert.True(t, free)
}

func TestIsRoomFree_RoomErrors(t *testing.T) {
    svc := NewService(testRooms(), &fakeBookings{}, DefaultPolicy())
    ctx := context.Background()

    _, err := svc.IsRoomFree(ctx, 99, testDay.Add(9*time.Hour), testDay.Add(10*time.Hour), 0)
    assert.ErrorIs(t, err, repository.ErrRoomNotFound)

    _, err = svc.IsRoomFree(ctx, 3, testDay.Add(9*time.Hour), testDay.Add(10*time.Hour), 0)
    assert.ErrorIs(t, err, ErrRoomInactive)
}

func TestFreeSlotsForRoom(t *testing.T) {
    bookings := &fakeBookings{bookings: []model.Booking{
        liveBooking(10, 1, 10*60, 11*60),
    }}
    svc := NewService(testRooms(), bookings, DefaultPolicy())

    slots, err := svc.FreeSlotsForRoom(context.Background(), 1, testDay)
    require.NoError(t, err)
    assert.Len(t, slots, 16)
}

func TestFreeSlotsForRoom_Inactive(t *testing.T) {
    svc := NewService(testRooms(), &fakeBookings{}, DefaultPolicy())
    ctx := context.Background()

    _, err := svc.FreeSlotsForRoom(ctx, 3, testDay)
    assert.ErrorIs(t, err, ErrRoomInactive)

    // The audit entry point still serves deactivated rooms.
    slots, err := svc.FreeSlotsForRoomAudit(ctx, 3, testDay)
    require.NoError(t, err)
    assert.Len(t, slots, 18)

    _, err = svc.FreeSlotsForRoomAudit(ctx, 99, testDay)
    assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestFreeSlotsForAllActiveRooms(t *testing.T) {
    // Room 1 is fully booked 9-18; room 2 has one busy hour; room 3 is
    // inactive and must not appear at all.
    bookings := &fakeBookings{bookings: []model.Booking{
        liveBooking(10, 1, 9*60, 18*60),
        liveBooking(11, 2, 10*60, 11*60),
        liveBooking(12, 3, 10*60, 11*60),
    }}
    svc := NewService(testRooms(), bookings, DefaultPolicy())
    ctx := context.Background()

    out, err := svc.FreeSlotsForAllActiveRooms(ctx, testDay, false)
    require.NoError(t, err)
    require.Len(t, out, 1, "the fully booked room is dropped by default")
    assert.Equal(t, uint64(2), out[0].Room.ID)
    assert.Len(t, out[0].Slots, 16)

    // Exactly two source queries regardless of room count.
    bookings.calls = 0
    out, err = svc.FreeSlotsForAllActiveRooms(ctx, testDay, true)
    require.NoError(t, err)
    assert.Equal(t, 1, bookings.calls)
    require.Len(t, out, 2)
    for _, rs := range out {
        if rs.Room.ID == 1 {
            assert.Empty(t, rs.Slots)
        }
    }
}
