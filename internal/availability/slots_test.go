package availability

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFreeSlots_EmptyDay(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

    slots, err := FreeSlots(nil, day, 9, 18, 30)
    require.NoError(t, err)
    require.Len(t, slots, 18)

    first := slots[0]
    assert.True(t, first.Start.Equal(day.Add(9*time.Hour)))
    assert.True(t, first.End.Equal(day.Add(9*time.Hour+30*time.Minute)))

    last := slots[len(slots)-1]
    assert.True(t, last.Start.Equal(day.Add(17*time.Hour+30*time.Minute)))
    assert.True(t, last.End.Equal(day.Add(18*time.Hour)))

    for _, s := range slots {
        assert.Equal(t, 30, s.DurationMinutes)
    }
}

func TestFreeSlots_BusyHourRemovesTwoSlots(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
    busy := []TimeSlot{NewTimeSlot(day.Add(10*time.Hour), day.Add(11*time.Hour))}

    slots, err := FreeSlots(busy, day, 9, 18, 30)
    require.NoError(t, err)
    require.Len(t, slots, 16)

    for _, s := range slots {
        assert.False(t, Overlaps(busy[0].Start, busy[0].End, s.Start, s.End),
            "slot starting %s should not intersect the busy hour", s.Start)
    }
}

func TestFreeSlots_BusyEndOnBoundaryDoesNotBlockNextSlot(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
    busy := []TimeSlot{NewTimeSlot(day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour))}

    slots, err := FreeSlots(busy, day, 9, 18, 30)
    require.NoError(t, err)
    require.Len(t, slots, 17)

    // The 10:00 slot starts exactly where the busy interval ends; half-open
    // semantics keep it free.
    assert.True(t, slots[1].Start.Equal(day.Add(10*time.Hour)))
}

func TestFreeSlots_MidSlotBusyBlocksCoveringSlots(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
    // 09:45-11:15 starts and ends mid-slot; it must block every slot it
    // touches: 09:30, 10:00, 10:30 and 11:00.
    busy := []TimeSlot{NewTimeSlot(day.Add(9*time.Hour+45*time.Minute), day.Add(11*time.Hour+15*time.Minute))}

    slots, err := FreeSlots(busy, day, 9, 18, 30)
    require.NoError(t, err)
    require.Len(t, slots, 14)

    assert.True(t, slots[0].Start.Equal(day.Add(9*time.Hour)))
    assert.True(t, slots[1].Start.Equal(day.Add(11*time.Hour+30*time.Minute)))
}

func TestFreeSlots_OvernightBusyIntervalBlocksMorning(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
    // A booking from the previous evening running until 10:00 must block
    // the 09:00 and 09:30 slots even though it did not start on this day.
    busy := []TimeSlot{NewTimeSlot(day.Add(-time.Hour), day.Add(10*time.Hour))}

    slots, err := FreeSlots(busy, day, 9, 18, 30)
    require.NoError(t, err)
    require.Len(t, slots, 16)
    assert.True(t, slots[0].Start.Equal(day.Add(10*time.Hour)))
}

func TestFreeSlots_InvalidConfiguration(t *testing.T) {
    day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

    _, err := FreeSlots(nil, day, 18, 9, 30)
    assert.ErrorIs(t, err, ErrBadHours)

    _, err = FreeSlots(nil, day, 9, 9, 30)
    assert.ErrorIs(t, err, ErrBadHours)

    _, err = FreeSlots(nil, day, 9, 18, 0)
    assert.ErrorIs(t, err, ErrBadHours)
}

func TestPolicy_Normalize(t *testing.T) {
    p := Policy{}.Normalize()
    assert.Equal(t, DefaultPolicy(), p)

    p = Policy{OpeningHour: 8, ClosingHour: 20}.Normalize()
    assert.Equal(t, 8, p.OpeningHour)
    assert.Equal(t, 20, p.ClosingHour)
    assert.Equal(t, 30, p.SlotMinutes)
}
