package availability

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func at(day time.Time, minutes int) time.Time {
    return day.Add(time.Duration(minutes) * time.Minute)
}

func TestOverlaps_HalfOpen(t *testing.T) {
    day := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

    // Back-to-back windows share an instant but do not overlap.
    assert.False(t, Overlaps(at(day, 0), at(day, 30), at(day, 30), at(day, 60)))
    assert.False(t, Overlaps(at(day, 30), at(day, 60), at(day, 0), at(day, 30)))

    // One minute of intrusion is a conflict.
    assert.True(t, Overlaps(at(day, 0), at(day, 30), at(day, 29), at(day, 60)))

    // Containment in either direction.
    assert.True(t, Overlaps(at(day, 0), at(day, 120), at(day, 30), at(day, 60)))
    assert.True(t, Overlaps(at(day, 30), at(day, 60), at(day, 0), at(day, 120)))
}

func TestOverlaps_Symmetric(t *testing.T) {
    day := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
    cases := [][4]int{
        {0, 30, 30, 60},
        {0, 30, 29, 60},
        {0, 120, 30, 60},
        {0, 30, 45, 60},
    }
    for _, c := range cases {
        a := Overlaps(at(day, c[0]), at(day, c[1]), at(day, c[2]), at(day, c[3]))
        b := Overlaps(at(day, c[2]), at(day, c[3]), at(day, c[0]), at(day, c[1]))
        assert.Equal(t, a, b, "overlap must be symmetric for %v", c)
    }
}

func TestIsInPast(t *testing.T) {
    assert.True(t, IsInPast(time.Now().Add(-time.Second)))
    assert.False(t, IsInPast(time.Now().Add(time.Minute)))
}

func TestValidDuration(t *testing.T) {
    start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

    assert.False(t, ValidDuration(start, start.Add(29*time.Minute), 30, 120))
    assert.True(t, ValidDuration(start, start.Add(30*time.Minute), 30, 120))
    assert.True(t, ValidDuration(start, start.Add(120*time.Hour), 30, 120))
    assert.False(t, ValidDuration(start, start.Add(120*time.Hour+time.Minute), 30, 120))
}

func TestDayKey(t *testing.T) {
    loc, _ := time.LoadLocation("Europe/Berlin")
    assert.Equal(t, "2026-03-04", DayKey(time.Date(2026, 3, 4, 23, 30, 0, 0, loc)))
    assert.Equal(t, "2026-12-31", DayKey(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestNewTimeSlot_Duration(t *testing.T) {
    start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
    slot := NewTimeSlot(start, start.Add(45*time.Minute))
    assert.Equal(t, 45, slot.DurationMinutes)
}
