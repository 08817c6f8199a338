package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking
// occupies its room for the half-open window [starts_at, ends_at)
// while its status is live (PENDING, CONFIRMED or ACTIVE).  All
// timestamp columns are stored in UTC.
//
// The two write paths that can race with concurrent requests for the
// same room — InsertConflictFree and UpdateTimesConflictFree — run a
// locking re-check of the overlap condition inside a transaction, so
// a conflicting booking that slipped in between the service-level
// availability check and the write surfaces as ErrConflict exactly
// like a conflict detected up front.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to span
// repositories with one transaction.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, room_id, user_id, starts_at, ends_at, status, created_at, updated_at`

const liveStatusSet = `('PENDING','CONFIRMED','ACTIVE')`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
    var b model.Booking
    if err := scan(&b.ID, &b.RoomID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
        return nil, err
    }
    return &b, nil
}

// dayBounds returns the [00:00, 24:00) window of the calendar day of t
// in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
    start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
    return start, start.Add(24 * time.Hour)
}

// FindByID retrieves a booking by its ID.  It returns
// ErrBookingNotFound if there is no matching row.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return b, nil
}

// FindLiveOverlapping returns the live bookings for roomID whose
// window overlaps [start, end), skipping excludeID when non-zero.
// The overlap condition mirrors the in-process predicate: a booking
// conflicts iff starts_at < end AND ends_at > start.
func (r *BookingRepo) FindLiveOverlapping(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings
          WHERE room_id = ? AND status IN ` + liveStatusSet + `
            AND starts_at < ? AND ends_at > ?`
    args := []any{roomID, end, start}
    if excludeID != 0 {
        q += ` AND id <> ?`
        args = append(args, excludeID)
    }
    q += ` ORDER BY starts_at ASC`
    return r.query(ctx, q, args...)
}

// FindByRoomAndDay returns the live bookings for roomID that intrude
// into the calendar day of day, including bookings that started the
// previous day and run into it.
func (r *BookingRepo) FindByRoomAndDay(ctx context.Context, roomID uint64, day time.Time) ([]model.Booking, error) {
    dayStart, dayEnd := dayBounds(day)
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE room_id = ? AND status IN ` + liveStatusSet + `
                 AND starts_at < ? AND ends_at > ?
               ORDER BY starts_at ASC`
    return r.query(ctx, q, roomID, dayEnd, dayStart)
}

// FindAllLiveByDay returns all live bookings across all rooms that
// intrude into the calendar day of day.  The availability service uses
// this to compute per-room slots without a query per room.
func (r *BookingRepo) FindAllLiveByDay(ctx context.Context, day time.Time) ([]model.Booking, error) {
    dayStart, dayEnd := dayBounds(day)
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE status IN ` + liveStatusSet + `
                 AND starts_at < ? AND ends_at > ?
               ORDER BY room_id ASC, starts_at ASC`
    return r.query(ctx, q, dayEnd, dayStart)
}

func (r *BookingRepo) query(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        result = append(result, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// InsertConflictFree persists a new booking provided its window is
// still free at write time.  Inside one transaction it locks any live
// overlapping rows for the room with FOR UPDATE, re-checks emptiness
// and only then inserts.  A conflicting booking committed after the
// caller's availability check therefore turns into ErrConflict here
// instead of a double booking.  On success the generated ID and
// DB-default fields are populated on the given struct.
func (r *BookingRepo) InsertConflictFree(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := lockConflicts(ctx, tx, b.RoomID, b.StartsAt, b.EndsAt, 0); err != nil {
        return err
    }
    const ins = `INSERT INTO bookings (room_id, user_id, starts_at, ends_at, status) VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins, b.RoomID, b.UserID, b.StartsAt, b.EndsAt, b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults.
    const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    fresh, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID).Scan)
    if err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    *b = *fresh
    return nil
}

// UpdateTimesConflictFree moves an existing booking to a new window
// under the same locking protocol as InsertConflictFree, excluding the
// booking itself from the overlap check so it is never matched against
// its own current window.
func (r *BookingRepo) UpdateTimesConflictFree(ctx context.Context, id, roomID uint64, start, end time.Time) (*model.Booking, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := lockConflicts(ctx, tx, roomID, start, end, id); err != nil {
        return nil, err
    }
    const upd = `UPDATE bookings SET starts_at = ?, ends_at = ? WHERE id = ?`
    res, err := tx.ExecContext(ctx, upd, start, end, id)
    if err != nil {
        return nil, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // The row may exist with identical values; verify presence.
        const chk = `SELECT id FROM bookings WHERE id = ?`
        var got uint64
        if err := tx.QueryRowContext(ctx, chk, id).Scan(&got); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return nil, ErrBookingNotFound
            }
            return nil, err
        }
    }
    const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    fresh, err := scanBooking(tx.QueryRowContext(ctx, sel, id).Scan)
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return fresh, nil
}

// lockConflicts locks the live bookings of roomID overlapping
// [start, end) and returns ErrConflict when any exist.  The FOR UPDATE
// lock serializes concurrent writers targeting the same window until
// the surrounding transaction ends.
func lockConflicts(ctx context.Context, tx *sql.Tx, roomID uint64, start, end time.Time, excludeID uint64) error {
    q := `SELECT id FROM bookings
          WHERE room_id = ? AND status IN ` + liveStatusSet + `
            AND starts_at < ? AND ends_at > ?`
    args := []any{roomID, end, start}
    if excludeID != 0 {
        q += ` AND id <> ?`
        args = append(args, excludeID)
    }
    q += ` FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    if rows.Next() {
        return ErrConflict
    }
    return rows.Err()
}

// UpdateStatus sets the status of a booking and returns the updated
// row.  It returns ErrBookingNotFound when the booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Booking, error) {
    const upd = `UPDATE bookings SET status = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, upd, status, id); err != nil {
        return nil, err
    }
    return r.FindByID(ctx, id)
}

// BookingDetail encapsulates a booking along with the related room and
// user information.  It is the projection returned to API callers so
// that responses do not require extra lookups.
type BookingDetail struct {
    ID              uint64    `json:"id"`
    RoomID          uint64    `json:"room_id"`
    RoomName        string    `json:"room_name"`
    UserID          uint64    `json:"user_id"`
    UserEmail       string    `json:"user_email"`
    StartsAt        time.Time `json:"starts_at"`
    EndsAt          time.Time `json:"ends_at"`
    DurationMinutes int       `json:"duration_minutes"`
    Status          string    `json:"status"`
    CreatedAt       time.Time `json:"created_at"`
}

const detailQuery = `SELECT b.id, b.room_id, r.name, b.user_id, u.email,
                            b.starts_at, b.ends_at, b.status, b.created_at
                     FROM bookings b
                     JOIN rooms r ON r.id = b.room_id
                     JOIN users u ON u.id = b.user_id`

func scanDetail(scan func(dest ...any) error) (*BookingDetail, error) {
    var d BookingDetail
    if err := scan(&d.ID, &d.RoomID, &d.RoomName, &d.UserID, &d.UserEmail,
        &d.StartsAt, &d.EndsAt, &d.Status, &d.CreatedAt); err != nil {
        return nil, err
    }
    d.DurationMinutes = int(d.EndsAt.Sub(d.StartsAt) / time.Minute)
    return &d, nil
}

// Detail returns the fully-resolved projection of one booking.  It
// returns ErrBookingNotFound when the booking does not exist.
func (r *BookingRepo) Detail(ctx context.Context, id uint64) (*BookingDetail, error) {
    const q = detailQuery + ` WHERE b.id = ?`
    d, err := scanDetail(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return d, nil
}

// ListByUser returns all bookings created by the given user, newest
// first.  Cancelled bookings are included so users can review their
// history.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = detailQuery + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
    return r.queryDetails(ctx, q, userID)
}

// ListByRoom returns all bookings of a room ordered by start time.
// Admin room views use this; every status is included.
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID uint64) ([]BookingDetail, error) {
    const q = detailQuery + ` WHERE b.room_id = ? ORDER BY b.starts_at ASC`
    return r.queryDetails(ctx, q, roomID)
}

// ListByDay returns every booking, regardless of status, that intrudes
// into the calendar day of day, ordered by room then start time.  This
// backs the admin aggregate view.
func (r *BookingRepo) ListByDay(ctx context.Context, day time.Time) ([]BookingDetail, error) {
    dayStart, dayEnd := dayBounds(day)
    const q = detailQuery + ` WHERE b.starts_at < ? AND b.ends_at > ?
                              ORDER BY b.room_id ASC, b.starts_at ASC`
    return r.queryDetails(ctx, q, dayEnd, dayStart)
}

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows.Scan)
        if err != nil {
            return nil, err
        }
        details = append(details, *d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
