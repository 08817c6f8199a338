// Package repository contains data access logic for the reservation
// domain. This file manages persistence for rooms. Rooms carry an
// is_active flag; deactivation is the soft path that keeps existing
// bookings intact, while Delete removes the row permanently and is
// refused while live bookings still reference the room.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo manages persistence for rooms.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// ErrRoomNameExists is returned by Create/Update when the unique room
// name constraint is violated.
var ErrRoomNameExists = errors.New("room name already exists")

const roomColumns = `id, name, capacity, amenities, is_active, created_at, updated_at`

// scanRoom scans one rooms row into a model.Room, splitting the
// comma-joined amenities column.
func scanRoom(scan func(dest ...any) error) (*model.Room, error) {
    var room model.Room
    var amenities string
    if err := scan(&room.ID, &room.Name, &room.Capacity, &amenities, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
        return nil, err
    }
    room.Amenities = splitAmenities(amenities)
    return &room, nil
}

func splitAmenities(s string) []string {
    out := []string{}
    for _, part := range strings.Split(s, ",") {
        if part = strings.TrimSpace(part); part != "" {
            out = append(out, part)
        }
    }
    return out
}

func joinAmenities(amenities []string) string {
    parts := make([]string, 0, len(amenities))
    for _, a := range amenities {
        if a = strings.TrimSpace(a); a != "" {
            parts = append(parts, a)
        }
    }
    return strings.Join(parts, ",")
}

// Create inserts a new room and assigns the generated ID back to the
// struct.  The DB enforces name uniqueness; violations are reported as
// ErrRoomNameExists.  Default fields (is_active, timestamps) are read
// back after the insert.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
    const q = `INSERT INTO rooms (name, capacity, amenities) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, joinAmenities(room.Amenities))
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrRoomNameExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    room.ID = uint64(id)
    fresh, err := r.GetByID(ctx, room.ID)
    if err != nil {
        return err
    }
    *room = *fresh
    return nil
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound if
// there is no matching row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
    room, err := scanRoom(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    return room, nil
}

// ListActive returns all active rooms ordered by name.
func (r *RoomRepo) ListActive(ctx context.Context) ([]model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms WHERE is_active = 1 ORDER BY name ASC`
    return r.list(ctx, q)
}

// List returns every room, active or not, ordered by name.  Admin
// inventory views use this.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY name ASC`
    return r.list(ctx, q)
}

func (r *RoomRepo) list(ctx context.Context, q string) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Room, 0)
    for rows.Next() {
        room, err := scanRoom(rows.Scan)
        if err != nil {
            return nil, err
        }
        result = append(result, *room)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Update replaces name, capacity and amenities of an existing room.
// Changing these fields never touches existing bookings.  Returns
// ErrRoomNotFound when the room does not exist and ErrRoomNameExists
// on a name collision.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
    const q = `UPDATE rooms SET name = ?, capacity = ?, amenities = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, joinAmenities(room.Amenities), room.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrRoomNameExists
        }
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // Either the row is missing or nothing changed; disambiguate.
        if _, err := r.GetByID(ctx, room.ID); err != nil {
            return err
        }
    }
    fresh, err := r.GetByID(ctx, room.ID)
    if err != nil {
        return err
    }
    *room = *fresh
    return nil
}

// SetActive flips the is_active flag.  Deactivation is soft: existing
// bookings stay untouched and remain visible for audit.
func (r *RoomRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    const q = `UPDATE rooms SET is_active = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, active, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a room permanently.  It refuses with ErrConflict when
// live bookings still reference the room; cancelled bookings do not
// block deletion and are removed along with the room by the FK cascade.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
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
    const checkQ = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND status IN ('PENDING','CONFIRMED','ACTIVE')`
    var live int
    if err := tx.QueryRowContext(ctx, checkQ, id).Scan(&live); err != nil {
        return err
    }
    if live > 0 {
        return ErrConflict
    }
    const del = `DELETE FROM rooms WHERE id = ?`
    res, err := tx.ExecContext(ctx, del, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrRoomNotFound
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
