// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios with errors.Is. For example, ErrForbidden indicates that
// the current user is not authorized to act on a resource owned by
// someone else, while ErrConflict signals that a write cannot proceed
// because of conflicting state (an overlapping live booking, or a
// room deletion blocked by dependent records).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state: inserting or moving a booking into a window
// already occupied by a live booking, or deleting a room that still
// has live bookings. Handlers should translate this into an HTTP 409
// response. The same sentinel covers conflicts detected before the
// write and conflicts caught by the write-time exclusion check, so
// callers cannot tell the two apart.
var ErrConflict = errors.New("conflict")

// ErrRoomNotFound indicates that a room was not located in the DB.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")
