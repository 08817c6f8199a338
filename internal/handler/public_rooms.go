// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public availability API. These routes allow
// unauthenticated users to browse rooms and query free slots without requiring
// authentication. Deactivated rooms are invisible here; only the admin surface
// can see them.

package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/availability"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// PublicHandler aggregates the room repository and the availability
// service for unauthenticated browsing.
type PublicHandler struct {
    Rooms *repository.RoomRepo  // provides access to room data
    Avail *availability.Service // answers free-slot queries
}

// NewPublicHandler constructs a PublicHandler.  Both dependencies must
// be non-nil.
func NewPublicHandler(rooms *repository.RoomRepo, avail *availability.Service) *PublicHandler {
    if rooms == nil || avail == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Rooms: rooms, Avail: avail}
}

// ListRooms handles GET /v1/rooms.  It returns every active room; the
// response JSON contains an "items" array.
func (h *PublicHandler) ListRooms(c echo.Context) error {
    rooms, err := h.Rooms.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoom handles GET /v1/rooms/:id.  Deactivated rooms are reported as
// not found to unauthenticated callers.
func (h *PublicHandler) GetRoom(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    room, err := h.Rooms.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !room.IsActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    }
    return c.JSON(http.StatusOK, room)
}

// RoomSlots handles GET /v1/rooms/:id/slots?date=YYYY-MM-DD.  It returns
// the free slots of a single room for the requested day within business
// hours.  Inactive rooms yield 422 so clients can distinguish "gone" from
// "temporarily closed".
func (h *PublicHandler) RoomSlots(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    day, ok := parseDateParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter is required (YYYY-MM-DD)"})
    }
    slots, err := h.Avail.FreeSlotsForRoom(c.Request().Context(), id, day)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrRoomNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        case errors.Is(err, availability.ErrRoomInactive):
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room is not active"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute slots"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id": id,
        "date":    availability.DayKey(day),
        "slots":   slots,
    })
}

// Availability handles GET /v1/availability?date=YYYY-MM-DD.  It returns
// the free slots of every active room for the day.  Rooms that are fully
// booked are omitted unless include_full=true is passed.
func (h *PublicHandler) Availability(c echo.Context) error {
    day, ok := parseDateParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter is required (YYYY-MM-DD)"})
    }
    includeFull := strings.EqualFold(c.QueryParam("include_full"), "true")
    items, err := h.Avail.FreeSlotsForAllActiveRooms(c.Request().Context(), day, includeFull)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute availability"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":  availability.DayKey(day),
        "items": items,
    })
}
