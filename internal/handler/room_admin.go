package handler // handler package contains admin-only room management handlers

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/availability"
    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// AdminHandler bundles dependencies for the room management surface.
// All routes are guarded by the ADMIN role middleware; handlers do not
// re-check the role themselves.
type AdminHandler struct {
    Rooms    *repository.RoomRepo    // room persistence
    Bookings *repository.BookingRepo // booking aggregate views
    Avail    *availability.Service   // slot audits for any room, active or not
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(rooms *repository.RoomRepo, bookings *repository.BookingRepo, avail *availability.Service) *AdminHandler {
    if rooms == nil || bookings == nil || avail == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Rooms: rooms, Bookings: bookings, Avail: avail}
}

// CreateRoom handles POST /v1/admin/rooms.  The body must contain a
// non-empty name and a positive capacity; amenities are optional.  New
// rooms start active.  A duplicate name yields 409.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
    var body struct {
        Name      string   `json:"name"`
        Capacity  uint32   `json:"capacity"`
        Amenities []string `json:"amenities"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if body.Capacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
    }
    room := &model.Room{Name: name, Capacity: body.Capacity, Amenities: body.Amenities}
    if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
        if errors.Is(err, repository.ErrRoomNameExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
    }
    return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/admin/rooms.  Unlike the public listing it
// includes deactivated rooms.
func (h *AdminHandler) ListRooms(c echo.Context) error {
    rooms, err := h.Rooms.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// UpdateRoom handles PATCH /v1/admin/rooms/:id.  Name, capacity,
// amenities and is_active can each be updated independently; omitted
// fields keep their current value.  Deactivating a room does not touch
// its existing bookings.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    ctx := c.Request().Context()
    cur, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    var body struct {
        Name      *string   `json:"name"`
        Capacity  *uint32   `json:"capacity"`
        Amenities *[]string `json:"amenities"`
        IsActive  *bool     `json:"is_active"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Name != nil {
        name := strings.TrimSpace(*body.Name)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
        }
        cur.Name = name
    }
    if body.Capacity != nil {
        if *body.Capacity == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
        }
        cur.Capacity = *body.Capacity
    }
    if body.Amenities != nil {
        cur.Amenities = *body.Amenities
    }
    if err := h.Rooms.Update(ctx, cur); err != nil {
        switch {
        case errors.Is(err, repository.ErrRoomNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        case errors.Is(err, repository.ErrRoomNameExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    // is_active is flipped last so a name collision does not leave the
    // room half-updated.
    if body.IsActive != nil && *body.IsActive != cur.IsActive {
        if err := h.Rooms.SetActive(ctx, id, *body.IsActive); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
        }
    }
    fresh, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
    }
    return c.JSON(http.StatusOK, fresh)
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.  A room with live
// bookings cannot be deleted; deactivate it instead.  Returns 204 on
// success and 409 when live bookings still reference the room.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrRoomNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "room has live bookings"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListRoomBookings handles GET /v1/admin/rooms/:id/bookings.  It returns
// every booking of a room, cancelled ones included, newest first.
func (h *AdminHandler) ListRoomBookings(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Rooms.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items, err := h.Bookings.ListByRoom(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBookingsByDay handles GET /v1/admin/bookings?date=YYYY-MM-DD.  It
// returns the schedule across all rooms for one day.
func (h *AdminHandler) ListBookingsByDay(c echo.Context) error {
    day, ok := parseDateParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter is required (YYYY-MM-DD)"})
    }
    items, err := h.Bookings.ListByDay(c.Request().Context(), day)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":  availability.DayKey(day),
        "items": items,
    })
}

// AuditRoomSlots handles GET /v1/admin/rooms/:id/slots?date=YYYY-MM-DD.
// Unlike the public slot endpoint it also works for deactivated rooms,
// so staff can inspect the schedule before reactivating one.
func (h *AdminHandler) AuditRoomSlots(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    day, ok := parseDateParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter is required (YYYY-MM-DD)"})
    }
    slots, err := h.Avail.FreeSlotsForRoomAudit(c.Request().Context(), id, day)
    if err != nil {
        if errors.Is(err, repository.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute slots"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id": id,
        "date":    availability.DayKey(day),
        "slots":   slots,
    })
}
