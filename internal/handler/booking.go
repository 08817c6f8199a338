package handler

import (
    "errors"   // for errors.Is comparisons against service sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "strings"  // trimming request fields
    "time"     // parsing RFC3339 timestamps

    "github.com/iliyamo/room-reservation/internal/availability" // availability sentinels
    "github.com/iliyamo/room-reservation/internal/booking"      // booking lifecycle service
    "github.com/iliyamo/room-reservation/internal/model"        // role constants
    "github.com/iliyamo/room-reservation/internal/repository"   // repository sentinels and projections
    "github.com/labstack/echo/v4"                               // Echo web framework
)

// BookingHandler exposes the booking lifecycle to authenticated customers.
// All methods assume JWT authentication has already been performed by
// middleware; they may still return 401 when the user ID cannot be
// extracted from the context.  Conflict detection and authorization live
// in the booking service, this layer only translates errors to statuses.
type BookingHandler struct {
    Svc      *booking.Service        // lifecycle operations (create, reschedule, cancel)
    Bookings *repository.BookingRepo // read-side listing queries
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies must
// be non-nil.
func NewBookingHandler(svc *booking.Service, bookings *repository.BookingRepo) *BookingHandler {
    if svc == nil || bookings == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc, Bookings: bookings}
}

type bookingWindowReq struct {
    RoomID   uint64 `json:"room_id"`
    StartsAt string `json:"starts_at"` // RFC3339
    EndsAt   string `json:"ends_at"`   // RFC3339
}

// parseWindow validates and parses the starts_at/ends_at pair from a
// request body.  Format errors are reported to the client directly; the
// semantic checks (ordering, duration, past) belong to the service.
func parseWindow(c echo.Context, startsAt, endsAt string) (time.Time, time.Time, bool) {
    start, err := time.Parse(time.RFC3339, strings.TrimSpace(startsAt))
    if err != nil {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
        return time.Time{}, time.Time{}, false
    }
    end, err := time.Parse(time.RFC3339, strings.TrimSpace(endsAt))
    if err != nil {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
        return time.Time{}, time.Time{}, false
    }
    return start, end, true
}

// writeBookingError maps booking service errors onto HTTP responses.
// Conflicts carry the contested room and window so clients can offer
// alternatives without a second round trip.
func writeBookingError(c echo.Context, err error) error {
    var ce *booking.ConflictError
    switch {
    case errors.Is(err, booking.ErrInvalidWindow):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
    case errors.Is(err, booking.ErrDurationOutOfRange):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking duration out of allowed range"})
    case errors.Is(err, booking.ErrPastBooking):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking time is in the past"})
    case errors.Is(err, repository.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, availability.ErrRoomInactive):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room is not active"})
    case errors.As(err, &ce):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":     "room is already booked for this time",
            "room_id":   ce.RoomID,
            "starts_at": ce.Start.Format(time.RFC3339),
            "ends_at":   ce.End.Format(time.RFC3339),
        })
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflicts with its current state"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Create handles POST /v1/bookings.  The body must contain room_id and an
// RFC3339 starts_at/ends_at window.  Returns 201 with the booking detail
// on success, 409 when the room is already taken for the window.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body bookingWindowReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
    }
    start, end, ok := parseWindow(c, body.StartsAt, body.EndsAt)
    if !ok {
        return nil
    }
    detail, err := h.Svc.Create(c.Request().Context(), body.RoomID, start, end, userID)
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusCreated, detail)
}

// Reschedule handles PATCH /v1/bookings/:id.  The body carries a new
// starts_at/ends_at window; the room cannot be changed by rescheduling.
// Owners may move their own bookings, admins anyone's.
func (h *BookingHandler) Reschedule(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        StartsAt string `json:"starts_at"`
        EndsAt   string `json:"ends_at"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    start, end, ok := parseWindow(c, body.StartsAt, body.EndsAt)
    if !ok {
        return nil
    }
    detail, err := h.Svc.Reschedule(c.Request().Context(), id, start, end, userID, getRole(c))
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusOK, detail)
}

// Cancel handles DELETE /v1/bookings/:id.  Cancellation is terminal but
// keeps the booking row for audit; the cancelled detail is returned so
// clients can show what was released.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    detail, err := h.Svc.Cancel(c.Request().Context(), id, userID, getRole(c))
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusOK, detail)
}

// Get handles GET /v1/bookings/:id.  It returns the detail projection of
// a single booking.  Customers can only read their own bookings; admins
// can read any.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx := c.Request().Context()
    detail, err := h.Bookings.Detail(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
    }
    if detail.UserID != userID && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// ListMine handles GET /v1/my-bookings.  It returns all bookings created
// by the current user, newest first.  When no bookings exist it returns
// an empty array.
func (h *BookingHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
