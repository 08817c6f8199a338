package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
)

// RegisterBookings registers booking lifecycle endpoints under /v1.  All
// routes require a valid JWT; both roles are accepted because admins use
// the same endpoints to manage their own bookings.  Ownership checks for
// other users' bookings happen in the booking service.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	// Note: GET /v1/rooms, /v1/rooms/:id/slots and /v1/availability are
	// registered on the public router so guests can browse before signing
	// up.  Booking-specific endpoints begin here.
	g.POST("/bookings", h.Create)
	g.GET("/bookings/:id", h.Get)
	g.PATCH("/bookings/:id", h.Reschedule)
	g.DELETE("/bookings/:id", h.Cancel)
	g.GET("/my-bookings", h.ListMine)
}
