package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"    // admin handlers
	"github.com/iliyamo/room-reservation/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/room-reservation/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Rooms ----
	g.POST("/rooms", a.CreateRoom)
	// Unlike the public /v1/rooms listing, this one includes deactivated rooms.
	g.GET("/rooms", a.ListRooms)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.PATCH("/rooms/:id", a.UpdateRoom) // allow partial updates via PATCH as well
	g.DELETE("/rooms/:id", a.DeleteRoom)

	// ---- Schedule views ----
	g.GET("/rooms/:id/bookings", a.ListRoomBookings)
	g.GET("/bookings", a.ListBookingsByDay)
	// Slot audit also works on deactivated rooms.
	g.GET("/rooms/:id/slots", a.AuditRoomSlots)
}
