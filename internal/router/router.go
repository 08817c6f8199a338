package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/room-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/room-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/room-reservation/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session (register, login,
	// refresh).  Each of these handlers generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new access
	// token while reusing the existing refresh token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts either
	// a refresh_token body or a bearer token and invalidates accordingly.
	g.POST("/logout", a.Logout)

	// Protected endpoints live under /v1 and require a valid access token
	// with a known role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	auth.GET("/me", a.Me)

	// Alias so clients can call either /v1/auth/logout or /v1/logout with a
	// valid refresh token in the body to terminate a session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated availability endpoints on the
// provided Echo instance.  These routes return sanitized data for rooms and
// free slots and apply no JWT or role middleware.  The optional mw chain
// (typically response cache + rate limiting) is applied to all of them,
// since they form the hot read path.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// List all active rooms
	g.GET("/rooms", p.ListRooms)
	// Room details by room id (active rooms only)
	g.GET("/rooms/:id", p.GetRoom)
	// Free slots of one room for a day: GET /v1/rooms/:id/slots?date=YYYY-MM-DD
	g.GET("/rooms/:id/slots", p.RoomSlots)
	// Free slots of every active room for a day: GET /v1/availability?date=YYYY-MM-DD
	g.GET("/availability", p.Availability)
}
