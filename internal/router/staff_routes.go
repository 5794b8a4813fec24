package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/handler"    // staff handlers
	"github.com/avralis/hotel-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterStaff registers staff-scoped endpoints under /v1.
// All routes require a valid JWT and a staff role.
func RegisterStaff(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, pending *handler.PendingHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleManager, handler.RoleFrontDesk),
	)

	// ---- Bookings ----
	// Walk-in and phone bookings entered at the front desk.
	g.POST("/bookings/direct", b.CreateDirect)
	// Drafts that never converted; the static segment must be registered
	// alongside GET /v1/bookings/:id, echo prefers the static match.
	g.GET("/bookings/pending", pending.List)

	// ---- Payments ----
	g.POST("/bookings/:id/payments", p.Record)
	g.GET("/bookings/:id/payments", p.List)
}
