package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/handler"
)

// RegisterGuest registers the anonymous guest booking flow under /v1.
// Guests carry an opaque session ID (body field, path param or
// X-Session-ID header) instead of authenticating; rate limiting keyed
// on that session is applied at the Echo level in main.
func RegisterGuest(e *echo.Echo, d *handler.DraftHandler, b *handler.BookingHandler) {
	// Draft lifecycle: price + hold a quote, inspect it, abandon it.
	e.POST("/v1/drafts", d.Upsert)
	e.GET("/v1/drafts/:session", d.Get)
	e.DELETE("/v1/drafts/:session", d.Abandon)
	// Promotion of a draft into a confirmed booking.
	e.POST("/v1/drafts/:session/convert", d.Convert)
	// Guests can look up a confirmed booking by id, e.g. from the
	// confirmation email.
	e.GET("/v1/bookings/:id", b.Get)
}
