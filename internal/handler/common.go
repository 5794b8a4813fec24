package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/booking"
)

// validate is shared across handlers; validator.Validate is safe for
// concurrent use.
var validate = validator.New()

// bindAndValidate binds the JSON body and runs struct validation,
// writing the 400 response itself.  Returns false when the request was
// already answered.
func bindAndValidate(c echo.Context, req interface{}) bool {
	if err := c.Bind(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return false
	}
	if err := validate.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
		return false
	}
	return true
}

// bookingErrorStatus maps domain failure kinds to HTTP statuses.  A
// missing draft is 404, losing an inventory or promo race is 409, and
// every other kind is a plain bad request.
func bookingErrorStatus(kind booking.Kind) int {
	switch kind {
	case booking.KindDraftNotFound:
		return http.StatusNotFound
	case booking.KindInsufficientInventory, booking.KindPromoCodeUsageLimitReached:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondBookingError writes the response for a service error: typed
// domain errors become structured 400-class responses, sql.ErrNoRows a
// 404, anything else a 500.
func respondBookingError(c echo.Context, err error) error {
	if kind, ok := booking.KindOf(err); ok {
		var be *booking.Error
		msg := ""
		if errors.As(err, &be) {
			msg = be.Message
		}
		return c.JSON(bookingErrorStatus(kind), echo.Map{"error": string(kind), "message": msg})
	}
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if errors.Is(err, booking.ErrLockTimeout) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "draft is being updated, retry"})
	}
	c.Logger().Errorf("booking: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// sessionFrom resolves the guest session: the :session path param when
// present, else the X-Session-ID header.
func sessionFrom(c echo.Context) string {
	if s := c.Param("session"); s != "" {
		return s
	}
	return c.Request().Header.Get("X-Session-ID")
}
