package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avralis/hotel-reservation/internal/booking"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorStatus(t *testing.T) {
	tests := []struct {
		kind booking.Kind
		want int
	}{
		{booking.KindDraftNotFound, http.StatusNotFound},
		{booking.KindInsufficientInventory, http.StatusConflict},
		{booking.KindPromoCodeUsageLimitReached, http.StatusConflict},
		{booking.KindInvalidPromoCode, http.StatusBadRequest},
		{booking.KindPromoCodeExpired, http.StatusBadRequest},
		{booking.KindMissingGuestInfo, http.StatusBadRequest},
		{booking.KindInvalidDateRange, http.StatusBadRequest},
		{booking.KindNoAvailability, http.StatusBadRequest},
		{booking.KindPricingUnavailable, http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bookingErrorStatus(tt.kind), string(tt.kind))
	}
}

func TestRespondBookingError(t *testing.T) {
	t.Run("typed domain error", func(t *testing.T) {
		c, rec := newTestContext(t)
		err := respondBookingError(c, booking.NewError(booking.KindDraftNotFound, "no draft for session"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "booking.draftNotFound", body["error"])
		assert.Equal(t, "no draft for session", body["message"])
	})

	t.Run("missing row", func(t *testing.T) {
		c, rec := newTestContext(t)
		require.NoError(t, respondBookingError(c, sql.ErrNoRows))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lock timeout maps to conflict", func(t *testing.T) {
		c, rec := newTestContext(t)
		require.NoError(t, respondBookingError(c, booking.ErrLockTimeout))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		c, rec := newTestContext(t)
		require.NoError(t, respondBookingError(c, errors.New("boom")))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSessionFrom(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", "hdr-session")
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "hdr-session", sessionFrom(c))

	// the path param wins over the header
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("session")
	c.SetParamValues("path-session")
	assert.Equal(t, "path-session", sessionFrom(c))
}
