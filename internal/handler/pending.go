package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/booking"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// PendingHandler serves the staff view of drafts that never converted.
type PendingHandler struct {
	Svc            *booking.Service
	DefaultHotelID uint64
}

func NewPendingHandler(svc *booking.Service, defaultHotelID uint64) *PendingHandler {
	return &PendingHandler{Svc: svc, DefaultHotelID: defaultHotelID}
}

type pendingDraftPart struct {
	Draft            draftResp `json:"draft"`
	DaysSinceCreated int       `json:"days_since_created"`
	IsExpiringSoon   bool      `json:"is_expiring_soon"`
}

// List returns unconverted drafts, newest first.  Supported query
// params: hotel_id, older_than (RFC3339 or 2006-01-02), check_in_from,
// check_in_to, limit, offset.
// GET /v1/bookings/pending  (staff only)
func (h *PendingHandler) List(c echo.Context) error {
	f := repository.PendingFilter{HotelID: h.DefaultHotelID}
	if v := c.QueryParam("hotel_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		f.HotelID = id
	}
	if v := c.QueryParam("older_than"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid older_than"})
		}
		f.CreatedBefore = &t
	}
	if v := c.QueryParam("check_in_from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_from"})
		}
		f.CheckInFrom = &t
	}
	if v := c.QueryParam("check_in_to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_to"})
		}
		f.CheckInTo = &t
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Offset = n
		}
	}

	views, err := h.Svc.PendingDrafts(c.Request().Context(), f)
	if err != nil {
		return respondBookingError(c, err)
	}
	out := make([]pendingDraftPart, 0, len(views))
	for _, v := range views {
		d := v.Draft
		out = append(out, pendingDraftPart{
			Draft:            toDraftResp(&d, nil),
			DaysSinceCreated: v.DaysSinceCreated,
			IsExpiringSoon:   v.IsExpiringSoon,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"pending": out})
}

func parseFlexibleTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, v)
}
