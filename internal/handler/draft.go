package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/booking"
	"github.com/avralis/hotel-reservation/internal/model"
)

// DraftHandler serves the guest-facing draft endpoints.  Guests are
// identified by an opaque session ID; no authentication is involved.
type DraftHandler struct {
	Svc            *booking.Service
	DefaultHotelID uint64
}

func NewDraftHandler(svc *booking.Service, defaultHotelID uint64) *DraftHandler {
	return &DraftHandler{Svc: svc, DefaultHotelID: defaultHotelID}
}

const dateLayout = "2006-01-02"

type draftReq struct {
	SessionID  string `json:"session_id"` // generated when empty
	HotelID    uint64 `json:"hotel_id"`
	RoomTypeID uint64 `json:"room_type_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults     int    `json:"adults" validate:"required,min=1,max=10"`
	Children   int    `json:"children" validate:"min=0,max=10"`
	PromoCode  string `json:"promo_code" validate:"max=64"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
}

type draftItemPart struct {
	Date       string `json:"date"`
	PriceCents int64  `json:"price_cents"`
}

type draftResp struct {
	SessionID     string          `json:"session_id"`
	ReferenceCode string          `json:"reference_code"`
	HotelID       uint64          `json:"hotel_id"`
	RoomTypeID    uint64          `json:"room_type_id"`
	CheckIn       string          `json:"check_in"`
	CheckOut      string          `json:"check_out"`
	Adults        int             `json:"adults"`
	Children      int             `json:"children"`
	PromoCode     string          `json:"promo_code,omitempty"`
	Quote         booking.Quote   `json:"quote"`
	CurrencyCode  string          `json:"currency"`
	Items         []draftItemPart `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toDraftResp(d *model.BookingDraft, items []model.BookingDraftItem) draftResp {
	out := draftResp{
		SessionID:     d.SessionID,
		ReferenceCode: d.ReferenceCode,
		HotelID:       d.HotelID,
		RoomTypeID:    d.RoomTypeID,
		CheckIn:       d.CheckIn.Format(dateLayout),
		CheckOut:      d.CheckOut.Format(dateLayout),
		Adults:        d.Adults,
		Children:      d.Children,
		PromoCode:     d.PromoCode,
		Quote: booking.Quote{
			BaseAmountCents:     d.BaseAmountCents,
			TaxAmountCents:      d.TaxAmountCents,
			FeeAmountCents:      d.FeeAmountCents,
			DiscountAmountCents: d.DiscountAmountCents,
			TotalAmountCents:    d.TotalAmountCents,
			BalanceDueCents:     d.BalanceDueCents,
		},
		CurrencyCode: d.CurrencyCode,
		Items:        make([]draftItemPart, 0, len(items)),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, draftItemPart{Date: it.Date.Format(dateLayout), PriceCents: it.PriceCents})
	}
	return out
}

// Upsert prices the stay and creates or replaces the session's draft.
// POST /v1/drafts
func (h *DraftHandler) Upsert(c echo.Context) error {
	var req draftReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	if req.SessionID == "" {
		req.SessionID = sessionFrom(c)
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	hotelID := req.HotelID
	if hotelID == 0 {
		hotelID = h.DefaultHotelID
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
	}

	d, items, err := h.Svc.CreateOrUpdateDraft(c.Request().Context(), booking.DraftInput{
		SessionID:    req.SessionID,
		HotelID:      hotelID,
		RoomTypeID:   req.RoomTypeID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       req.Adults,
		Children:     req.Children,
		PromoCode:    req.PromoCode,
		CurrencyCode: req.Currency,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toDraftResp(d, items))
}

// Get returns the session's draft.
// GET /v1/drafts/:session
func (h *DraftHandler) Get(c echo.Context) error {
	d, items, err := h.Svc.GetDraft(c.Request().Context(), sessionFrom(c))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toDraftResp(d, items))
}

// Abandon deletes the session's draft.
// DELETE /v1/drafts/:session
func (h *DraftHandler) Abandon(c echo.Context) error {
	if err := h.Svc.AbandonDraft(c.Request().Context(), sessionFrom(c)); err != nil {
		return respondBookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type convertReq struct {
	GuestName        string `json:"guest_name" validate:"required,max=255"`
	ContactEmail     string `json:"contact_email" validate:"required,email"`
	ContactPhone     string `json:"contact_phone" validate:"max=64"`
	Notes            string `json:"notes" validate:"max=2000"`
	IsPrepaid        bool   `json:"is_prepaid"`
	PaymentMethod    string `json:"payment_method" validate:"max=32"`
	PaymentProcessor string `json:"payment_processor" validate:"max=64"`
}

// Convert promotes the session's draft into a confirmed booking.
// POST /v1/drafts/:session/convert
func (h *DraftHandler) Convert(c echo.Context) error {
	var req convertReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	b, err := h.Svc.ConvertDraftToBooking(c.Request().Context(), booking.ConvertInput{
		SessionID:        sessionFrom(c),
		GuestName:        req.GuestName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		Source:           model.BookingSourceWeb,
		Notes:            req.Notes,
		IsPrepaid:        req.IsPrepaid,
		PaymentMethod:    req.PaymentMethod,
		PaymentProcessor: req.PaymentProcessor,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b, nil))
}
