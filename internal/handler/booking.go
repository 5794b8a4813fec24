package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/booking"
	"github.com/avralis/hotel-reservation/internal/model"
)

// BookingHandler serves booking lookup and the staff direct-booking
// endpoint.
type BookingHandler struct {
	Svc            *booking.Service
	DefaultHotelID uint64
}

func NewBookingHandler(svc *booking.Service, defaultHotelID uint64) *BookingHandler {
	return &BookingHandler{Svc: svc, DefaultHotelID: defaultHotelID}
}

type bookingItemPart struct {
	Date           string `json:"date"`
	PriceCents     int64  `json:"price_cents"`
	TaxAmountCents int64  `json:"tax_amount_cents"`
	FeeAmountCents int64  `json:"fee_amount_cents"`
}

type bookingResp struct {
	ID            uint64            `json:"id"`
	ReferenceCode string            `json:"reference_code"`
	HotelID       uint64            `json:"hotel_id"`
	RoomTypeID    uint64            `json:"room_type_id"`
	CustomerID    *uint64           `json:"customer_id,omitempty"`
	GuestName     string            `json:"guest_name"`
	ContactEmail  string            `json:"contact_email"`
	ContactPhone  string            `json:"contact_phone,omitempty"`
	Status        string            `json:"status"`
	Source        string            `json:"source"`
	CheckIn       string            `json:"check_in"`
	CheckOut      string            `json:"check_out"`
	Adults        int               `json:"adults"`
	Children      int               `json:"children"`
	Quote         booking.Quote     `json:"quote"`
	CurrencyCode  string            `json:"currency"`
	Notes         string            `json:"notes,omitempty"`
	Items         []bookingItemPart `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toBookingResp(b *model.Booking, items []model.BookingItem) bookingResp {
	out := bookingResp{
		ID:            b.ID,
		ReferenceCode: b.ReferenceCode,
		HotelID:       b.HotelID,
		RoomTypeID:    b.RoomTypeID,
		CustomerID:    b.CustomerID,
		GuestName:     b.GuestName,
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		Status:        b.Status,
		Source:        b.Source,
		CheckIn:       b.CheckIn.Format(dateLayout),
		CheckOut:      b.CheckOut.Format(dateLayout),
		Adults:        b.Adults,
		Children:      b.Children,
		Quote: booking.Quote{
			BaseAmountCents:     b.BaseAmountCents,
			TaxAmountCents:      b.TaxAmountCents,
			FeeAmountCents:      b.FeeAmountCents,
			DiscountAmountCents: b.DiscountAmountCents,
			TotalAmountCents:    b.TotalAmountCents,
			BalanceDueCents:     b.BalanceDueCents,
		},
		CurrencyCode: b.CurrencyCode,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, bookingItemPart{
			Date:           it.Date.Format(dateLayout),
			PriceCents:     it.PriceCents,
			TaxAmountCents: it.TaxAmountCents,
			FeeAmountCents: it.FeeAmountCents,
		})
	}
	return out
}

// Get returns a booking with its nightly items.
// GET /v1/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, items, err := h.Svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b, items))
}

type directBookingReq struct {
	HotelID          uint64 `json:"hotel_id"`
	RoomTypeID       uint64 `json:"room_type_id" validate:"required"`
	CheckIn          string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut         string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults           int    `json:"adults" validate:"required,min=1,max=10"`
	Children         int    `json:"children" validate:"min=0,max=10"`
	CustomerEmail    string `json:"customer_email" validate:"required,email"`
	CustomerName     string `json:"customer_name" validate:"required,max=255"`
	CustomerPhone    string `json:"customer_phone" validate:"max=64"`
	PromoCode        string `json:"promo_code" validate:"max=64"`
	Source           string `json:"source" validate:"omitempty,oneof=walk_in phone channel"`
	Notes            string `json:"notes" validate:"max=2000"`
	Currency         string `json:"currency" validate:"omitempty,len=3"`
	IsPrepaid        bool   `json:"is_prepaid"`
	PaymentMethod    string `json:"payment_method" validate:"max=32"`
	PaymentProcessor string `json:"payment_processor" validate:"max=64"`
}

type directBookingResp struct {
	Booking       bookingResp `json:"booking"`
	CustomerID    uint64      `json:"customer_id"`
	IsNewCustomer bool        `json:"is_new_customer"`
}

// CreateDirect creates a confirmed walk-in booking without a draft.
// POST /v1/bookings/direct  (staff only)
func (h *BookingHandler) CreateDirect(c echo.Context) error {
	var req directBookingReq
	if !bindAndValidate(c, &req) {
		return nil
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

	res, err := h.Svc.CreateDirectBooking(c.Request().Context(), booking.DirectInput{
		HotelID:          hotelID,
		RoomTypeID:       req.RoomTypeID,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Adults:           req.Adults,
		Children:         req.Children,
		CustomerEmail:    req.CustomerEmail,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		PromoCode:        req.PromoCode,
		Source:           req.Source,
		Notes:            req.Notes,
		CurrencyCode:     req.Currency,
		IsPrepaid:        req.IsPrepaid,
		PaymentMethod:    req.PaymentMethod,
		PaymentProcessor: req.PaymentProcessor,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, directBookingResp{
		Booking:       toBookingResp(res.Booking, nil),
		CustomerID:    res.Customer.ID,
		IsNewCustomer: res.IsNewCustomer,
	})
}
