package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avralis/hotel-reservation/internal/booking"
	"github.com/avralis/hotel-reservation/internal/repository"
)

// PaymentHandler records payments against bookings and lists them.
type PaymentHandler struct {
	Svc      *booking.Service
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(svc *booking.Service, payments *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Payments: payments}
}

type recordPaymentReq struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Method      string `json:"method" validate:"required,max=32"`
	Processor   string `json:"processor" validate:"max=64"`
}

type paymentPart struct {
	ID          uint64    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	Method      string    `json:"method"`
	Processor   string    `json:"processor,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record registers a succeeded payment and returns the new balance.
// POST /v1/bookings/:id/payments  (staff only)
func (h *PaymentHandler) Record(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req recordPaymentReq
	if !bindAndValidate(c, &req) {
		return nil
	}
	p, balance, err := h.Svc.RecordPayment(c.Request().Context(), id, req.AmountCents, req.Method, req.Processor)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment": paymentPart{
			ID:          p.ID,
			AmountCents: p.AmountCents,
			Status:      p.Status,
			Method:      p.Method,
			Processor:   p.Processor,
			CreatedAt:   p.CreatedAt,
		},
		"balance_due_cents": balance,
	})
}

// List returns every payment recorded against a booking.
// GET /v1/bookings/:id/payments  (staff only)
func (h *PaymentHandler) List(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	payments, err := h.Payments.ListByBooking(c.Request().Context(), id)
	if err != nil {
		return respondBookingError(c, err)
	}
	out := make([]paymentPart, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentPart{
			ID:          p.ID,
			AmountCents: p.AmountCents,
			Status:      p.Status,
			Method:      p.Method,
			Processor:   p.Processor,
			CreatedAt:   p.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
