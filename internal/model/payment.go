package model

import "time"

// Payment status values.  A payment recorded through the payment
// endpoint is succeeded; prepaid bookings whose method or processor
// denotes pay-later start out pending.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
)

// Payment is a money-movement record against a booking.  Succeeded
// payments reduce the booking's balance due, which is floored at zero.
type Payment struct {
	ID          uint64    // payments.id
	BookingID   uint64    // payments.booking_id
	AmountCents int64     // payments.amount_cents
	Status      string    // payments.status
	Method      string    // payments.method
	Processor   string    // payments.processor
	CreatedAt   time.Time // payments.created_at
}
